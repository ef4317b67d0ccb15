package game

import (
	"golang.org/x/exp/rand"
)

// Torres is a complete game: the board, the players and the turn order.
//
// The checked operations (PlaceBlock, PlaceKnight, MoveKnight, PlaceKing,
// EndTurn) validate the move and leave the game untouched when it is illegal.
// The Execute/Undo pairs skip validation and are meant for search code that
// only plays moves drawn from the legal move generators.
type Torres struct {
	Config            Config    `json:"config"`
	Board             *Board    `json:"board"`
	Players           []*Player `json:"players"`
	ActivePlayer      int       `json:"activePlayer"`
	StartingPlayer    int       `json:"startingPlayer"`
	Round             int       `json:"round"`
	Phase             int       `json:"phase"`
	PlacedInitKnights []bool    `json:"placedInitKnights"`
	PlayerToPlaceKing int       `json:"playerToPlaceKing"`
	GameRunning       bool      `json:"gameRunning"`

	rng *rand.Rand
}

// TurnInfo holds everything EndTurnExecute may change, so that the turn end
// can be reverted with EndTurnUndoTo.
type TurnInfo struct {
	Round             int          `json:"round"`
	Phase             int          `json:"phase"`
	ActivePlayer      int          `json:"activePlayer"`
	StartingPlayer    int          `json:"startingPlayer"`
	PlayerToPlaceKing int          `json:"playerToPlaceKing"`
	KingX             int          `json:"kingX"` // -1 if the king is not on the board
	KingY             int          `json:"kingY"`
	Players           []PlayerInfo `json:"players"`
}

// New builds a game that has not been started yet.
func New(cfg Config) (*Torres, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Torres{
		Config: cfg.clone(),
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
	t.ResetGame()
	return t, nil
}

// ResetGame discards the board and the players and returns to the state
// before InitGame.
func (t *Torres) ResetGame() bool {
	dist := t.Config.blockDistribution()
	t.Players = make([]*Player, t.Config.NumPlayers)
	for id := range t.Players {
		t.Players[id] = NewPlayer(id, t.Config.PlayerColors[id], t.Config.NumKnights, t.Config.APPerRound, dist)
	}
	t.Board = NewBoard(t.Config.BoardWidth, t.Config.BoardHeight, t.Config.StartingBlocks)
	t.ActivePlayer = -1
	t.StartingPlayer = -1
	t.Round = -1
	t.Phase = -1
	t.PlacedInitKnights = nil
	t.PlayerToPlaceKing = -1
	t.GameRunning = false
	return true
}

// InitGame seeds castles and knights according to the init mode. It fails if
// the game was already started.
func (t *Torres) InitGame() bool {
	if t.Phase != -1 {
		return false
	}
	n := t.Config.NumPlayers
	switch t.Config.InitMode {
	case RandomInit, BalancedInit:
		t.Board.InitCastles()
		t.Board.InitKnights(n, t.Config.InitMode == BalancedInit, t.rng)
		t.Round = 0
		t.Phase = 1
		t.PlayerToPlaceKing = n - 1
		t.ActivePlayer = t.PlayerToPlaceKing
	case ChoiceInit:
		t.Board.InitCastles()
		t.PlacedInitKnights = make([]bool, n)
		t.Round = 0
		t.Phase = 0
		t.ActivePlayer = 0
		t.PlayerToPlaceKing = -1
	default:
		return false
	}
	t.StartingPlayer = 0
	t.GameRunning = true
	return true
}

func (t *Torres) NumPlayers() int {
	return len(t.Players)
}

func (t *Torres) NumPhases() int {
	return t.Config.NumPhases()
}

func (t *Torres) Player(id int) *Player {
	return t.Players[id]
}

func (t *Torres) Stage() Stage {
	switch {
	case !t.GameRunning && t.Phase == -1:
		return NotStarted
	case !t.GameRunning:
		return Ended
	case t.Phase == 0:
		return InitPlacement
	case t.Round == 0:
		return PlacingKing
	}
	return Playing
}

func (t *Torres) placedInitKnight(playerID int) bool {
	return playerID >= 0 && playerID < len(t.PlacedInitKnights) && t.PlacedInitKnights[playerID]
}

func (t *Torres) isActive(playerID int) bool {
	return t.GameRunning && t.ActivePlayer == playerID
}

// Apply plays a move for the given player through the checked operations.
func (t *Torres) Apply(playerID int, m Move) bool {
	switch m := m.(type) {
	case BlockPlacement:
		return t.PlaceBlock(playerID, m.X, m.Y)
	case KnightPlacement:
		return t.PlaceKnight(playerID, m.X, m.Y)
	case KnightMovement:
		return t.MoveKnight(playerID, m.X, m.Y, m.DestX, m.DestY)
	case KingPlacement:
		return t.PlaceKing(playerID, m.X, m.Y)
	case TurnEnd:
		return t.EndTurn(playerID)
	}
	return false
}

func (t *Torres) PlaceBlock(playerID, x, y int) bool {
	if !t.isActive(playerID) || t.Phase == 0 || t.Round == 0 {
		return false
	}
	player := t.Players[playerID]
	square, castle, ok := t.Board.CanPlaceBlock(x, y)
	if !ok || !player.CanPlaceBlock(t.Round) {
		return false
	}
	player.PlaceBlock(t.Round)
	t.Board.PlaceBlock(square, castle)
	return true
}

func (t *Torres) PlaceBlockExecute(playerID, x, y int) {
	t.Players[playerID].PlaceBlock(t.Round)
	square := t.Board.SquareAt(x, y)
	castle := square.Castle
	if square.Height == 0 {
		for _, n := range t.Board.Neighbors(x, y) {
			if n.Castle != NoCastle {
				castle = n.Castle
				break
			}
		}
	}
	t.Board.PlaceBlock(square, castle)
}

func (t *Torres) PlaceBlockUndo(playerID, x, y int) {
	t.Players[playerID].PlaceBlockUndo(t.Round)
	t.Board.PlaceBlockUndo(x, y)
}

func (t *Torres) PlaceKnight(playerID, x, y int) bool {
	if !t.isActive(playerID) {
		return false
	}
	switch {
	case t.Phase > 0:
		if t.Round == 0 {
			return false
		}
		player := t.Players[playerID]
		square, ok := t.Board.CanPlaceKnight(x, y, playerID, false)
		if !ok || !player.CanPlaceKnight() {
			return false
		}
		player.PlaceKnight()
		t.Board.PlaceKnight(square, playerID)
	case t.Phase == 0:
		if t.placedInitKnight(playerID) {
			return false
		}
		square, ok := t.Board.CanPlaceKnight(x, y, playerID, true)
		if !ok {
			return false
		}
		t.Board.PlaceKnight(square, playerID)
		t.PlacedInitKnights[playerID] = true
	}
	return true
}

func (t *Torres) PlaceKnightExecute(playerID, x, y int) {
	if t.Phase == 0 {
		t.PlacedInitKnights[playerID] = true
	} else {
		t.Players[playerID].PlaceKnight()
	}
	t.Board.PlaceKnight(t.Board.SquareAt(x, y), playerID)
}

func (t *Torres) PlaceKnightUndo(playerID, x, y int) {
	if t.Phase == 0 {
		t.PlacedInitKnights[playerID] = false
	} else {
		t.Players[playerID].PlaceKnightUndo()
	}
	t.Board.PlaceKnightUndo(x, y)
}

func (t *Torres) MoveKnight(playerID, x, y, destX, destY int) bool {
	if !t.isActive(playerID) || t.Phase == 0 || t.Round == 0 {
		return false
	}
	player := t.Players[playerID]
	start, dest, ok := t.Board.CanMoveKnight(x, y, destX, destY, playerID)
	if !ok || !player.CanMoveKnight() {
		return false
	}
	player.MoveKnight()
	t.Board.MoveKnight(start, dest, playerID)
	return true
}

func (t *Torres) MoveKnightExecute(playerID, x, y, destX, destY int) {
	t.Players[playerID].MoveKnight()
	t.Board.MoveKnight(t.Board.SquareAt(x, y), t.Board.SquareAt(destX, destY), playerID)
}

func (t *Torres) MoveKnightUndo(playerID, x, y, destX, destY int) {
	t.Players[playerID].MoveKnightUndo()
	t.Board.MoveKnightUndo(x, y, destX, destY, playerID)
}

func (t *Torres) PlaceKing(playerID, x, y int) bool {
	if !t.isActive(playerID) || t.Phase == 0 || t.Round != 0 || playerID != t.PlayerToPlaceKing {
		return false
	}
	square, ok := t.Board.CanPlaceKing(x, y)
	if !ok {
		return false
	}
	t.Board.PlaceKing(square)
	t.PlayerToPlaceKing = -1
	return true
}

func (t *Torres) PlaceKingExecute(x, y int) {
	t.Board.PlaceKing(t.Board.SquareAt(x, y))
	t.PlayerToPlaceKing = -1
}

func (t *Torres) PlaceKingUndo(playerID int) {
	t.Board.RemoveKing()
	t.PlayerToPlaceKing = playerID
}

func (t *Torres) EndTurn(playerID int) bool {
	if !t.isActive(playerID) {
		return false
	}
	if t.Phase == 0 && !t.placedInitKnight(playerID) {
		return false
	}
	if t.Phase > 0 && t.Round == 0 && t.PlayerToPlaceKing != -1 {
		return false
	}
	t.EndTurnExecute(playerID)
	return true
}

// EndTurnExecute passes the turn on. Wrapping around to the starting player
// ends the round, and the last round of a phase ends the phase.
func (t *Torres) EndTurnExecute(playerID int) {
	if t.Phase > 0 && t.Round > 0 {
		t.Players[playerID].EndTurn()
	}
	if t.Phase > 0 && t.Round == 0 {
		t.ActivePlayer = t.StartingPlayer
	} else {
		t.ActivePlayer = (t.ActivePlayer + 1) % t.NumPlayers()
	}
	if t.ActivePlayer == t.StartingPlayer {
		t.endRound()
	}
}

// Info captures the state needed to revert the next turn end.
func (t *Torres) Info() TurnInfo {
	info := TurnInfo{
		Round:             t.Round,
		Phase:             t.Phase,
		ActivePlayer:      t.ActivePlayer,
		StartingPlayer:    t.StartingPlayer,
		PlayerToPlaceKing: t.PlayerToPlaceKing,
		KingX:             -1,
		KingY:             -1,
		Players:           make([]PlayerInfo, len(t.Players)),
	}
	if king := t.Board.KingSquare(); king != nil {
		info.KingX, info.KingY = king.X, king.Y
	}
	for i, p := range t.Players {
		info.Players[i] = p.Info()
	}
	return info
}

func (t *Torres) EndTurnUndoTo(info TurnInfo) {
	t.GameRunning = true
	t.Round = info.Round
	t.Phase = info.Phase
	t.ActivePlayer = info.ActivePlayer
	t.StartingPlayer = info.StartingPlayer
	t.PlayerToPlaceKing = info.PlayerToPlaceKing
	t.Board.RemoveKing()
	if king := t.Board.SquareAt(info.KingX, info.KingY); king != nil {
		t.Board.PlaceKing(king)
	}
	for i, p := range t.Players {
		p.ResetAttributesTo(info.Players[i])
	}
}

func (t *Torres) endRound() {
	if t.Phase > 0 && t.Round > 0 {
		for _, p := range t.Players {
			p.EndRound(t.Round)
		}
	}
	if t.Phase == 0 || t.Round == t.Config.RoundsPerPhase[t.Phase-1] {
		t.endPhase()
		return
	}
	t.Round++
}

func (t *Torres) endPhase() {
	if t.Phase > 0 {
		for _, p := range t.Players {
			p.AddPoints(t.Board.Evaluate(p.ID, t.Phase))
		}
	}
	if t.Phase == t.NumPhases() {
		t.GameRunning = false
		return
	}
	leader := 0
	for id, p := range t.Players {
		if p.Points > t.Players[leader].Points {
			leader = id
		}
	}
	t.StartingPlayer = leader
	t.Board.RemoveKing()
	for _, p := range t.Players {
		p.EndPhase(t.Phase)
	}
	// ties go to the player latest in turn order
	last := t.NumPlayers() - 1
	for id, p := range t.Players {
		if p.Points < t.Players[last].Points {
			last = id
		}
	}
	t.PlayerToPlaceKing = last
	t.ActivePlayer = last
	t.Round = 0
	t.Phase++
}

// ExecuteMove plays a move for the active player without validation.
func (t *Torres) ExecuteMove(m Move) {
	switch m := m.(type) {
	case BlockPlacement:
		t.PlaceBlockExecute(t.ActivePlayer, m.X, m.Y)
	case KnightPlacement:
		t.PlaceKnightExecute(t.ActivePlayer, m.X, m.Y)
	case KnightMovement:
		t.MoveKnightExecute(t.ActivePlayer, m.X, m.Y, m.DestX, m.DestY)
	case KingPlacement:
		t.PlaceKingExecute(m.X, m.Y)
	case TurnEnd:
		t.EndTurnExecute(t.ActivePlayer)
	}
}

// UndoMove reverts ExecuteMove. Reverting a TurnEnd needs the info taken
// before it was executed.
func (t *Torres) UndoMove(m Move, info *TurnInfo) {
	switch m := m.(type) {
	case BlockPlacement:
		t.PlaceBlockUndo(t.ActivePlayer, m.X, m.Y)
	case KnightPlacement:
		t.PlaceKnightUndo(t.ActivePlayer, m.X, m.Y)
	case KnightMovement:
		t.MoveKnightUndo(t.ActivePlayer, m.X, m.Y, m.DestX, m.DestY)
	case KingPlacement:
		t.PlaceKingUndo(t.ActivePlayer)
	case TurnEnd:
		if info != nil {
			t.EndTurnUndoTo(*info)
		}
	}
}

// Clone returns a deep copy. The copy gets its own random source seeded from
// the receiver's, which advances it.
func (t *Torres) Clone() *Torres {
	cp := &Torres{
		Config:            t.Config,
		Board:             t.Board.Copy(),
		Players:           make([]*Player, len(t.Players)),
		ActivePlayer:      t.ActivePlayer,
		StartingPlayer:    t.StartingPlayer,
		Round:             t.Round,
		Phase:             t.Phase,
		PlacedInitKnights: append([]bool(nil), t.PlacedInitKnights...),
		PlayerToPlaceKing: t.PlayerToPlaceKing,
		GameRunning:       t.GameRunning,
		rng:               rand.New(rand.NewSource(t.rng.Uint64())),
	}
	for i, p := range t.Players {
		cp.Players[i] = p.Copy()
	}
	return cp
}

// Seed resets the random source used for move sampling and knight seeding.
func (t *Torres) Seed(seed uint64) {
	t.rng = rand.New(rand.NewSource(seed))
}
