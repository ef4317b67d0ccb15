package game

import (
	"golang.org/x/exp/slices"
)

// BiasedMove is a move paired with a sampling weight.
type BiasedMove struct {
	Move Move
	Bias float64
}

func (t *Torres) canEndTurn(playerID int) bool {
	return (t.Phase > 0 || t.placedInitKnight(playerID)) && t.PlayerToPlaceKing == -1
}

func (t *Torres) mustPlaceInitKnight(playerID int) bool {
	return t.Phase == 0 && !t.placedInitKnight(playerID)
}

func (t *Torres) mustPlaceKing(playerID int) bool {
	return t.Phase > 0 && t.PlayerToPlaceKing == playerID
}

// canAct reports whether the player is in a regular round with action points
// left.
func (t *Torres) canAct(p *Player) bool {
	return t.Phase > 0 && t.Round > 0 && p.AP > 0
}

func (t *Torres) initKnightMoves() []Move {
	var moves []Move
	for _, s := range t.Board.Squares {
		if s.Height == 1 && s.Knight == Empty {
			moves = append(moves, KnightPlacement{X: s.X, Y: s.Y})
		}
	}
	return moves
}

func (t *Torres) kingMoves() []Move {
	var moves []Move
	for _, s := range t.Board.Squares {
		if s.Height > 0 && s.Knight == Empty {
			moves = append(moves, KingPlacement{X: s.X, Y: s.Y})
		}
	}
	return moves
}

// knightPlacements lists the free squares next to one of the knights that
// are not higher than that knight. Every square is listed once.
func (t *Torres) knightPlacements(knights []*Square) []Move {
	var moves []Move
	seen := make([]bool, len(t.Board.Squares))
	for _, square := range knights {
		for _, n := range t.Board.Neighbors(square.X, square.Y) {
			idx := t.Board.index(n)
			if n.Knight == Empty && n.Height <= square.Height && !seen[idx] {
				seen[idx] = true
				moves = append(moves, KnightPlacement{X: n.X, Y: n.Y})
			}
		}
	}
	return moves
}

// LegalMoves returns every move the player may make now. It is empty when it
// is not the player's turn.
func (t *Torres) LegalMoves(playerID int) []Move {
	if !t.isActive(playerID) {
		return nil
	}
	player := t.Players[playerID]
	var moves []Move
	if t.canEndTurn(playerID) {
		moves = append(moves, TurnEnd{})
	}
	if t.mustPlaceInitKnight(playerID) {
		moves = append(moves, t.initKnightMoves()...)
	}
	if t.mustPlaceKing(playerID) {
		return append(moves, t.kingMoves()...)
	}
	if !t.canAct(player) {
		return moves
	}
	if player.CanPlaceBlock(t.Round) {
		for x := 0; x < t.Board.Width; x++ {
			for y := 0; y < t.Board.Height; y++ {
				if _, _, ok := t.Board.CanPlaceBlock(x, y); ok {
					moves = append(moves, BlockPlacement{X: x, Y: y})
				}
			}
		}
	}
	knights := t.Board.KnightSquares(playerID)
	if player.CanPlaceKnight() {
		moves = append(moves, t.knightPlacements(knights)...)
	}
	if player.CanMoveKnight() {
		for _, square := range knights {
			for _, dest := range t.Board.KnightDestinations(square) {
				moves = append(moves, KnightMovement{X: square.X, Y: square.Y, DestX: dest.X, DestY: dest.Y})
			}
		}
	}
	return moves
}

// LegalMovesOrdered returns the legal moves with the promising ones first:
// climbing above the player's best knight on a castle and building on
// castles the player leads come before knight placements and building on
// other owned castles, which come before the rest.
func (t *Torres) LegalMovesOrdered(playerID int) []Move {
	if !t.isActive(playerID) {
		return nil
	}
	player := t.Players[playerID]
	var first, second, third []Move
	if t.canEndTurn(playerID) {
		third = append(third, TurnEnd{})
	}
	if t.mustPlaceInitKnight(playerID) {
		first = append(first, t.initKnightMoves()...)
	}
	if t.mustPlaceKing(playerID) {
		first = append(first, t.kingMoves()...)
	} else if t.canAct(player) {
		knights, highest := t.Board.KnightPositions(playerID)
		if player.CanMoveKnight() {
			for _, square := range knights {
				for _, dest := range t.Board.KnightDestinations(square) {
					m := KnightMovement{X: square.X, Y: square.Y, DestX: dest.X, DestY: dest.Y}
					h, onCastle := highest[dest.Castle]
					if dest.Height > square.Height && (!onCastle || dest.Height > h) {
						first = append(first, m)
					} else {
						third = append(third, m)
					}
				}
			}
		}
		if player.CanPlaceKnight() {
			second = append(second, t.knightPlacements(knights)...)
		}
		if player.CanPlaceBlock(t.Round) {
			leads := t.Board.HighestKnightsPerCastle()
			for x := 0; x < t.Board.Width; x++ {
				for y := 0; y < t.Board.Height; y++ {
					square, castle, ok := t.Board.CanPlaceBlock(x, y)
					if !ok {
						continue
					}
					m := BlockPlacement{X: x, Y: y}
					if _, mine := highest[castle]; !mine {
						third = append(third, m)
					} else if leads[castle].Knight == playerID || t.Board.HasKnightAsNeighbor(square, playerID) {
						first = append(first, m)
					} else {
						second = append(second, m)
					}
				}
			}
		}
	}
	moves := make([]Move, 0, len(first)+len(second)+len(third))
	moves = append(moves, first...)
	moves = append(moves, second...)
	return append(moves, third...)
}

// calcBias scores a move by how much it changes the player's board value.
func (t *Torres) calcBias(m Move, playerID int) float64 {
	before := t.Board.Evaluate(playerID, t.Phase)
	t.ExecuteMove(m)
	after := t.Board.Evaluate(playerID, t.Phase)
	t.UndoMove(m, nil)
	return float64(20 * (after - before))
}

// LegalMovesBiased returns the legal moves with a sampling bias, sorted by
// ascending bias. Knight moves and block placements that lower the player's
// board value are left out.
func (t *Torres) LegalMovesBiased(playerID int) []BiasedMove {
	if !t.isActive(playerID) {
		return nil
	}
	player := t.Players[playerID]
	var moves []BiasedMove
	if t.canEndTurn(playerID) {
		moves = append(moves, BiasedMove{Move: TurnEnd{}, Bias: 0})
	}
	if t.mustPlaceInitKnight(playerID) {
		for _, m := range t.initKnightMoves() {
			moves = append(moves, BiasedMove{Move: m, Bias: 10})
		}
	}
	if t.mustPlaceKing(playerID) {
		for _, m := range t.kingMoves() {
			moves = append(moves, BiasedMove{Move: m, Bias: t.calcBias(m, playerID)})
		}
	}
	if t.canAct(player) {
		knights := t.Board.KnightSquares(playerID)
		if player.CanMoveKnight() {
			for _, square := range knights {
				for _, dest := range t.Board.KnightDestinations(square) {
					m := KnightMovement{X: square.X, Y: square.Y, DestX: dest.X, DestY: dest.Y}
					if bias := t.calcBias(m, playerID); bias >= 0 {
						moves = append(moves, BiasedMove{Move: m, Bias: bias})
					}
				}
			}
		}
		if player.CanPlaceKnight() {
			for _, m := range t.knightPlacements(knights) {
				moves = append(moves, BiasedMove{Move: m, Bias: 10})
			}
		}
		if player.CanPlaceBlock(t.Round) {
			for x := 0; x < t.Board.Width; x++ {
				for y := 0; y < t.Board.Height; y++ {
					if _, _, ok := t.Board.CanPlaceBlock(x, y); !ok {
						continue
					}
					m := BlockPlacement{X: x, Y: y}
					if bias := t.calcBias(m, playerID); bias >= 0 {
						moves = append(moves, BiasedMove{Move: m, Bias: bias})
					}
				}
			}
		}
	}
	slices.SortStableFunc(moves, func(a, b BiasedMove) int {
		switch {
		case a.Bias < b.Bias:
			return -1
		case a.Bias > b.Bias:
			return 1
		}
		return 0
	})
	return moves
}

// RandomLegalMove picks a legal move of the active player uniformly. It
// returns nil when there is none.
func (t *Torres) RandomLegalMove() Move {
	moves := t.LegalMoves(t.ActivePlayer)
	if len(moves) == 0 {
		return nil
	}
	return moves[t.rng.Intn(len(moves))]
}

// RandomLegalMoveBiased samples a legal move of the active player with
// roulette wheel selection. biasTurnEnd is the weight of ending the turn,
// init knight and king placements weigh 1, knight placements 10 and knight
// moves and block placements their board value gain. Negative weights count
// as zero; if all weights are zero the choice is uniform.
func (t *Torres) RandomLegalMoveBiased(biasTurnEnd float64) Move {
	if !t.GameRunning {
		return nil
	}
	pid := t.ActivePlayer
	player := t.Players[pid]
	var (
		moves  []Move
		biases []float64
	)
	add := func(m Move, bias float64) {
		moves = append(moves, m)
		biases = append(biases, max(bias, 0))
	}
	if t.canEndTurn(pid) {
		add(TurnEnd{}, biasTurnEnd)
	}
	if t.mustPlaceInitKnight(pid) {
		for _, m := range t.initKnightMoves() {
			add(m, 1)
		}
	}
	if t.mustPlaceKing(pid) {
		for _, m := range t.kingMoves() {
			add(m, 1)
		}
	} else if t.canAct(player) {
		knights := t.Board.KnightSquares(pid)
		if player.CanMoveKnight() {
			for _, square := range knights {
				for _, dest := range t.Board.KnightDestinations(square) {
					m := KnightMovement{X: square.X, Y: square.Y, DestX: dest.X, DestY: dest.Y}
					add(m, t.calcBias(m, pid))
				}
			}
		}
		if player.CanPlaceKnight() {
			for _, m := range t.knightPlacements(knights) {
				add(m, 10)
			}
		}
		if player.CanPlaceBlock(t.Round) {
			for x := 0; x < t.Board.Width; x++ {
				for y := 0; y < t.Board.Height; y++ {
					if _, _, ok := t.Board.CanPlaceBlock(x, y); ok {
						m := BlockPlacement{X: x, Y: y}
						add(m, t.calcBias(m, pid))
					}
				}
			}
		}
	}
	if len(moves) == 0 {
		return nil
	}
	total := 0.0
	for _, b := range biases {
		total += b
	}
	if total <= 0 {
		return moves[t.rng.Intn(len(moves))]
	}
	choice := t.rng.Float64() * total
	cumulative := 0.0
	for i, b := range biases {
		cumulative += b
		if cumulative > choice {
			return moves[i]
		}
	}
	return moves[len(moves)-1]
}

// DeterministicLegalMove returns the first ordered move of the active player.
func (t *Torres) DeterministicLegalMove() Move {
	moves := t.LegalMovesOrdered(t.ActivePlayer)
	if len(moves) == 0 {
		return nil
	}
	return moves[0]
}

// IsLegal reports whether the move is among the player's legal moves.
func (t *Torres) IsLegal(playerID int, m Move) bool {
	for _, legal := range t.LegalMoves(playerID) {
		if SameMove(legal, m) {
			return true
		}
	}
	return false
}
