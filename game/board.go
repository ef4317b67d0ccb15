package game

import (
	"container/heap"

	"golang.org/x/exp/rand"
)

const (
	NoCastle = -1 // Castle id of a square without blocks
	Empty    = -1 // Occupant of a free square
	King     = -2 // Occupant of the king's square
)

// Square is a single field of the board.
type Square struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Castle int `json:"castle"` // Castle id or NoCastle
	Height int `json:"height"`
	Knight int `json:"knight"` // Player id, King or Empty
}

// Board is the square grid together with the per castle bookkeeping.
type Board struct {
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Squares        []Square `json:"squares"`
	CastleSizes    []int    `json:"castleSizes"` // Maximum tower height per castle
	StartingBlocks []int    `json:"startingBlocks"`
	KingsCastle    int      `json:"kingsCastle"`
}

// CastleLead is the highest knight standing on a castle.
type CastleLead struct {
	Knight int
	Height int
}

func NewBoard(width, height int, startingBlocks []int) *Board {
	b := &Board{
		Width:          width,
		Height:         height,
		Squares:        make([]Square, width*height),
		CastleSizes:    make([]int, len(startingBlocks)),
		StartingBlocks: append([]int(nil), startingBlocks...),
		KingsCastle:    NoCastle,
	}
	for i := range b.Squares {
		b.Squares[i] = Square{
			X:      i % width,
			Y:      i / width,
			Castle: NoCastle,
			Knight: Empty,
		}
	}
	return b
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	cp := *b
	cp.Squares = append([]Square(nil), b.Squares...)
	cp.CastleSizes = append([]int(nil), b.CastleSizes...)
	cp.StartingBlocks = append([]int(nil), b.StartingBlocks...)
	return &cp
}

// InitCastles lays the first block of every castle.
func (b *Board) InitCastles() {
	for i, idx := range b.StartingBlocks {
		square := &b.Squares[idx]
		square.Castle = i
		square.Height = 1
	}
	for i := range b.CastleSizes {
		b.CastleSizes[i] = 1
	}
}

// InitKnights puts one knight per player onto a starting castle, either on
// fixed castles (balanced) or on random free ones.
func (b *Board) InitKnights(numPlayers int, balanced bool, rng *rand.Rand) {
	if balanced {
		for id := 0; id < numPlayers; id++ {
			i := id + 3
			if id < 2 {
				i = id + 1
			}
			b.Squares[b.StartingBlocks[i]].Knight = id
		}
		return
	}
	for id := 0; id < numPlayers; id++ {
		for {
			square := &b.Squares[b.StartingBlocks[rng.Intn(len(b.StartingBlocks))]]
			if square.Knight == Empty {
				square.Knight = id
				break
			}
		}
	}
}

// SquareAt returns the square at (x, y) or nil if it is off the board.
func (b *Board) SquareAt(x, y int) *Square {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return nil
	}
	return &b.Squares[y*b.Width+x]
}

func (b *Board) index(s *Square) int {
	return s.Y*b.Width + s.X
}

// Neighbors returns the orthogonal neighbours of (x, y) that are on the board.
func (b *Board) Neighbors(x, y int) []*Square {
	neighbors := make([]*Square, 0, 4)
	for _, n := range [4]*Square{b.SquareAt(x+1, y), b.SquareAt(x-1, y), b.SquareAt(x, y+1), b.SquareAt(x, y-1)} {
		if n != nil {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

func (b *Board) HasKnightAsNeighbor(square *Square, playerID int) bool {
	for _, n := range b.Neighbors(square.X, square.Y) {
		if n.Knight == playerID {
			return true
		}
	}
	return false
}

func (b *Board) KnightSquares(playerID int) []*Square {
	var squares []*Square
	for i := range b.Squares {
		if b.Squares[i].Knight == playerID {
			squares = append(squares, &b.Squares[i])
		}
	}
	return squares
}

// KnightPositions returns the squares of the player's knights and the height
// of the player's highest knight per castle.
func (b *Board) KnightPositions(playerID int) ([]*Square, map[int]int) {
	squares := b.KnightSquares(playerID)
	highest := make(map[int]int)
	for _, s := range squares {
		if s.Castle == NoCastle {
			continue
		}
		if h, ok := highest[s.Castle]; !ok || s.Height > h {
			highest[s.Castle] = s.Height
		}
	}
	return squares, highest
}

// HighestKnightsPerCastle returns, per castle id, the knight standing highest
// on it. Castles without knights hold {Empty, -1}.
func (b *Board) HighestKnightsPerCastle() []CastleLead {
	leads := make([]CastleLead, len(b.CastleSizes))
	for i := range leads {
		leads[i] = CastleLead{Knight: Empty, Height: -1}
	}
	for _, s := range b.Squares {
		if s.Castle == NoCastle || s.Knight == Empty || s.Knight == King {
			continue
		}
		if lead := &leads[s.Castle]; lead.Knight == Empty || s.Height > lead.Height {
			lead.Knight = s.Knight
			lead.Height = s.Height
		}
	}
	return leads
}

// CanPlaceBlock checks whether a block may be put on (x, y) and resolves the
// castle the block will belong to.
func (b *Board) CanPlaceBlock(x, y int) (*Square, int, bool) {
	square := b.SquareAt(x, y)
	if square == nil || square.Knight != Empty {
		return nil, NoCastle, false
	}
	castle := NoCastle
	if square.Height == 0 {
		for _, n := range b.Neighbors(x, y) {
			if n.Castle == NoCastle {
				continue
			}
			if castle != NoCastle && castle != n.Castle {
				return nil, NoCastle, false // would connect two castles
			}
			castle = n.Castle
		}
		if castle == NoCastle {
			return nil, NoCastle, false // would found a new castle
		}
	} else {
		castle = square.Castle
		if b.CastleSizes[castle] < square.Height+1 {
			return nil, NoCastle, false // tower higher than the castle's base
		}
	}
	return square, castle, true
}

func (b *Board) PlaceBlock(square *Square, castle int) {
	square.Height++
	square.Castle = castle
	if square.Height == 1 {
		b.CastleSizes[castle]++
	}
}

func (b *Board) PlaceBlockUndo(x, y int) {
	square := b.SquareAt(x, y)
	square.Height--
	if square.Height == 0 {
		b.CastleSizes[square.Castle]--
		square.Castle = NoCastle
	}
}

// CanPlaceKnight checks a knight placement. Initial knights go onto a free
// square of height one; later knights need a neighbouring knight of the same
// player standing at least as high as the target square.
func (b *Board) CanPlaceKnight(x, y, playerID int, init bool) (*Square, bool) {
	square := b.SquareAt(x, y)
	if square == nil || square.Knight != Empty {
		return nil, false
	}
	if init {
		if square.Height != 1 {
			return nil, false
		}
		return square, true
	}
	neighborHeight := -1
	for _, n := range b.Neighbors(x, y) {
		if n.Knight == playerID && n.Height > neighborHeight {
			neighborHeight = n.Height
		}
	}
	if neighborHeight == -1 || neighborHeight < square.Height {
		return nil, false
	}
	return square, true
}

func (b *Board) PlaceKnight(square *Square, playerID int) {
	square.Knight = playerID
}

func (b *Board) PlaceKnightUndo(x, y int) {
	b.SquareAt(x, y).Knight = Empty
}

func (b *Board) CanMoveKnight(x, y, destX, destY, playerID int) (*Square, *Square, bool) {
	start := b.SquareAt(x, y)
	dest := b.SquareAt(destX, destY)
	if start == nil || dest == nil {
		return nil, nil, false
	}
	if start.Knight != playerID || dest.Knight != Empty {
		return nil, nil, false
	}
	if dest.Height-start.Height > 1 {
		return nil, nil, false
	}
	for _, d := range b.KnightDestinations(start) {
		if d == dest {
			return start, dest, true
		}
	}
	return nil, nil, false
}

type frontierEntry struct {
	square *Square
	height int // Highest level reachable from this square
}

// frontier is a min-heap on the carried height.
type frontier []frontierEntry

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].height < f[j].height }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(frontierEntry)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	e := old[n-1]
	*f = old[:n-1]
	return e
}

// KnightDestinations returns every free square the knight on start can move
// to: neighbours at most one level up, plus squares reached by walking
// through castle interiors without climbing above the knight's own level.
func (b *Board) KnightDestinations(start *Square) []*Square {
	var (
		queue        frontier
		destinations []*Square
		visited      = make([]bool, len(b.Squares))
		found        = make([]bool, len(b.Squares))
	)
	found[b.index(start)] = true
	for _, n := range b.Neighbors(start.X, start.Y) {
		if start.Height >= n.Height-1 && n.Knight == Empty {
			destinations = append(destinations, n)
			found[b.index(n)] = true
		}
		if start.Height < n.Height { // castle entrance
			heap.Push(&queue, frontierEntry{square: n, height: start.Height})
		}
	}
	for queue.Len() > 0 {
		current := heap.Pop(&queue).(frontierEntry)
		visited[b.index(current.square)] = true
		for _, n := range b.Neighbors(current.square.X, current.square.Y) {
			idx := b.index(n)
			if !found[idx] && n.Knight == Empty && current.height >= n.Height {
				destinations = append(destinations, n)
				found[idx] = true
			}
			if !visited[idx] && n.Height != 0 {
				height := n.Height - 1
				if n.Height > current.height {
					height = current.height
				}
				heap.Push(&queue, frontierEntry{square: n, height: height})
			}
		}
	}
	return destinations
}

func (b *Board) MoveKnight(start, dest *Square, playerID int) {
	start.Knight = Empty
	dest.Knight = playerID
}

func (b *Board) MoveKnightUndo(x, y, destX, destY, playerID int) {
	b.SquareAt(x, y).Knight = playerID
	b.SquareAt(destX, destY).Knight = Empty
}

// CanPlaceKing accepts any free square that belongs to a castle.
func (b *Board) CanPlaceKing(x, y int) (*Square, bool) {
	square := b.SquareAt(x, y)
	if square == nil || square.Knight != Empty || square.Castle == NoCastle {
		return nil, false
	}
	return square, true
}

func (b *Board) PlaceKing(square *Square) {
	square.Knight = King
	b.KingsCastle = square.Castle
}

func (b *Board) RemoveKing() {
	if square := b.KingSquare(); square != nil {
		square.Knight = Empty
	}
	b.KingsCastle = NoCastle
}

func (b *Board) KingSquare() *Square {
	for i := range b.Squares {
		if b.Squares[i].Knight == King {
			return &b.Squares[i]
		}
	}
	return nil
}

// Evaluate scores the player's position: for every castle the height of the
// player's highest knight times the castle size, plus a bonus for guarding
// the king at the level of the current phase.
func (b *Board) Evaluate(playerID, phase int) int {
	highest := make([]int, len(b.CastleSizes))
	guardsKing := false
	for _, s := range b.Squares {
		if s.Knight != playerID || s.Height <= 0 {
			continue
		}
		if s.Height > highest[s.Castle] {
			highest[s.Castle] = s.Height
		}
		if b.KingsCastle != NoCastle && s.Castle == b.KingsCastle && s.Height == phase {
			guardsKing = true
		}
	}
	score := 0
	for castle, height := range highest {
		score += height * b.CastleSizes[castle]
	}
	if guardsKing {
		score += phase * 5
	}
	return score
}
