package game

import "fmt"

type BlockPlacement struct {
	X, Y int
}

type KnightPlacement struct {
	X, Y int
}

type KnightMovement struct {
	X, Y, DestX, DestY int
}

type KingPlacement struct {
	X, Y int
}

type TurnEnd struct{}

func (BlockPlacement) Action() ActionType  { return BlockPlaceAction }
func (KnightPlacement) Action() ActionType { return KnightPlaceAction }
func (KnightMovement) Action() ActionType  { return KnightMoveAction }
func (KingPlacement) Action() ActionType   { return KingPlaceAction }
func (TurnEnd) Action() ActionType         { return TurnEndAction }

func (BlockPlacement) isMove()  {}
func (KnightPlacement) isMove() {}
func (KnightMovement) isMove()  {}
func (KingPlacement) isMove()   {}
func (TurnEnd) isMove()         {}

func (m BlockPlacement) String() string {
	return fmt.Sprintf("%s(%d,%d)", BlockPlaceAction, m.X, m.Y)
}

func (m KnightPlacement) String() string {
	return fmt.Sprintf("%s(%d,%d)", KnightPlaceAction, m.X, m.Y)
}

func (m KnightMovement) String() string {
	return fmt.Sprintf("%s(%d,%d->%d,%d)", KnightMoveAction, m.X, m.Y, m.DestX, m.DestY)
}

func (m KingPlacement) String() string {
	return fmt.Sprintf("%s(%d,%d)", KingPlaceAction, m.X, m.Y)
}

func (TurnEnd) String() string {
	return string(TurnEndAction)
}

// SameMove compares two moves by value. Nil only equals nil.
func SameMove(a, b Move) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
