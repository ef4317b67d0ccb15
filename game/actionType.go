package game

// ActionType is the tag of a move on the wire.
type ActionType string

const (
	BlockPlaceAction  ActionType = "block_place"
	KnightPlaceAction ActionType = "knight_place"
	KnightMoveAction  ActionType = "knight_move"
	KingPlaceAction   ActionType = "king_place"
	TurnEndAction     ActionType = "turn_end"
)

func (a ActionType) Valid() bool {
	switch a {
	case BlockPlaceAction, KnightPlaceAction, KnightMoveAction, KingPlaceAction, TurnEndAction:
		return true
	}
	return false
}
