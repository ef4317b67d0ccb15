package game

import (
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown action")

// WireMove is the flat representation of a move used by clients.
type WireMove struct {
	Action ActionType `json:"action"`
	X      int        `json:"x,omitempty"`
	Y      int        `json:"y,omitempty"`
	DestX  int        `json:"destX,omitempty"`
	DestY  int        `json:"destY,omitempty"`
}

func EncodeMove(m Move) WireMove {
	switch m := m.(type) {
	case BlockPlacement:
		return WireMove{Action: BlockPlaceAction, X: m.X, Y: m.Y}
	case KnightPlacement:
		return WireMove{Action: KnightPlaceAction, X: m.X, Y: m.Y}
	case KnightMovement:
		return WireMove{Action: KnightMoveAction, X: m.X, Y: m.Y, DestX: m.DestX, DestY: m.DestY}
	case KingPlacement:
		return WireMove{Action: KingPlaceAction, X: m.X, Y: m.Y}
	case TurnEnd:
		return WireMove{Action: TurnEndAction}
	}
	return WireMove{}
}

func EncodeMoves(moves []Move) []WireMove {
	wire := make([]WireMove, len(moves))
	for i, m := range moves {
		wire[i] = EncodeMove(m)
	}
	return wire
}

func DecodeMove(w WireMove) (Move, error) {
	switch w.Action {
	case BlockPlaceAction:
		return BlockPlacement{X: w.X, Y: w.Y}, nil
	case KnightPlaceAction:
		return KnightPlacement{X: w.X, Y: w.Y}, nil
	case KnightMoveAction:
		return KnightMovement{X: w.X, Y: w.Y, DestX: w.DestX, DestY: w.DestY}, nil
	case KingPlaceAction:
		return KingPlacement{X: w.X, Y: w.Y}, nil
	case TurnEndAction:
		return TurnEnd{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, w.Action)
}
