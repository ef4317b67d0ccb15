package communication

import (
	"context"
	"encoding/json"

	"torres/game"
)

// Message types of the WebSocket protocol. Every message is an Envelope.
const (
	// Client to server
	TypeMove          = "move"
	TypeStatusRequest = "status_request"
	TypeInfo          = "info"
	TypeCommand       = "command"

	// Server to client
	TypeMoveResponse       = "move_response"
	TypeMoveUpdate         = "move_update"
	TypeGameStateResponse  = "game_state_response"
	TypeLegalMovesResponse = "legal_moves_response"
	TypePlayerInfoResponse = "player_info_response"
	TypePlayerConnect      = "player_connect"
	TypePlayerDisconnect   = "player_disconnect"
	TypeGameStart          = "game_start"
	TypeGameEnd            = "game_end"
	TypeError              = "error"
)

// Requests carried by a status_request.
const (
	RequestGameState  = "game_state"
	RequestLegalMoves = "legal_moves"
	RequestPlayerInfo = "player_info"
)

// Commands carried by a command message.
const (
	CommandReset = "game_reset"
	CommandInit  = "game_init"
	CommandJoin  = "game_join"
	CommandLeave = "game_leave"
)

type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope wraps the data, which may be nil, in an envelope of the given
// type.
func NewEnvelope(typ string, data any) (Envelope, error) {
	if data == nil {
		return Envelope{Type: typ}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: typ, Data: raw}, nil
}

type MoveResponse struct {
	Valid bool `json:"valid"`
}

type MoveUpdate struct {
	Player     int `json:"player"`
	NextPlayer int `json:"next_player"`
	game.WireMove
}

type PlayerInfo struct {
	PlayerStatus []string `json:"player_status"`
	PlayerType   []string `json:"player_type"`
	ID           int      `json:"id"`
	Session      string   `json:"session"`
}

type PlayerEvent struct {
	ID int `json:"id"`
}

type Info struct {
	Type string `json:"type"` // e.g. human, mcts, negamax
}

type GameEnd struct {
	Winners []int `json:"winners"`
	Points  []int `json:"points"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

// APIRequest is the body of POST /api.
type APIRequest struct {
	Action string `json:"action"` // init, reset, legal_moves or a move action
	Player int    `json:"player"`
	Mode   string `json:"mode,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	DestX  int    `json:"destX"`
	DestY  int    `json:"destY"`
}

type APIResponse struct {
	Success bool            `json:"success"`
	Moves   []game.WireMove `json:"moves,omitempty"`
	ASCII   string          `json:"ascii"`
}

// Communicator is the view a player has of a hosted game.
type Communicator interface {
	GameState(ctx context.Context) (*game.Torres, error)
	LegalMoves(ctx context.Context, player int) ([]game.Move, error)
	SendMove(ctx context.Context, player int, move game.Move) (bool, error)
}
