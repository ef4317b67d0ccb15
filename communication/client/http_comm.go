package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"torres/communication"
	"torres/game"
)

var _ communication.Communicator = (*ClientCommunicator)(nil)

// ClientCommunicator talks to a game server over its HTTP routes.
type ClientCommunicator struct {
	serverURL string
	client    *http.Client
}

// NewClientCommunicator initializes and returns a new ClientCommunicator.
func NewClientCommunicator(serverURL string) *ClientCommunicator {
	return &ClientCommunicator{
		serverURL: serverURL,
		client:    http.DefaultClient,
	}
}

func (cc *ClientCommunicator) GameState(ctx context.Context) (*game.Torres, error) {
	data, err := cc.do(ctx, http.MethodGet, "/game_state", nil)
	if err != nil {
		return nil, err
	}
	return game.FromSnapshot(data)
}

func (cc *ClientCommunicator) LegalMoves(ctx context.Context, player int) ([]game.Move, error) {
	data, err := cc.do(ctx, http.MethodGet, "/legal_moves?player="+strconv.Itoa(player), nil)
	if err != nil {
		return nil, err
	}
	var wire []game.WireMove
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode legal moves: %w", err)
	}
	moves := make([]game.Move, 0, len(wire))
	for _, w := range wire {
		m, err := game.DecodeMove(w)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

func (cc *ClientCommunicator) SendMove(ctx context.Context, player int, move game.Move) (bool, error) {
	w := game.EncodeMove(move)
	body, err := json.Marshal(communication.APIRequest{
		Action: string(w.Action),
		Player: player,
		X:      w.X,
		Y:      w.Y,
		DestX:  w.DestX,
		DestY:  w.DestY,
	})
	if err != nil {
		return false, err
	}
	data, err := cc.do(ctx, http.MethodPost, "/api", body)
	if err != nil {
		return false, err
	}
	var resp communication.APIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return false, fmt.Errorf("decode api response: %w", err)
	}
	return resp.Success, nil
}

func (cc *ClientCommunicator) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, cc.serverURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := cc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, data)
	}
	return data, nil
}
