package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"torres/experiments/metrics"
	"torres/game"
	"torres/searcher/agent"
)

// RemoteSearcher asks an agent server for moves, so that an engine can seat
// searchers running in other processes.
type RemoteSearcher struct {
	URL    string
	Client *http.Client
}

func NewRemoteSearcher(url string) *RemoteSearcher {
	return &RemoteSearcher{URL: url, Client: http.DefaultClient}
}

// FindMove posts the current state to /find_move on the agent side.
func (r *RemoteSearcher) FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error) {
	state, err := t.Snapshot()
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	body, err := json.Marshal(agent.FindMoveRequest{State: state})
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL+"/find_move", bytes.NewReader(body))
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, metrics.SearchMetric{}, fmt.Errorf("request move from %s: %w", r.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return nil, metrics.SearchMetric{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, out)
	}

	var found agent.FindMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		return nil, metrics.SearchMetric{}, fmt.Errorf("decode agent response: %w", err)
	}
	move, err := game.DecodeMove(found.Move)
	if err != nil {
		return nil, found.Metric, err
	}
	return move, found.Metric, nil
}
