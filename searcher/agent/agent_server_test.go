package agent

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"torres/game"
	"torres/searcher"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func postFindMove(t *testing.T, router http.Handler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/find_move", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewServer(searcher.NewGreedy()).Router()

	t.Run("answers with the searched move", func(t *testing.T) {
		g := smallGame(t)
		state, err := g.Snapshot()
		require.NoError(t, err)
		body, err := json.Marshal(FindMoveRequest{State: state})
		require.NoError(t, err)

		rec := postFindMove(t, router, body)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp FindMoveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		move, err := game.DecodeMove(resp.Move)
		require.NoError(t, err)
		require.Equal(t, g.DeterministicLegalMove(), move)
	})

	t.Run("rejects a broken state", func(t *testing.T) {
		rec := postFindMove(t, router, []byte(`{"state": {"config": {}}}`))

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reports a finished game", func(t *testing.T) {
		g := smallGame(t)
		for g.GameRunning {
			g.ExecuteMove(g.DeterministicLegalMove())
		}
		state, err := g.Snapshot()
		require.NoError(t, err)
		body, err := json.Marshal(FindMoveRequest{State: state})
		require.NoError(t, err)

		rec := postFindMove(t, router, body)

		require.Equal(t, http.StatusConflict, rec.Code)
	})
}
