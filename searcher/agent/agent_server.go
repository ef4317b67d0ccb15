package agent

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"torres/experiments/metrics"
	"torres/game"
	"torres/searcher"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type FindMoveRequest struct {
	State json.RawMessage `json:"state"` // game.Torres snapshot
}

type FindMoveResponse struct {
	Move   game.WireMove        `json:"move"`
	Metric metrics.SearchMetric `json:"metric"`
}

// Server exposes a searcher over HTTP so that an engine can play against it
// from another process. Searches run one at a time.
type Server struct {
	mu       sync.Mutex
	searcher searcher.Searcher
}

func NewServer(s searcher.Searcher) *Server {
	return &Server{searcher: s}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/find_move", s.handleFindMove)
	return r
}

// StartAgentServer serves the searcher on the given address until it fails.
func StartAgentServer(addr string, s searcher.Searcher) error {
	log.Info().Msgf("starting agent server on %s", addr)
	return NewServer(s).Router().Run(addr)
}

func (s *Server) handleFindMove(c *gin.Context) {
	var req FindMoveRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}
	t, err := game.FromSnapshot(req.State)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	move, metric, err := s.searcher.FindMove(c.Request.Context(), t)
	s.mu.Unlock()
	if errors.Is(err, searcher.ErrNoMove) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Debug().Str("move", move.String()).Int("player", t.ActivePlayer).Msg("agent found move")
	c.JSON(http.StatusOK, FindMoveResponse{Move: game.EncodeMove(move), Metric: metric})
}
