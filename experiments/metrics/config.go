package metrics

import (
	"fmt"
	"time"
)

// AgentConfig describes one searcher taking part in an experiment.
type AgentConfig struct {
	ID          int
	Kind        string // Searcher kind, see searcher/agent
	Goroutines  int
	Duration    time.Duration
	Depth       int
	Episodes    int
	Seed        uint64
	Temperature float64 // Sample the MCTS policy instead of taking the most visited move
}

func (c AgentConfig) String() string {
	return fmt.Sprintf("%s#%d", c.Kind, c.ID)
}
