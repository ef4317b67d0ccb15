package experiments

import (
	"fmt"
	"sort"

	"torres/experiments/metrics"
	"torres/game"
	"torres/searcher/agent"
)

var presets = map[string]func() (configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig){
	"parallelization": parallelization,
	"searchers":       searchers,
	"depth":           depth,
}

// Presets lists the names accepted by NewPreset.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPreset builds one of the predefined two player experiments.
func NewPreset(name string, numGames int) (*Arena, error) {
	preset, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown experiment %q, expected one of %v", name, Presets())
	}
	if numGames <= 0 {
		numGames = NumGames
	}
	configs, matchUps := preset()
	return &Arena{
		Name:     name,
		Game:     game.DefaultConfig(),
		Configs:  configs,
		MatchUps: matchUps,
		NumGames: numGames,
	}, nil
}

// parallelization pairs root parallel MCTS agents against the sequential one.
func parallelization() ([]metrics.AgentConfig, [][]metrics.AgentConfig) {
	baseline := metrics.AgentConfig{ID: 0, Kind: agent.MCTS, Goroutines: 1, Duration: TimeBudget}
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][]metrics.AgentConfig{}
	for i, goroutines := range []int{2, 4, 8, 16} {
		config := metrics.AgentConfig{ID: i + 1, Kind: agent.MCTS, Goroutines: goroutines, Duration: TimeBudget}
		configs = append(configs, config)
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	return configs, matchUps
}

// searchers pairs every kind against the greedy baseline.
func searchers() ([]metrics.AgentConfig, [][]metrics.AgentConfig) {
	baseline := metrics.AgentConfig{ID: 0, Kind: agent.Greedy}
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][]metrics.AgentConfig{}
	for i, kind := range agent.Kinds {
		if kind == agent.Greedy {
			continue
		}
		config := metrics.AgentConfig{ID: i + 1, Kind: kind, Goroutines: 4, Duration: TimeBudget}
		configs = append(configs, config)
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	return configs, matchUps
}

// depth pairs fixed depth negamax agents against a depth one negamax.
func depth() ([]metrics.AgentConfig, [][]metrics.AgentConfig) {
	baseline := metrics.AgentConfig{ID: 0, Kind: agent.Negamax, Depth: 1}
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][]metrics.AgentConfig{}
	for d := 2; d <= 3; d++ {
		config := metrics.AgentConfig{ID: d, Kind: agent.Negamax, Depth: d, Duration: 10 * TimeBudget}
		configs = append(configs, config)
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	return configs, matchUps
}
