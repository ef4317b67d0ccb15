package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"torres/communication/client"
	"torres/communication/server"
	"torres/engine"
	"torres/experiments"
	"torres/experiments/metrics"
	"torres/game"
	"torres/gamemaster"
	"torres/meta"
	"torres/player"
	"torres/searcher"
	"torres/searcher/agent"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	mode       string
	addr       string
	serverURL  string
	players    int
	seat       int
	initMode   string
	agents     string
	goroutines int
	episodes   int
	duration   time.Duration
	depth      int
	seed       uint64
	temp       float64
	experiment string
	games      int
	parallel   int
	out        string
	debug      bool
}

func main() {
	var o options
	flag.StringVar(&o.mode, "mode", "match", "serve, agent, match, play or arena")
	flag.StringVar(&o.addr, "addr", getenv("TORRES_ADDR", meta.ADDRESS), "Listen address of the game or agent server")
	flag.StringVar(&o.serverURL, "server", getenv("TORRES_SERVER", "http://localhost"+meta.ADDRESS), "Game server to play on")
	flag.IntVar(&o.players, "players", getenvInt("TORRES_PLAYERS", meta.NUM_PLAYERS), "Number of seats of a served game")
	flag.IntVar(&o.seat, "seat", 0, "Player id to play as")
	flag.StringVar(&o.initMode, "init", string(game.ChoiceInit), "Init mode: random, choice or balanced")
	flag.StringVar(&o.agents, "agents", "mcts,greedy", "Comma separated agent kinds, one per seat, of "+strings.Join(agent.Kinds, "|"))
	flag.IntVar(&o.goroutines, "goroutines", meta.GO_ROUTINES, "Number of goroutines for parallel playouts")
	flag.IntVar(&o.episodes, "episodes", 0, "Number of playouts or generations per move")
	flag.DurationVar(&o.duration, "duration", meta.DURATION, "Thinking time per move")
	flag.IntVar(&o.depth, "depth", 0, "Search depth in turns")
	flag.Uint64Var(&o.seed, "seed", 0, "Random seed, 0 for a random one")
	flag.Float64Var(&o.temp, "temperature", 0, "Sample MCTS moves at this temperature")
	flag.StringVar(&o.experiment, "experiment", "searchers", "Arena experiment: "+strings.Join(experiments.Presets(), ", "))
	flag.IntVar(&o.games, "games", experiments.NumGames, "Games per match up")
	flag.IntVar(&o.parallel, "parallel", runtime.NumCPU(), "Games played at once")
	flag.StringVar(&o.out, "out", "experiments", "Directory for experiment results")
	flag.BoolVar(&o.debug, "debug", false, "Log search details")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if o.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o); err != nil {
		log.Fatal().Err(err).Msgf("%s failed", o.mode)
	}
}

func run(ctx context.Context, o options) error {
	switch o.mode {
	case "serve":
		cfg := game.DefaultConfig()
		cfg.NumPlayers = o.players
		cfg.InitMode = game.InitMode(o.initMode)
		host, err := gamemaster.NewHost(cfg)
		if err != nil {
			return err
		}
		return server.NewServerCommunicator(host).Start(ctx, o.addr)
	case "agent":
		s, err := agent.New(o.agentConfig(firstKind(o.agents)))
		if err != nil {
			return err
		}
		return agent.StartAgentServer(o.addr, s)
	case "match":
		return runMatch(ctx, o)
	case "play":
		s, err := agent.New(o.agentConfig(firstKind(o.agents)))
		if err != nil {
			return err
		}
		return player.NewPlayer(o.seat, client.NewClientCommunicator(o.serverURL), s).Play(ctx)
	case "arena":
		a, err := experiments.NewPreset(o.experiment, o.games)
		if err != nil {
			return err
		}
		a.Parallel = o.parallel
		a.OutDir = o.out
		result, err := a.Run(ctx)
		if err != nil {
			return err
		}
		log.Info().Msgf("wrote %d games to %s", len(result.Games), result.Dir)
		return nil
	}
	return fmt.Errorf("unknown mode %q", o.mode)
}

// runMatch plays one local game, one seat per listed agent. Agents given as
// URLs are asked over HTTP.
func runMatch(ctx context.Context, o options) error {
	kinds := strings.Split(o.agents, ",")
	cfg := game.DefaultConfig()
	cfg.NumPlayers = len(kinds)
	cfg.InitMode = game.InitMode(o.initMode)
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	t, err := game.New(cfg)
	if err != nil {
		return err
	}

	searchers := make([]searcher.Searcher, len(kinds))
	for i, kind := range kinds {
		if strings.HasPrefix(kind, "http") {
			searchers[i] = engine.NewRemoteSearcher(kind)
			continue
		}
		if searchers[i], err = agent.New(o.agentConfig(kind)); err != nil {
			return err
		}
	}

	profile := termenv.EnvColorProfile()
	e := engine.LocalEngine(t, searchers)
	e.OnMove = func(u engine.Update) {
		log.Info().Msgf("step %d: player %d plays %v", u.Step, u.Player, u.Move)
		if o.debug {
			_ = u.Game.Render(os.Stdout, profile)
		}
	}
	gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	if err := t.Render(os.Stdout, profile); err != nil {
		return err
	}
	fmt.Printf("Winners: %v, points: %v, moves: %d, took %v\n", gameMetric.Winners, gameMetric.Points, gameMetric.TotalMoves, gameMetric.Duration)
	return nil
}

func (o options) agentConfig(kind string) metrics.AgentConfig {
	return metrics.AgentConfig{
		Kind:        strings.TrimSpace(kind),
		Goroutines:  o.goroutines,
		Duration:    o.duration,
		Depth:       o.depth,
		Episodes:    o.episodes,
		Seed:        o.seed,
		Temperature: o.temp,
	}
}

func firstKind(agents string) string {
	kind, _, _ := strings.Cut(agents, ",")
	return kind
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
