// meta/meta.go
package meta

import "time"

// GO_ROUTINES defines the number of goroutines to use for MCTS.
const GO_ROUTINES = 8

// EPISODES defines the number of episodes for MCTS when no duration is given.
const EPISODES = 150

// DURATION defines the thinking time of searchers that have no other budget.
const DURATION = time.Second

// MAX_MOVES caps the number of moves of a single game.
const MAX_MOVES = 10000

// NUM_PLAYERS defines the seats of a hosted game.
const NUM_PLAYERS = 4

// ADDRESS defines where the game server listens.
const ADDRESS = ":3000"

// POLL_INTERVAL defines how often remote players ask for the game state.
const POLL_INTERVAL = 200 * time.Millisecond
