package game

import "sort"

// Evaluate scores a state for every player, indexed by player id.
type Evaluate func(t *Torres) []float64

// EvaluatePoints rates each player by the margin of their points over the
// best rival.
func EvaluatePoints(t *Torres) []float64 {
	return toFloats(t.RewardPerPlayer(false))
}

// EvaluateProjected is EvaluatePoints with the current board already scored,
// as if the phase ended now.
func EvaluateProjected(t *Torres) []float64 {
	return toFloats(t.RewardPerPlayer(true))
}

// EvaluateMidPhase scores the board only while a phase is running and falls
// back to the plain points when a phase has just ended or the game is over.
func EvaluateMidPhase(t *Torres) []float64 {
	return toFloats(t.RewardPerPlayer(!t.IsAtEndOfPhase() && t.GameRunning))
}

func toFloats(values []int) []float64 {
	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = float64(v)
	}
	return floats
}

// PointsPerPlayer returns the points collected so far, indexed by player id.
func (t *Torres) PointsPerPlayer() []int {
	points := make([]int, len(t.Players))
	for i, p := range t.Players {
		points[i] = p.Points
	}
	return points
}

// EvaluateState returns every player's points plus the board value they
// would get if the phase ended now.
func (t *Torres) EvaluateState() []int {
	scores := make([]int, len(t.Players))
	for i, p := range t.Players {
		scores[i] = p.Points + t.Board.Evaluate(p.ID, t.Phase)
	}
	return scores
}

// RewardPerPlayer returns each player's score relative to the field: the
// leader gets the lead over the runner up, everyone else the (negative) gap
// to the leader. With evalFirst the board is scored first.
func (t *Torres) RewardPerPlayer(evalFirst bool) []int {
	var scores []int
	if evalFirst {
		scores = t.EvaluateState()
	} else {
		scores = t.PointsPerPlayer()
	}
	sorted := append([]int(nil), scores...)
	sort.Ints(sorted)
	best := sorted[len(sorted)-1]
	second := best
	if len(sorted) > 1 {
		second = sorted[len(sorted)-2]
	}
	rewards := make([]int, len(scores))
	for i, s := range scores {
		if s == best {
			rewards[i] = s - second
		} else {
			rewards[i] = s - best
		}
	}
	return rewards
}

// IsAtEndOfPhase is true when the starting player is to move in round 1.
func (t *Torres) IsAtEndOfPhase() bool {
	return t.ActivePlayer == t.StartingPlayer && t.Round == 1
}

// Winners returns the ids of the players with the most points.
func (t *Torres) Winners() []int {
	var winners []int
	best := 0
	for id, p := range t.Players {
		switch {
		case len(winners) == 0 || p.Points > best:
			best = p.Points
			winners = []int{id}
		case p.Points == best:
			winners = append(winners, id)
		}
	}
	return winners
}
