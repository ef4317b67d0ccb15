package searcher

import (
	"math"

	"torres/game"
)

type uct struct {
	exploration float64
	biasWeight  float64
	logN        float64
}

func newUCT(exploration, biasWeight float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{exploration: exploration, biasWeight: biasWeight, logN: math.Log(N)}
}

func (u uct) evaluate(q, n, bias float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + c*sqrt(2*ln(N)/n) + d*bias/(n+1)
	return q/n + u.exploration*math.Sqrt(2*u.logN/n) + u.biasWeight*bias/(n+1)
}

// Policy maps the root moves to their visit counts.
type Policy map[game.Move]int

// merge adds the visits of another root.
func (p Policy) merge(other Policy) {
	for move, visits := range other {
		p[move] += visits
	}
}

// Best returns the most visited move, ties broken by the given order.
func (p Policy) Best(order []game.Move) game.Move {
	var best game.Move
	maxVisits := -1
	for _, move := range order {
		if visits, ok := p[move]; ok && visits > maxVisits {
			best, maxVisits = move, visits
		}
	}
	return best
}

// Distribution turns visit counts into move probabilities sharpened (t < 1)
// or flattened (t > 1) by the temperature.
func (p Policy) Distribution(temperature float64) map[game.Move]float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	probs := make(map[game.Move]float64, len(p))
	for move, visits := range p {
		prob := math.Pow(float64(visits), exponent)
		sum += prob
		probs[move] = prob
	}
	if sum == 0 {
		return probs
	}
	for move := range probs {
		probs[move] /= sum
	}
	return probs
}
