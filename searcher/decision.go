package searcher

import (
	"math"

	"torres/game"
)

// decision is a node of the search tree. It owns a copy of the game after the
// move that led to it. Every goroutine grows its own tree, so nodes are not
// locked.
type decision struct {
	parent   *decision
	move     game.Move
	bias     float64
	state    *game.Torres
	player   int // Player to move in state
	untried  []game.BiasedMove
	children []*decision
	rewards  []float64 // Summed rewards per player
	visits   int
}

func newDecision(parent *decision, move game.Move, bias float64, state *game.Torres) *decision {
	var untried []game.BiasedMove
	if state.GameRunning {
		untried = state.LegalMovesBiased(state.ActivePlayer)
	}
	return &decision{
		parent:  parent,
		move:    move,
		bias:    bias,
		state:   state,
		player:  state.ActivePlayer,
		untried: untried,
		rewards: make([]float64, state.NumPlayers()),
	}
}

func (d *decision) isTerminal() bool {
	return len(d.untried) == 0 && len(d.children) == 0
}

func (d *decision) isExpandable() bool {
	return len(d.untried) > 0
}

// expand adds a child for the untried move with the highest bias.
func (d *decision) expand() *decision {
	last := len(d.untried) - 1
	next := d.untried[last]
	d.untried = d.untried[:last]

	state := d.state.Clone()
	state.ExecuteMove(next.Move)
	child := newDecision(d, next.Move, next.Bias, state)
	d.children = append(d.children, child)
	return child
}

// pickChild returns the child maximizing UCT from the view of the player to
// move here.
func (d *decision) pickChild(exploration, biasWeight float64) *decision {
	if d.visits == 0 {
		panic("node has children but no visits")
	}
	policy := newUCT(exploration, biasWeight, float64(d.visits))

	var best *decision
	maxScore := math.Inf(-1)
	for _, child := range d.children {
		score := policy.evaluate(child.rewards[d.player], float64(child.visits), child.bias)
		if best == nil || score > maxScore {
			best, maxScore = child, score
		}
	}
	return best
}

func (d *decision) backup(rewards []float64) {
	for node := d; node != nil; node = node.parent {
		node.visits++
		for i, r := range rewards {
			node.rewards[i] += r
		}
	}
}

func (d *decision) policy() Policy {
	p := make(Policy, len(d.children))
	for _, child := range d.children {
		p[child.move] = child.visits
	}
	return p
}
