package searcher

type bound int

const (
	exact bound = iota
	lowerBound
	upperBound
)

type entry struct {
	value float64
	depth int
	flag  bound
}

// table is a transposition table keyed by the canonical state key. Once full,
// the oldest key is evicted.
type table struct {
	entries  map[string]entry
	keys     []string // Ring buffer in insertion order
	next     int
	capacity int
}

func newTable(capacity int) *table {
	return &table{
		entries:  make(map[string]entry),
		capacity: capacity,
	}
}

func (t *table) get(key string) (entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

func (t *table) put(key string, e entry) {
	if _, ok := t.entries[key]; !ok {
		if len(t.keys) < t.capacity {
			t.keys = append(t.keys, key)
		} else {
			delete(t.entries, t.keys[t.next])
			t.keys[t.next] = key
			t.next = (t.next + 1) % t.capacity
		}
	}
	t.entries[key] = e
}

func (t *table) len() int {
	return len(t.entries)
}

// probe narrows the window with a stored entry searched at least as deep as
// requested. It reports a cutoff when the entry settles the value.
func (e entry) probe(depth int, alpha, beta float64) (float64, float64, bool) {
	if e.depth < depth {
		return alpha, beta, false
	}
	switch e.flag {
	case exact:
		return alpha, beta, true
	case lowerBound:
		alpha = max(alpha, e.value)
	case upperBound:
		beta = min(beta, e.value)
	}
	return alpha, beta, alpha >= beta
}

func classify(value, alpha, beta float64) bound {
	switch {
	case value <= alpha:
		return upperBound
	case value >= beta:
		return lowerBound
	}
	return exact
}
