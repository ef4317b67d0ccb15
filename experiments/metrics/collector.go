package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Searcher     string
	Goroutines   int
	Duration     time.Duration
	Episodes     int // Simulations, visited nodes or evaluated genomes
	Depth        int // Deepest completed iteration
	FullPlayouts int
	TableHits    int
	IsCached     bool // Move was replayed from a previously planned turn
}

type MoveMetric struct {
	Step   int
	Player int // Player ID
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int   // Player ID
	Winners        []int // Player IDs
	Points         []int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(searcher string, goroutines int)
	SetDepth(depth int)
	SetCached(value bool)
	AddEpisode()
	AddFullPlayout()
	AddTableHit()
	Complete() SearchMetric
}

type collector struct {
	searcher     string
	goroutines   int
	startTime    time.Time
	depth        atomic.Int32
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	tableHits    atomic.Int32
	isCached     atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(searcher string, goroutines int) {
	m.startTime = time.Now()
	m.searcher = searcher
	m.goroutines = goroutines
	m.depth.Store(0)
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.tableHits.Store(0)
	m.isCached.Store(false)
}

func (m *collector) SetDepth(depth int) {
	m.depth.Store(int32(depth))
}

func (m *collector) SetCached(value bool) {
	m.isCached.Store(value)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddTableHit() {
	m.tableHits.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Searcher:     m.searcher,
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		Depth:        int(m.depth.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		TableHits:    int(m.tableHits.Load()),
		IsCached:     m.isCached.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(searcher string, goroutines int) {}
func (m *dummyCollector) SetDepth(depth int)                    {}
func (m *dummyCollector) SetCached(value bool)                  {}
func (m *dummyCollector) AddEpisode()                           {}
func (m *dummyCollector) AddFullPlayout()                       {}
func (m *dummyCollector) AddTableHit()                          {}
func (m *dummyCollector) Complete() SearchMetric                { return SearchMetric{} }
