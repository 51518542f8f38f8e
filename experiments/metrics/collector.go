package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Iterations   int
	Exploration  float64
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
	TreeSize     int
}

type MoveMetric struct {
	Step   int
	Player string // Mark that moved
	Move   string
	SearchMetric
}

type GameMetric struct {
	GameID         string
	StartingPlayer string
	Winner         string // "DRAW" when no winner
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(iterations int, exploration float64)
	AddFullPlayout()
	AddEpisode()
	SetTreeSize(size int)
	Complete() SearchMetric
}

type collector struct {
	iterations   int
	exploration  float64
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	treeSize     atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(iterations int, exploration float64) {
	m.startTime = time.Now()
	m.iterations = iterations
	m.exploration = exploration
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.treeSize.Store(0)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) SetTreeSize(size int) {
	m.treeSize.Store(int32(size))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Iterations:   m.iterations,
		Exploration:  m.exploration,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		TreeSize:     int(m.treeSize.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(iterations int, exploration float64) {}
func (m *dummyCollector) AddFullPlayout()                           {}
func (m *dummyCollector) AddEpisode()                               {}
func (m *dummyCollector) SetTreeSize(size int)                      {}
func (m *dummyCollector) Complete() SearchMetric                    { return SearchMetric{} }
