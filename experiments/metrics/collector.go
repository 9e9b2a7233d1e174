package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Threads     int
	Duration    time.Duration
	Playouts    int
	Nodes       int
	ReusedNodes int
	WinRatio    float64
	IsTreeReset bool
}

type MoveMetric struct {
	Step  int
	Color string
	Move  string
	SearchMetric
}

type GameMetric struct {
	Winner     string
	Score      string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start(threads int)
	SetTreeReset(value bool)
	SetReusedNodes(nodes int)
	AddPlayout()
	Complete(nodes int, winRatio float64) SearchMetric
}

type collector struct {
	threads     int
	startTime   time.Time
	playouts    atomic.Int32
	reusedNodes atomic.Int32
	isTreeReset atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(threads int) {
	m.startTime = time.Now()
	m.threads = threads
	m.playouts.Store(0)
	m.reusedNodes.Store(0)
	m.isTreeReset.Store(true)
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) SetReusedNodes(nodes int) {
	m.reusedNodes.Store(int32(nodes))
}

func (m *collector) AddPlayout() {
	m.playouts.Add(1)
}

func (m *collector) Complete(nodes int, winRatio float64) SearchMetric {
	return SearchMetric{
		Threads:     m.threads,
		Duration:    time.Since(m.startTime),
		Playouts:    int(m.playouts.Load()),
		Nodes:       nodes,
		ReusedNodes: int(m.reusedNodes.Load()),
		WinRatio:    winRatio,
		IsTreeReset: m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(threads int)                                 {}
func (m *dummyCollector) SetTreeReset(value bool)                           {}
func (m *dummyCollector) SetReusedNodes(nodes int)                          {}
func (m *dummyCollector) AddPlayout()                                       {}
func (m *dummyCollector) Complete(nodes int, winRatio float64) SearchMetric { return SearchMetric{} }
