package app

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Metrics counts what happened during a session. Counters are atomic so
// they can be read from outside the main loop.
type Metrics struct {
	framesShown   atomic.Uint64
	staleFrames   atomic.Uint64
	decodeErrors  atomic.Uint64
	openErrors    atomic.Uint64
	renders       atomic.Uint64
	renderTotalNs atomic.Int64
	inputs        atomic.Uint64
	commandErrors atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordRender records how long one Draw took.
func (m *Metrics) RecordRender(d time.Duration) {
	m.renders.Add(1)
	m.renderTotalNs.Add(d.Nanoseconds())
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	FramesShown   uint64
	StaleFrames   uint64
	DecodeErrors  uint64
	OpenErrors    uint64
	Renders       uint64
	AvgRender     time.Duration
	Inputs        uint64
	CommandErrors uint64
	Uptime        time.Duration
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		FramesShown:   m.framesShown.Load(),
		StaleFrames:   m.staleFrames.Load(),
		DecodeErrors:  m.decodeErrors.Load(),
		OpenErrors:    m.openErrors.Load(),
		Renders:       m.renders.Load(),
		Inputs:        m.inputs.Load(),
		CommandErrors: m.commandErrors.Load(),
		Uptime:        time.Since(m.startTime),
	}
	if s.Renders > 0 {
		s.AvgRender = time.Duration(m.renderTotalNs.Load() / int64(s.Renders))
	}
	return s
}

// Fields returns the snapshot as log fields.
func (s Snapshot) Fields() logrus.Fields {
	return logrus.Fields{
		"frames":         s.FramesShown,
		"stale_frames":   s.StaleFrames,
		"decode_errors":  s.DecodeErrors,
		"open_errors":    s.OpenErrors,
		"renders":        s.Renders,
		"avg_render":     s.AvgRender,
		"inputs":         s.Inputs,
		"command_errors": s.CommandErrors,
		"uptime":         s.Uptime.Round(time.Millisecond),
	}
}
