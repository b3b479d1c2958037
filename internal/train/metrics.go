package train

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

var nan = math.NaN()

// Window accumulates loss and timing stats across multiple steps.
type Window struct {
	samples int
	elapsed time.Duration
	losses  []float64
}

// Record adds a new measurement to the window.
func (w *Window) Record(batchSize int, stepTime time.Duration, loss float64) {
	w.samples += batchSize
	w.elapsed += stepTime
	w.losses = append(w.losses, loss)
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{LastLoss: nan, AvgLoss: nan}
	if w.elapsed > 0 {
		snap.SamplesPerSec = float64(w.samples) / w.elapsed.Seconds()
	}
	if n := len(w.losses); n > 0 {
		snap.AvgStepMS = (w.elapsed.Seconds() * 1000) / float64(n)
		snap.AvgLoss = stat.Mean(w.losses, nil)
		snap.LastLoss = w.losses[n-1]
	}

	w.samples = 0
	w.elapsed = 0
	w.losses = w.losses[:0]
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	SamplesPerSec float64
	AvgStepMS     float64
	AvgLoss       float64
	LastLoss      float64
}
