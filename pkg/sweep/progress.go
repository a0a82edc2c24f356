package sweep

import "time"

// defaultAverageWindow is the number of recent per-curve durations kept for
// the remaining-time projection.
const defaultAverageWindow = 20

// Progress describes the state of a running sweep after one cell completed.
type Progress struct {
	// Processed counts completed cells, including any resumed from a
	// checkpoint.
	Processed int
	// Total is the full cell count of the grid.
	Total int
	// Elapsed is the wall time since Run started.
	Elapsed time.Duration
	// Remaining projects the time left from a moving average of recent
	// per-curve durations times the remaining cell count.
	Remaining time.Duration
}

// ProgressFunc receives progress updates. Called from a single goroutine.
type ProgressFunc func(Progress)

// movingAverage keeps a fixed window of recent durations.
type movingAverage struct {
	window []time.Duration
	size   int
	next   int
	filled int
}

func newMovingAverage(size int) *movingAverage {
	if size < 1 {
		size = defaultAverageWindow
	}

	return &movingAverage{window: make([]time.Duration, size), size: size}
}

func (m *movingAverage) observe(d time.Duration) {
	m.window[m.next] = d
	m.next = (m.next + 1) % m.size

	if m.filled < m.size {
		m.filled++
	}
}

func (m *movingAverage) average() time.Duration {
	if m.filled == 0 {
		return 0
	}

	var sum time.Duration
	for i := 0; i < m.filled; i++ {
		sum += m.window[i]
	}

	return sum / time.Duration(m.filled)
}
