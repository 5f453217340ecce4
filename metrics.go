package pollcoro

import (
	"sync"
	"time"
)

// Metrics is an opt-in snapshot of [BlockOn] activity: total polls,
// total wakes, and streaming p50/p90/p99 estimates of the interval
// between consecutive wakes recorded into it (the first wake gives no
// sample). The time from a Pending result to the wake that follows it
// is not measured. It is wired through
// [WithMetrics]; a nil *Metrics anywhere in this package is always a
// valid no-op.
//
// Thread safety: a *Metrics may be shared across concurrently running
// [BlockOn] calls; all methods lock internally.
type Metrics struct {
	mu        sync.Mutex
	polls     uint64
	wakes     uint64
	p50       *pSquareQuantile
	p90       *pSquareQuantile
	p99       *pSquareQuantile
	lastWake  time.Time
	lastWakeOK bool
}

// NewMetrics returns a fresh, empty Metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		p50: newPSquareQuantile(0.50),
		p90: newPSquareQuantile(0.90),
		p99: newPSquareQuantile(0.99),
	}
}

func (m *Metrics) recordPoll() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.polls++
	m.mu.Unlock()
}

func (m *Metrics) recordWake(at time.Time) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.wakes++
	if m.lastWakeOK {
		d := at.Sub(m.lastWake).Seconds() * 1e3 // milliseconds
		if d < 0 {
			d = 0
		}
		m.p50.Update(d)
		m.p90.Update(d)
		m.p99.Update(d)
	}
	m.lastWake = at
	m.lastWakeOK = true
	m.mu.Unlock()
}

// Snapshot is a point-in-time copy of a [Metrics] collector's counters.
type Snapshot struct {
	Polls     uint64
	Wakes     uint64
	LatencyP50Ms float64
	LatencyP90Ms float64
	LatencyP99Ms float64
}

// Snapshot returns the current counters and quantile estimates.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Polls:        m.polls,
		Wakes:        m.wakes,
		LatencyP50Ms: m.p50.Quantile(),
		LatencyP90Ms: m.p90.Quantile(),
		LatencyP99Ms: m.p99.Quantile(),
	}
}

// pSquareQuantile implements the P² algorithm for streaming quantile
// estimation in O(1) time and space per observation, adapted from the
// eventloop package's psquare.go (itself after Jain & Chlamtac, 1985).
//
// Not safe for concurrent use; callers serialize access (here, via
// Metrics.mu).
type pSquareQuantile struct {
	p           float64
	q           [5]float64
	n           [5]int
	np          [5]float64
	dn          [5]float64
	initialized bool
	count       int
	initBuffer  [5]float64
}

func newPSquareQuantile(p float64) *pSquareQuantile {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return &pSquareQuantile{
		p:  p,
		dn: [5]float64{0, p / 2, p, (1 + p) / 2, 1},
	}
}

func (q *pSquareQuantile) Update(x float64) {
	q.count++
	if !q.initialized {
		q.initBuffer[q.count-1] = x
		if q.count == 5 {
			q.finishInit()
		}
		return
	}

	// Find the cell k such that q.q[k] <= x < q.q[k+1], updating the
	// extreme markers directly if x falls outside the observed range.
	k := 0
	switch {
	case x < q.q[0]:
		q.q[0] = x
		k = 0
	case x >= q.q[4]:
		q.q[4] = x
		k = 3
	default:
		for i := 0; i < 4; i++ {
			if x < q.q[i+1] {
				k = i
				break
			}
		}
	}

	for i := k + 1; i < 5; i++ {
		q.n[i]++
	}
	for i := 0; i < 5; i++ {
		q.np[i] += q.dn[i]
	}

	for i := 1; i < 4; i++ {
		d := q.np[i] - float64(q.n[i])
		if (d >= 1 && q.n[i+1]-q.n[i] > 1) || (d <= -1 && q.n[i-1]-q.n[i] < -1) {
			sign := 1
			if d < 0 {
				sign = -1
			}
			qs := q.parabolic(i, sign)
			if q.q[i-1] < qs && qs < q.q[i+1] {
				q.q[i] = qs
			} else {
				q.q[i] = q.linear(i, sign)
			}
			q.n[i] += sign
		}
	}
}

func (q *pSquareQuantile) finishInit() {
	buf := q.initBuffer
	for i := 0; i < 5; i++ {
		for j := i + 1; j < 5; j++ {
			if buf[j] < buf[i] {
				buf[i], buf[j] = buf[j], buf[i]
			}
		}
	}
	for i := 0; i < 5; i++ {
		q.q[i] = buf[i]
		q.n[i] = i + 1
	}
	for i := 0; i < 5; i++ {
		q.np[i] = 1 + 4*q.dn[i]
	}
	q.initialized = true
}

func (q *pSquareQuantile) parabolic(i, sign int) float64 {
	n := q.n
	qq := q.q
	return qq[i] + float64(sign)/float64(n[i+1]-n[i-1])*
		(float64(n[i]-n[i-1]+sign)*(qq[i+1]-qq[i])/float64(n[i+1]-n[i])+
			float64(n[i+1]-n[i]-sign)*(qq[i]-qq[i-1])/float64(n[i]-n[i-1]))
}

func (q *pSquareQuantile) linear(i, sign int) float64 {
	d := q.q[i+sign] - q.q[i]
	nd := float64(q.n[i+sign] - q.n[i])
	if nd == 0 {
		return q.q[i]
	}
	return q.q[i] + float64(sign)*d/nd
}

// Quantile returns the current quantile estimate. Before 5 observations
// have been seen it returns the median of those seen so far, or 0 if
// there are none.
func (q *pSquareQuantile) Quantile() float64 {
	if !q.initialized {
		// Not enough data for the P² algorithm; fall back to a sorted
		// median of whatever we have.
		n := q.count
		if n == 0 {
			return 0
		}
		buf := make([]float64, n)
		copy(buf, q.initBuffer[:n])
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if buf[j] < buf[i] {
					buf[i], buf[j] = buf[j], buf[i]
				}
			}
		}
		return buf[n/2]
	}
	return q.q[2]
}
