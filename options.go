package pollcoro

// BlockOnOption configures [BlockOn]. The functional-options shape
// mirrors the eventloop package's LoopOption (options.go): an
// interface wrapping an apply function, so new options can be added
// without breaking callers.
type BlockOnOption interface {
	applyBlockOn(*blockOnConfig)
}

type blockOnConfig struct {
	metrics  *Metrics
	logger   Logger
	forceCAS bool // force the condvar path even if the root proves NeverBlocks; for tests.
}

type blockOnOptionFunc func(*blockOnConfig)

func (f blockOnOptionFunc) applyBlockOn(c *blockOnConfig) { f(c) }

// WithMetrics attaches m to the driver: every poll increments m's poll
// counter, and every wake increments its wake counter and, from the
// second wake on, feeds the time since the previous wake into m's
// latency estimators.
// See metrics.go; grounded on the eventloop package's opt-in
// WithMetrics/psquare design — metrics are off by default so the hot
// path pays nothing for callers who don't ask.
func WithMetrics(m *Metrics) BlockOnOption {
	return blockOnOptionFunc(func(c *blockOnConfig) { c.metrics = m })
}

// WithBlockOnLogger overrides the package-level [Logger] for a single
// [BlockOn] call.
func WithBlockOnLogger(l Logger) BlockOnOption {
	return blockOnOptionFunc(func(c *blockOnConfig) { c.logger = l })
}

func resolveBlockOnOptions(opts []BlockOnOption) *blockOnConfig {
	c := &blockOnConfig{}
	for _, o := range opts {
		o.applyBlockOn(c)
	}
	if c.logger == nil {
		c.logger = getLogger()
	}
	return c
}
