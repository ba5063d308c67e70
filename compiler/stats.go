package compiler

import (
	"github.com/puzpuzpuz/xsync/v3"
	"mit.edu/dsg/sqlplan/common"
)

// Stats is a snapshot of a Compiler's activity.
type Stats struct {
	Hits     int64
	Misses   int64
	Compiles int64
	// Failures counts failed conversions by error code.
	Failures map[common.PlanErrorCode]int64
}

type counters struct {
	hits     *xsync.Counter
	misses   *xsync.Counter
	compiles *xsync.Counter
	failures *xsync.MapOf[common.PlanErrorCode, *xsync.Counter]
}

func newCounters() *counters {
	return &counters{
		hits:     xsync.NewCounter(),
		misses:   xsync.NewCounter(),
		compiles: xsync.NewCounter(),
		failures: xsync.NewMapOf[common.PlanErrorCode, *xsync.Counter](),
	}
}

func (c *counters) fail(err error) {
	code, ok := common.ErrorCode(err)
	if !ok {
		return
	}
	counter, _ := c.failures.LoadOrCompute(code, func() *xsync.Counter {
		return xsync.NewCounter()
	})
	counter.Inc()
}

func (c *counters) snapshot() Stats {
	s := Stats{
		Hits:     c.hits.Value(),
		Misses:   c.misses.Value(),
		Compiles: c.compiles.Value(),
		Failures: make(map[common.PlanErrorCode]int64),
	}
	c.failures.Range(func(code common.PlanErrorCode, counter *xsync.Counter) bool {
		s.Failures[code] = counter.Value()
		return true
	})
	return s
}
