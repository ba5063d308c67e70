// Package compiler puts a per-statement plan cache in front of the builder.
//
// Statements are keyed by their canonical SQL text. Identical statements
// compiled concurrently are converted once, and a cached plan is returned as
// is: plans are immutable, so callers share them freely.
package compiler

import (
	"fmt"
	"time"

	"github.com/Yiling-J/theine-go"
	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"mit.edu/dsg/sqlplan/analysis"
	"mit.edu/dsg/sqlplan/ast"
	"mit.edu/dsg/sqlplan/builder"
	"mit.edu/dsg/sqlplan/catalog"
	"mit.edu/dsg/sqlplan/logging"
	"mit.edu/dsg/sqlplan/planner"
)

// Compiler converts statements into plans through a cache. It is safe for
// concurrent use.
type Compiler struct {
	builder *builder.Builder
	cfg     Config

	cache   *theine.Cache[uint64, *cacheEntry] // nil when caching is off
	group   singleflight.Group
	stats   *counters
	metrics *metrics
}

type cacheEntry struct {
	sql  string
	plan *planner.Plan
}

// Report is the result of running the plan analyses.
type Report struct {
	Physical  bool
	Exchanges int
	Producers int
}

// NewCompiler builds a compiler resolving tables against cat. Metrics are
// registered with reg when it is not nil.
func NewCompiler(cat *catalog.Catalog, cfg Config, reg prometheus.Registerer) (*Compiler, error) {
	name := cfg.Convention
	if name == "" {
		name = planner.Logical.String()
	}
	convention, ok := planner.ParseConvention(name)
	if !ok {
		return nil, fmt.Errorf("unknown convention %q", cfg.Convention)
	}

	c := &Compiler{
		builder: builder.New(builder.NewCatalogResolver(cat), builder.WithConvention(convention)),
		cfg:     cfg,
		stats:   newCounters(),
		metrics: newMetrics(),
	}

	if cfg.Cache.Enabled() {
		cache, err := theine.NewBuilder[uint64, *cacheEntry](cfg.Cache.MaximumSize).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build plan cache: %w", err)
		}
		c.cache = cache
		logging.Debug().
			Int64("maximum_size", cfg.Cache.MaximumSize).
			Dur("expire_after_write", cfg.Cache.ExpireAfterWrite).
			Int("initial_capacity", cfg.Cache.InitialCapacity).
			Int("concurrency_level", cfg.Cache.ConcurrencyLevel).
			Msg("plan cache enabled")
	} else {
		logging.Debug().Interface("cache", cfg.Cache).Msg("plan cache disabled")
	}

	if reg != nil {
		if err := c.metrics.register(reg); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to register compiler metrics: %w", err)
		}
	}
	return c, nil
}

// Fingerprint returns the cache key of a statement's canonical SQL text.
func Fingerprint(sql string) uint64 {
	return xxhash.Sum64String(sql)
}

// Compile returns the plan of stmt, from the cache when possible.
func (c *Compiler) Compile(stmt ast.Query) (*planner.Plan, error) {
	sql := stmt.String()
	key := Fingerprint(sql)

	if c.cache != nil {
		if plan, ok := c.cached(key, sql); ok {
			c.stats.hits.Inc()
			c.metrics.cacheLookups.WithLabelValues("hit").Inc()
			return plan, nil
		}
		c.stats.misses.Inc()
		c.metrics.cacheLookups.WithLabelValues("miss").Inc()
	}

	v, err, shared := c.group.Do(sql, func() (any, error) {
		// a compile that finished since the lookup above has filled the cache
		if plan, ok := c.cached(key, sql); ok {
			return plan, nil
		}
		return c.convert(stmt, sql, key)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.Debug().Uint64("fingerprint", key).Msg("joined in-flight compile")
	}
	return v.(*planner.Plan), nil
}

func (c *Compiler) cached(key uint64, sql string) (*planner.Plan, bool) {
	if c.cache == nil {
		return nil, false
	}
	entry, ok := c.cache.Get(key)
	// the text comparison guards against fingerprint collisions
	if !ok || entry.sql != sql {
		return nil, false
	}
	return entry.plan, true
}

func (c *Compiler) convert(stmt ast.Query, sql string, key uint64) (*planner.Plan, error) {
	start := time.Now()
	c.stats.compiles.Inc()

	plan, err := c.builder.Convert(stmt)
	c.metrics.compileDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.stats.fail(err)
		c.metrics.compiles.WithLabelValues("error").Inc()
		logging.Debug().Err(err).Uint64("fingerprint", key).Msg("compile failed")
		return nil, err
	}
	c.metrics.compiles.WithLabelValues("success").Inc()

	if c.cache != nil {
		c.cache.SetWithTTL(key, &cacheEntry{sql: sql, plan: plan}, 1, c.cfg.Cache.ExpireAfterWrite)
	}
	return plan, nil
}

// Analyze runs the convention and exchange checks over a finished plan.
func (c *Compiler) Analyze(plan *planner.Plan) Report {
	return Report{
		Physical:  analysis.NewConventionValidator(plan.Root).Validate(),
		Exchanges: analysis.CountExchanges(plan.Root),
		Producers: len(plan.Producers),
	}
}

func (c *Compiler) Stats() Stats {
	return c.stats.snapshot()
}

// Close releases the cache. The compiler must not be used afterwards.
func (c *Compiler) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}
