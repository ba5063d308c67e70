package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"mit.edu/dsg/sqlplan/common"
	"mit.edu/dsg/sqlplan/planner"
)

// sharedPlan builds
//
//	Projection "root"
//	  Join "join"
//	    CTEConsumer "x" -> t
//	    CTEConsumer "y" -> t
//	t: Exchange "exchange" (or Filter when exchange is false)
//	     Scan "scan"
//
// Every node is physical except the one named by logical.
func sharedPlan(logical string, exchange bool) planner.PlanNode {
	traits := func(label string) planner.Traits {
		if label == logical {
			return planner.Traits{Convention: planner.Logical}
		}
		return planner.Traits{Convention: planner.Physical}
	}

	fields := []planner.Field{{Qualifier: "base", Name: "id", Type: common.IntType}}
	scan := planner.NewScanNode(traits("scan"), 1, "base", "base", fields, 4, []int{0})

	var sub planner.PlanNode
	if exchange {
		sub = planner.NewExchangeNode(traits("exchange"), scan, planner.Distribution{Kind: planner.HashDistribution, Keys: []int{0}})
	} else {
		sub = planner.NewFilterNode(traits("exchange"), scan, planner.NewConstantValueExpression(common.NewIntValue(1)))
	}
	producer := planner.NewCTEProducer(0, "t", 0, sub, planner.Requalify(fields, "t"), nil)

	x := planner.NewCTEConsumerNode(traits("x"), producer, "x")
	y := planner.NewCTEConsumerNode(traits("y"), producer, "y")
	join := planner.NewJoinNode(traits("join"), x, y, planner.CrossJoin, nil)

	s := join.OutputSchema()
	return planner.NewProjectionNode(traits("root"), join,
		[]planner.Expr{planner.NewColumnValueExpression(0, s, "x.id")},
		[]planner.ColumnName{{Qualifier: "x", Name: "id"}})
}

func TestConventionValidatorAllPhysical(t *testing.T) {
	v := NewConventionValidator(sharedPlan("", true))
	assert.True(t, v.Validate())
	// the producer is walked through x only; y is checked without descending
	assert.Equal(t, 6, v.Visited())

	// the answer is computed once
	assert.True(t, v.Validate())
	assert.Equal(t, 6, v.Visited())
}

func TestConventionValidatorSingleLogicalNode(t *testing.T) {
	tests := []struct {
		logical string
		visited int
	}{
		{"root", 1},
		{"join", 2},
		{"x", 3},
		{"exchange", 4},
		{"scan", 5},
		{"y", 6},
	}
	for _, tt := range tests {
		t.Run(tt.logical, func(t *testing.T) {
			v := NewConventionValidator(sharedPlan(tt.logical, true))
			assert.False(t, v.Validate())
			assert.Equal(t, tt.visited, v.Visited())
		})
	}
}

func TestConventionValidatorUnassigned(t *testing.T) {
	fields := []planner.Field{{Name: "v", Type: common.IntType}}
	values := planner.NewValuesNode(planner.Traits{}, fields, nil)
	assert.False(t, NewConventionValidator(values).Validate())

	physical := planner.NewValuesNode(planner.Traits{Convention: planner.Physical}, fields, nil)
	assert.True(t, NewConventionValidator(physical).Validate())
}

func TestConventionValidatorProducersSharingAnID(t *testing.T) {
	phys := planner.Traits{Convention: planner.Physical}
	fields := []planner.Field{{Qualifier: "base", Name: "id", Type: common.IntType}}

	a := planner.NewCTEProducer(0, "a", 0,
		planner.NewScanNode(phys, 1, "base", "base", fields, 4, []int{0}),
		planner.Requalify(fields, "a"), nil)
	c := planner.NewCTEProducer(0, "c", 0,
		planner.NewScanNode(planner.Traits{Convention: planner.Logical}, 1, "base", "base", fields, 4, []int{0}),
		planner.Requalify(fields, "c"), nil)
	require.Equal(t, a.ID, c.ID)

	x := planner.NewCTEConsumerNode(phys, a, "x")
	y := planner.NewCTEConsumerNode(phys, c, "y")
	root := planner.NewJoinNode(phys, x, y, planner.CrossJoin, nil)

	v := NewConventionValidator(root)
	assert.False(t, v.Validate(), "logical scan is reachable through y")
	// join, x, a's scan, y, c's scan
	assert.Equal(t, 5, v.Visited())
}

func TestExchangeModes(t *testing.T) {
	assert.Equal(t, "existence", NewExchangeCounter(ExchangeExistence).Mode().String())
	assert.Equal(t, "exact_count", NewExchangeCounter(ExchangeExactCount).Mode().String())
	assert.Equal(t, "ExchangeMode(7)", ExchangeMode(7).String())
	assert.Panics(t, func() { NewExchangeCounter(ExchangeMode(7)) })
}

func TestExchangeExistence(t *testing.T) {
	counter := NewExchangeCounter(ExchangeExistence)

	none := counter.Run(sharedPlan("", false))
	assert.False(t, none.Found)
	assert.Zero(t, none.Count)
	// root, join, then x and y each walk filter and scan
	assert.Equal(t, 8, none.Visited)

	found := counter.Run(sharedPlan("", true))
	assert.True(t, found.Found)
	assert.Equal(t, 1, found.Count)
	// stops at the exchange reached through x, before its scan and y
	assert.Equal(t, 4, found.Visited)

	assert.Equal(t, "existence", counter.Mode().String())
}

func TestExchangeExactCount(t *testing.T) {
	counter := NewExchangeCounter(ExchangeExactCount)

	shared := counter.Run(sharedPlan("", true))
	assert.True(t, shared.Found)
	assert.Equal(t, 2, shared.Count, "a shared exchange counts once per consumer")
	assert.Equal(t, 8, shared.Visited)

	assert.Zero(t, CountExchanges(sharedPlan("", false)))
	assert.False(t, HasExchange(sharedPlan("", false)))
	assert.True(t, HasExchange(sharedPlan("", true)))
}

// The exact count does not depend on where the exchanges sit.
func TestExchangeCountIndependentOfPosition(t *testing.T) {
	fields := []planner.Field{{Qualifier: "base", Name: "id", Type: common.IntType}}
	physical := planner.Traits{Convention: planner.Physical}
	gather := planner.Distribution{Kind: planner.SingletonDistribution}
	truth := planner.NewConstantValueExpression(common.NewIntValue(1))

	scan := func() planner.PlanNode { return planner.NewScanNode(physical, 1, "base", "base", fields, 4, nil) }
	exchange := func(n planner.PlanNode) planner.PlanNode { return planner.NewExchangeNode(physical, n, gather) }
	filter := func(n planner.PlanNode) planner.PlanNode { return planner.NewFilterNode(physical, n, truth) }

	plans := map[string]planner.PlanNode{
		"top":    exchange(filter(filter(scan()))),
		"middle": filter(exchange(filter(scan()))),
		"bottom": filter(filter(exchange(scan()))),
	}
	for name, root := range plans {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 1, CountExchanges(root))
			assert.True(t, HasExchange(root))
		})
	}

	twice := exchange(filter(exchange(scan())))
	assert.Equal(t, 2, CountExchanges(twice))
	assert.Equal(t, 1, NewExchangeCounter(ExchangeExistence).Run(twice).Visited)
}

// Finished plans are read-only, so checks may run concurrently over one graph.
func TestConcurrentAnalyses(t *testing.T) {
	root := sharedPlan("", true)
	counter := NewExchangeCounter(ExchangeExactCount)

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			if !NewConventionValidator(root).Validate() {
				t.Error("expected a physical plan")
			}
			if got := counter.Run(root).Count; got != 2 {
				t.Errorf("got %d exchanges, want 2", got)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
