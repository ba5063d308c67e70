package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"mit.edu/dsg/sqlplan/common"
)

func TestExplainPrintsSharedProducerOnce(t *testing.T) {
	root, producer := sharedPlan(logical)
	plan := NewPlan(root, nil, []*CTEProducer{producer})

	out := Explain(plan)
	assert.Equal(t, 1, strings.Count(out, "Scan: base"), out)
	assert.Equal(t, 2, strings.Count(out, "-> cte#0"), out)
	assert.Contains(t, out, "cte#0 t (ordinal 0)")
	assert.Len(t, plan.Fields, 2)
}

func TestSortCollationStopsAtComputedKey(t *testing.T) {
	scan := NewScanNode(logical, 1, "t", "t", []Field{
		{Qualifier: "t", Name: "a", Type: common.IntType},
		{Qualifier: "t", Name: "b", Type: common.IntType},
	}, 1, nil)
	a := NewColumnValueExpression(0, scan.OutputSchema(), "t.a")
	b := NewColumnValueExpression(1, scan.OutputSchema(), "t.b")
	sum := NewArithmeticExpression(a, b, Add)

	sort := NewSortNode(logical, scan, []OrderByClause{
		{Expr: b, Direction: SortOrderDescending},
		{Expr: sum, Direction: SortOrderAscending},
		{Expr: a, Direction: SortOrderAscending},
	})
	assert.Equal(t, []SortKey{{Field: 1, Direction: SortOrderDescending}}, sort.Collation())
	assert.Equal(t, "Sort: t.b desc, (t.a + t.b) asc, t.a asc [logical]", sort.String())
}

func TestNodeStringsCarryConventionAndHints(t *testing.T) {
	scan := NewScanNode(Traits{Convention: Physical, Hints: []Hint{{Category: ScanHint, Name: "use_index", Options: []HintOption{{Value: "pk"}}}}},
		7, "orders", "o", nil, 8, nil)
	assert.Equal(t, "Scan: orders AS o (oid 7, 8 partitions) [physical] /*+ use_index(pk) */", scan.String())

	ex := NewExchangeNode(physical, scan, Distribution{Kind: HashDistribution, Keys: []int{0}})
	assert.Equal(t, "Exchange: hash[0] [physical]", ex.String())
	assert.Equal(t, ExchangeKind, ex.Kind())
	assert.Equal(t, "Exchange", ex.Kind().String())

	limit := NewLimitNode(Traits{}, scan, NoLimit, 5)
	assert.Equal(t, "Limit: all offset 5 [unassigned]", limit.String())
}
