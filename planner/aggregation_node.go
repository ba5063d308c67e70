package planner

import (
	"fmt"

	"mit.edu/dsg/sqlplan/common"
)

type AggregatorType int

const (
	AggCount AggregatorType = iota
	AggSum
	AggMin
	AggMax
)

func (a AggregatorType) String() string {
	switch a {
	case AggCount:
		return "count"
	case AggSum:
		return "sum"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	}
	return "???"
}

// AggregateClause is one aggregate call. Expr is nil for count(*).
type AggregateClause struct {
	Type AggregatorType
	Expr Expr
}

// OutputType returns the type of the aggregate's result.
func (c AggregateClause) OutputType() common.Type {
	switch c.Type {
	case AggCount, AggSum:
		return common.IntType
	}
	return c.Expr.OutputType()
}

func (c AggregateClause) String() string {
	if c.Expr == nil {
		return c.Type.String() + "(*)"
	}
	return fmt.Sprintf("%s(%s)", c.Type, c.Expr.String())
}

// AggregateNode represents a group-by and aggregation operation. Its output is
// the group-by columns followed by one column per aggregate. With no
// aggregates it computes DISTINCT over the group-by columns.
type AggregateNode struct {
	nodeBase
	Child         PlanNode
	GroupByClause []Expr
	AggClauses    []AggregateClause
	outputSchema  []Field
}

func NewAggregateNode(traits Traits, child PlanNode, groupBy []Expr, aggregates []AggregateClause, names []ColumnName) *AggregateNode {
	common.Assert(len(names) == len(groupBy)+len(aggregates), "got %d names for %d aggregate outputs", len(names), len(groupBy)+len(aggregates))
	outputSchema := make([]Field, len(groupBy)+len(aggregates))
	for i, expr := range groupBy {
		outputSchema[i] = Field{Qualifier: names[i].Qualifier, Name: names[i].Name, Type: expr.OutputType()}
	}
	for i, agg := range aggregates {
		name := names[len(groupBy)+i]
		outputSchema[len(groupBy)+i] = Field{Qualifier: name.Qualifier, Name: name.Name, Type: agg.OutputType()}
	}

	return &AggregateNode{
		nodeBase:      newNodeBase(traits),
		Child:         child,
		GroupByClause: groupBy,
		AggClauses:    aggregates,
		outputSchema:  outputSchema,
	}
}

func (n *AggregateNode) Kind() NodeKind {
	return AggregateKind
}

func (n *AggregateNode) OutputSchema() []Field {
	return n.outputSchema
}

func (n *AggregateNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *AggregateNode) Accept(v Visitor) WalkAction {
	return v.VisitAggregate(n)
}

func (n *AggregateNode) String() string {
	return n.describe(fmt.Sprintf("Aggregate: GroupBy(%v) Aggs(%v)", n.GroupByClause, n.AggClauses))
}
