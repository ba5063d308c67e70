package planner

import (
	"strings"
)

type SortDirection int

const (
	SortOrderAscending SortDirection = iota
	SortOrderDescending
)

func (d SortDirection) String() string {
	if d == SortOrderDescending {
		return "desc"
	}
	return "asc"
}

type OrderByClause struct {
	Expr      Expr
	Direction SortDirection
}

// SortNode sorts the input rows.
type SortNode struct {
	nodeBase
	Child   PlanNode
	OrderBy []OrderByClause
}

func NewSortNode(traits Traits, child PlanNode, orderBy []OrderByClause) *SortNode {
	return &SortNode{
		nodeBase: newNodeBase(traits),
		Child:    child,
		OrderBy:  orderBy,
	}
}

func (n *SortNode) Kind() NodeKind {
	return SortKind
}

func (n *SortNode) OutputSchema() []Field {
	return n.Child.OutputSchema()
}

func (n *SortNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *SortNode) Accept(v Visitor) WalkAction {
	return v.VisitSort(n)
}

// Collation returns the sort keys that order output columns directly. It stops
// at the first key that sorts on a computed expression.
func (n *SortNode) Collation() []SortKey {
	keys := make([]SortKey, 0, len(n.OrderBy))
	for _, o := range n.OrderBy {
		col, ok := o.Expr.(*BoundValueExpr)
		if !ok {
			break
		}
		keys = append(keys, SortKey{Field: col.FieldOffset(), Direction: o.Direction})
	}
	return keys
}

func (n *SortNode) String() string {
	keys := make([]string, len(n.OrderBy))
	for i, o := range n.OrderBy {
		keys[i] = o.Expr.String() + " " + o.Direction.String()
	}
	return n.describe("Sort: " + strings.Join(keys, ", "))
}
