package planner

import (
	"fmt"
)

// FilterNode filters rows from its child based on a predicate.
type FilterNode struct {
	nodeBase
	Child     PlanNode
	Predicate Expr
}

func NewFilterNode(traits Traits, child PlanNode, predicate Expr) *FilterNode {
	return &FilterNode{
		nodeBase:  newNodeBase(traits),
		Child:     child,
		Predicate: predicate,
	}
}

func (n *FilterNode) Kind() NodeKind {
	return FilterKind
}

func (n *FilterNode) OutputSchema() []Field {
	return n.Child.OutputSchema()
}

func (n *FilterNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *FilterNode) Accept(v Visitor) WalkAction {
	return v.VisitFilter(n)
}

func (n *FilterNode) String() string {
	return n.describe(fmt.Sprintf("Filter: %s", n.Predicate.String()))
}
