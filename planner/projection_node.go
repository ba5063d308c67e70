package planner

import (
	"strings"
)

// ProjectionNode projects specific columns or expressions from its child.
type ProjectionNode struct {
	nodeBase
	Child        PlanNode
	Expressions  []Expr
	outputSchema []Field
}

func NewProjectionNode(traits Traits, child PlanNode, exprs []Expr, names []ColumnName) *ProjectionNode {
	return &ProjectionNode{
		nodeBase:     newNodeBase(traits),
		Child:        child,
		Expressions:  exprs,
		outputSchema: fieldsOf(exprs, names),
	}
}

func (n *ProjectionNode) Kind() NodeKind {
	return ProjectionKind
}

func (n *ProjectionNode) OutputSchema() []Field {
	return n.outputSchema
}

func (n *ProjectionNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *ProjectionNode) Accept(v Visitor) WalkAction {
	return v.VisitProjection(n)
}

func (n *ProjectionNode) String() string {
	cols := make([]string, len(n.outputSchema))
	for i, f := range n.outputSchema {
		cols[i] = f.Name
	}
	return n.describe("Projection: " + strings.Join(cols, ", "))
}
