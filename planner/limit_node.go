package planner

import (
	"fmt"
)

// NoLimit marks a LimitNode that only applies an offset.
const NoLimit int64 = -1

// LimitNode skips Offset rows and then passes at most Limit rows.
type LimitNode struct {
	nodeBase
	Child  PlanNode
	Limit  int64
	Offset int64
}

func NewLimitNode(traits Traits, child PlanNode, limit, offset int64) *LimitNode {
	return &LimitNode{
		nodeBase: newNodeBase(traits),
		Child:    child,
		Limit:    limit,
		Offset:   offset,
	}
}

func (n *LimitNode) Kind() NodeKind {
	return LimitKind
}

func (n *LimitNode) OutputSchema() []Field {
	return n.Child.OutputSchema()
}

func (n *LimitNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *LimitNode) Accept(v Visitor) WalkAction {
	return v.VisitLimit(n)
}

func (n *LimitNode) String() string {
	if n.Limit == NoLimit {
		return n.describe(fmt.Sprintf("Limit: all offset %d", n.Offset))
	}
	return n.describe(fmt.Sprintf("Limit: %d offset %d", n.Limit, n.Offset))
}
