package planner

import (
	"fmt"
)

type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	CrossJoin
)

func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "inner"
	case LeftOuterJoin:
		return "left"
	case RightOuterJoin:
		return "right"
	case CrossJoin:
		return "cross"
	}
	return "???"
}

// JoinNode represents a join between two children. The predicate is evaluated
// over the concatenation of the left and right schemas and is nil for a cross
// join. The join algorithm is left to later stages; join hints travel with the
// node.
type JoinNode struct {
	nodeBase
	Left         PlanNode
	Right        PlanNode
	Type         JoinType
	Predicate    Expr
	outputSchema []Field
}

func NewJoinNode(traits Traits, left, right PlanNode, joinType JoinType, predicate Expr) *JoinNode {
	schema := make([]Field, 0, len(left.OutputSchema())+len(right.OutputSchema()))
	schema = append(schema, left.OutputSchema()...)
	schema = append(schema, right.OutputSchema()...)
	return &JoinNode{
		nodeBase:     newNodeBase(traits),
		Left:         left,
		Right:        right,
		Type:         joinType,
		Predicate:    predicate,
		outputSchema: schema,
	}
}

func (n *JoinNode) Kind() NodeKind {
	return JoinKind
}

func (n *JoinNode) OutputSchema() []Field {
	return n.outputSchema
}

func (n *JoinNode) Children() []PlanNode {
	return []PlanNode{n.Left, n.Right}
}

func (n *JoinNode) Accept(v Visitor) WalkAction {
	return v.VisitJoin(n)
}

func (n *JoinNode) String() string {
	if n.Predicate == nil {
		return n.describe(fmt.Sprintf("Join: %s", n.Type))
	}
	return n.describe(fmt.Sprintf("Join: %s on %s", n.Type, n.Predicate.String()))
}
