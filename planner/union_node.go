package planner

// UnionNode concatenates the rows of its inputs. Without All, duplicates are
// removed by an AggregateNode the builder places on top, so a UnionNode itself
// always behaves like UNION ALL.
type UnionNode struct {
	nodeBase
	Left  PlanNode
	Right PlanNode
}

func NewUnionNode(traits Traits, left, right PlanNode) *UnionNode {
	return &UnionNode{
		nodeBase: newNodeBase(traits),
		Left:     left,
		Right:    right,
	}
}

func (n *UnionNode) Kind() NodeKind {
	return UnionKind
}

// OutputSchema follows the left input, as in SQL.
func (n *UnionNode) OutputSchema() []Field {
	return n.Left.OutputSchema()
}

func (n *UnionNode) Children() []PlanNode {
	return []PlanNode{n.Left, n.Right}
}

func (n *UnionNode) Accept(v Visitor) WalkAction {
	return v.VisitUnion(n)
}

func (n *UnionNode) String() string {
	return n.describe("Union: all")
}
