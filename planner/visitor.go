package planner

import (
	"mit.edu/dsg/sqlplan/common"
)

// WalkAction tells Walk how to continue after visiting a node.
type WalkAction int

const (
	// Continue descends into the node's inputs.
	Continue WalkAction = iota
	// SkipInputs moves on to the node's next sibling.
	SkipInputs
	// Stop ends the whole walk.
	Stop
)

// Visitor has one method per NodeKind. Adding a node kind adds a method here,
// so every traversal fails to compile until it handles the new kind.
type Visitor interface {
	VisitScan(n *ScanNode) WalkAction
	VisitValues(n *ValuesNode) WalkAction
	VisitFilter(n *FilterNode) WalkAction
	VisitProjection(n *ProjectionNode) WalkAction
	VisitJoin(n *JoinNode) WalkAction
	VisitAggregate(n *AggregateNode) WalkAction
	VisitSort(n *SortNode) WalkAction
	VisitLimit(n *LimitNode) WalkAction
	VisitUnion(n *UnionNode) WalkAction
	VisitExchange(n *ExchangeNode) WalkAction
	VisitCTEConsumer(n *CTEConsumerNode) WalkAction
}

// Inputs returns the nodes a traversal descends into from n: its children, or
// for a CTEConsumerNode the root of its producer's sub-plan.
func Inputs(n PlanNode) []PlanNode {
	if c, ok := n.(*CTEConsumerNode); ok {
		common.Assert(c.Producer != nil && c.Producer.Root != nil, "consumer %s has no producer sub-plan", c.Alias)
		return []PlanNode{c.Producer.Root}
	}
	return n.Children()
}

// Walk visits root and everything reachable from it depth-first, parents
// before children, following consumer->producer edges. The graph is a DAG: a
// shared producer is walked once per consumer reaching it unless the visitor
// answers SkipInputs. Walk returns false if the visitor stopped it.
func Walk(root PlanNode, v Visitor) bool {
	switch root.Accept(v) {
	case Stop:
		return false
	case SkipInputs:
		return true
	}
	for _, in := range Inputs(root) {
		if !Walk(in, v) {
			return false
		}
	}
	return true
}
