package planner

import (
	"fmt"
)

// NodeKind is the closed set of relational operators a plan graph is made of.
type NodeKind int

const (
	ScanKind NodeKind = iota
	ValuesKind
	FilterKind
	ProjectionKind
	JoinKind
	AggregateKind
	SortKind
	LimitKind
	UnionKind
	ExchangeKind
	CTEConsumerKind
)

func (k NodeKind) String() string {
	switch k {
	case ScanKind:
		return "Scan"
	case ValuesKind:
		return "Values"
	case FilterKind:
		return "Filter"
	case ProjectionKind:
		return "Projection"
	case JoinKind:
		return "Join"
	case AggregateKind:
		return "Aggregate"
	case SortKind:
		return "Sort"
	case LimitKind:
		return "Limit"
	case UnionKind:
		return "Union"
	case ExchangeKind:
		return "Exchange"
	case CTEConsumerKind:
		return "CTEConsumer"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// PlanNode is a node of the relational plan graph.
//
// Nodes are immutable once constructed. A node may have several parents (a CTE
// producer's root is reachable from every consumer), so nothing in the graph
// owns its children exclusively. The interface is sealed: every implementation
// lives in this package and is known to Visitor.
type PlanNode interface {
	Kind() NodeKind

	// Convention returns the execution stage assigned at construction.
	Convention() Convention

	// Hints returns the directives attached at construction, in order.
	Hints() []Hint

	// Children returns the direct child nodes. A CTEConsumerNode has none; its
	// producer is reached through Inputs.
	Children() []PlanNode

	// OutputSchema returns the fields produced by this node.
	OutputSchema() []Field

	// Accept dispatches to the Visitor method for the node's kind.
	Accept(v Visitor) WalkAction

	String() string

	sealed()
}

// Traits carries the per-node properties fixed at construction time.
type Traits struct {
	Convention Convention
	Hints      []Hint
}

type nodeBase struct {
	convention Convention
	hints      []Hint
}

func newNodeBase(traits Traits) nodeBase {
	var hints []Hint
	if len(traits.Hints) > 0 {
		hints = make([]Hint, len(traits.Hints))
		copy(hints, traits.Hints)
	}
	return nodeBase{convention: traits.Convention, hints: hints}
}

func (b *nodeBase) Convention() Convention {
	return b.convention
}

func (b *nodeBase) Hints() []Hint {
	return b.hints
}

func (b *nodeBase) sealed() {}

// describe appends the convention and hints to a node label.
func (b *nodeBase) describe(label string) string {
	if len(b.hints) == 0 {
		return fmt.Sprintf("%s [%s]", label, b.convention)
	}
	return fmt.Sprintf("%s [%s] /*+ %s */", label, b.convention, formatHints(b.hints))
}
