package planner

import (
	"fmt"
)

type DistributionKind int

const (
	// SingletonDistribution gathers every row onto one worker.
	SingletonDistribution DistributionKind = iota
	// HashDistribution repartitions rows by the hash of Keys.
	HashDistribution
	// BroadcastDistribution copies every row to every worker.
	BroadcastDistribution
	// RandomDistribution spreads rows evenly with no key.
	RandomDistribution
)

func (k DistributionKind) String() string {
	switch k {
	case SingletonDistribution:
		return "singleton"
	case HashDistribution:
		return "hash"
	case BroadcastDistribution:
		return "broadcast"
	case RandomDistribution:
		return "random"
	}
	return "???"
}

// Distribution is the placement of rows across workers after an exchange.
// Keys are field offsets into the exchange's output schema.
type Distribution struct {
	Kind DistributionKind
	Keys []int
}

func (d Distribution) String() string {
	if len(d.Keys) == 0 {
		return d.Kind.String()
	}
	return fmt.Sprintf("%s%v", d.Kind, d.Keys)
}

// ExchangeNode marks a data-redistribution boundary: rows produced by the child
// on one set of workers are shuffled to the workers of the parent.
type ExchangeNode struct {
	nodeBase
	Child        PlanNode
	Distribution Distribution
}

func NewExchangeNode(traits Traits, child PlanNode, distribution Distribution) *ExchangeNode {
	return &ExchangeNode{
		nodeBase:     newNodeBase(traits),
		Child:        child,
		Distribution: distribution,
	}
}

func (n *ExchangeNode) Kind() NodeKind {
	return ExchangeKind
}

func (n *ExchangeNode) OutputSchema() []Field {
	return n.Child.OutputSchema()
}

func (n *ExchangeNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *ExchangeNode) Accept(v Visitor) WalkAction {
	return v.VisitExchange(n)
}

func (n *ExchangeNode) String() string {
	return n.describe("Exchange: " + n.Distribution.String())
}
