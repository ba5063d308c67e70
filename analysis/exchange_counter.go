package analysis

import (
	"fmt"

	"mit.edu/dsg/sqlplan/common"
	"mit.edu/dsg/sqlplan/planner"
)

type ExchangeMode int

const (
	// ExchangeExistence stops at the first exchange found.
	ExchangeExistence ExchangeMode = iota
	// ExchangeExactCount visits the whole graph and counts every exchange on
	// every path, so an exchange inside a shared producer counts once per
	// consumer reaching it.
	ExchangeExactCount
)

func (m ExchangeMode) String() string {
	switch m {
	case ExchangeExistence:
		return "existence"
	case ExchangeExactCount:
		return "exact_count"
	}
	return fmt.Sprintf("ExchangeMode(%d)", int(m))
}

// ExchangeResult is the outcome of one ExchangeCounter run. In existence mode
// Count is 0 or 1.
type ExchangeResult struct {
	Found   bool
	Count   int
	Visited int
}

// ExchangeCounter finds data-redistribution boundaries in a plan. The mode is
// fixed at construction; every Run keeps its own state, so a counter may be
// shared between goroutines.
type ExchangeCounter struct {
	mode ExchangeMode
}

func NewExchangeCounter(mode ExchangeMode) *ExchangeCounter {
	common.Assert(mode == ExchangeExistence || mode == ExchangeExactCount, "unknown exchange mode %s", mode)
	return &ExchangeCounter{mode: mode}
}

func (c *ExchangeCounter) Mode() ExchangeMode {
	return c.mode
}

func (c *ExchangeCounter) Run(root planner.PlanNode) ExchangeResult {
	s := &exchangeSearch{stopAtFirst: c.mode == ExchangeExistence}
	planner.Walk(root, s)
	return ExchangeResult{Found: s.count > 0, Count: s.count, Visited: s.visited}
}

// HasExchange reports whether any exchange is reachable from root.
func HasExchange(root planner.PlanNode) bool {
	return NewExchangeCounter(ExchangeExistence).Run(root).Found
}

// CountExchanges counts the exchanges reachable from root, once per path.
func CountExchanges(root planner.PlanNode) int {
	return NewExchangeCounter(ExchangeExactCount).Run(root).Count
}

type exchangeSearch struct {
	stopAtFirst bool
	count       int
	visited     int
}

func (s *exchangeSearch) pass(planner.PlanNode) planner.WalkAction {
	s.visited++
	return planner.Continue
}

func (s *exchangeSearch) VisitScan(n *planner.ScanNode) planner.WalkAction { return s.pass(n) }

func (s *exchangeSearch) VisitValues(n *planner.ValuesNode) planner.WalkAction { return s.pass(n) }

func (s *exchangeSearch) VisitFilter(n *planner.FilterNode) planner.WalkAction { return s.pass(n) }

func (s *exchangeSearch) VisitProjection(n *planner.ProjectionNode) planner.WalkAction {
	return s.pass(n)
}

func (s *exchangeSearch) VisitJoin(n *planner.JoinNode) planner.WalkAction { return s.pass(n) }

func (s *exchangeSearch) VisitAggregate(n *planner.AggregateNode) planner.WalkAction {
	return s.pass(n)
}

func (s *exchangeSearch) VisitSort(n *planner.SortNode) planner.WalkAction { return s.pass(n) }

func (s *exchangeSearch) VisitLimit(n *planner.LimitNode) planner.WalkAction { return s.pass(n) }

func (s *exchangeSearch) VisitUnion(n *planner.UnionNode) planner.WalkAction { return s.pass(n) }

func (s *exchangeSearch) VisitExchange(*planner.ExchangeNode) planner.WalkAction {
	s.visited++
	s.count++
	if s.stopAtFirst {
		return planner.Stop
	}
	return planner.Continue
}

func (s *exchangeSearch) VisitCTEConsumer(n *planner.CTEConsumerNode) planner.WalkAction {
	return s.pass(n)
}
