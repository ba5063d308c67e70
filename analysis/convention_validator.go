// Package analysis holds read-only checks over finished plan graphs. Nothing
// here modifies a node, so any number of checks may run concurrently over the
// same plan.
package analysis

import (
	"mit.edu/dsg/sqlplan/logging"
	"mit.edu/dsg/sqlplan/planner"
)

// ConventionValidator checks that every node reachable from one root, through
// children and consumer-to-producer edges, has the Physical convention.
//
// A validator is bound to its root and computes the answer once. A producer
// shared by several consumers is validated through the first consumer that
// reaches it; later consumers only check themselves.
type ConventionValidator struct {
	root    planner.PlanNode
	done    bool
	valid   bool
	visited int
}

func NewConventionValidator(root planner.PlanNode) *ConventionValidator {
	return &ConventionValidator{root: root}
}

// Validate reports whether the plan is fully physical. It stops at the first
// node that is not.
func (v *ConventionValidator) Validate() bool {
	if v.done {
		return v.valid
	}
	check := &conventionCheck{producers: make(map[*planner.CTEProducer]struct{})}
	v.valid = planner.Walk(v.root, check)
	v.visited = check.visited
	v.done = true

	if !v.valid {
		logging.Debug().
			Stringer("node", check.offender.Kind()).
			Stringer("convention", check.offender.Convention()).
			Msg("plan is not fully physical")
	}
	return v.valid
}

// Visited returns the number of nodes Validate checked.
func (v *ConventionValidator) Visited() int {
	return v.visited
}

type conventionCheck struct {
	producers map[*planner.CTEProducer]struct{}
	visited   int
	offender  planner.PlanNode
}

func (c *conventionCheck) check(n planner.PlanNode) planner.WalkAction {
	c.visited++
	if n.Convention() != planner.Physical {
		c.offender = n
		return planner.Stop
	}
	return planner.Continue
}

func (c *conventionCheck) VisitScan(n *planner.ScanNode) planner.WalkAction { return c.check(n) }

func (c *conventionCheck) VisitValues(n *planner.ValuesNode) planner.WalkAction { return c.check(n) }

func (c *conventionCheck) VisitFilter(n *planner.FilterNode) planner.WalkAction { return c.check(n) }

func (c *conventionCheck) VisitProjection(n *planner.ProjectionNode) planner.WalkAction {
	return c.check(n)
}

func (c *conventionCheck) VisitJoin(n *planner.JoinNode) planner.WalkAction { return c.check(n) }

func (c *conventionCheck) VisitAggregate(n *planner.AggregateNode) planner.WalkAction {
	return c.check(n)
}

func (c *conventionCheck) VisitSort(n *planner.SortNode) planner.WalkAction { return c.check(n) }

func (c *conventionCheck) VisitLimit(n *planner.LimitNode) planner.WalkAction { return c.check(n) }

func (c *conventionCheck) VisitUnion(n *planner.UnionNode) planner.WalkAction { return c.check(n) }

func (c *conventionCheck) VisitExchange(n *planner.ExchangeNode) planner.WalkAction {
	return c.check(n)
}

func (c *conventionCheck) VisitCTEConsumer(n *planner.CTEConsumerNode) planner.WalkAction {
	if action := c.check(n); action != planner.Continue {
		return action
	}
	// distinct producers may carry the same id, so track them by identity
	if _, seen := c.producers[n.Producer]; seen {
		return planner.SkipInputs
	}
	c.producers[n.Producer] = struct{}{}
	return planner.Continue
}
