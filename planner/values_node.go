package planner

import (
	"fmt"

	"mit.edu/dsg/sqlplan/common"
)

// Row is a tuple of values laid out like a node's OutputSchema.
type Row []common.Value

// ValuesNode produces literal rows. SELECT without FROM plans as a single
// empty row.
type ValuesNode struct {
	nodeBase
	Rows         []Row
	outputSchema []Field
}

func NewValuesNode(traits Traits, outputSchema []Field, rows []Row) *ValuesNode {
	return &ValuesNode{
		nodeBase:     newNodeBase(traits),
		Rows:         rows,
		outputSchema: outputSchema,
	}
}

func (n *ValuesNode) Kind() NodeKind {
	return ValuesKind
}

func (n *ValuesNode) OutputSchema() []Field {
	return n.outputSchema
}

func (n *ValuesNode) Children() []PlanNode {
	return nil
}

func (n *ValuesNode) Accept(v Visitor) WalkAction {
	return v.VisitValues(n)
}

func (n *ValuesNode) String() string {
	return n.describe(fmt.Sprintf("Values: %d rows", len(n.Rows)))
}
