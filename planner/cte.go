package planner

import (
	"fmt"

	"mit.edu/dsg/sqlplan/common"
)

// CTEID is the handle of a CTEProducer, unique within one compiled statement.
// Handles are assigned in registration order starting at 0.
type CTEID int

func (id CTEID) String() string {
	return fmt.Sprintf("cte#%d", int(id))
}

// CTEProducer is the single materialized sub-plan of one WITH item. Every
// reference to the item in the query body shares it through a CTEConsumerNode.
type CTEProducer struct {
	ID      CTEID
	Name    string
	Ordinal int // position within its WITH clause
	Root    PlanNode
	// Fields is the sub-plan's output after the item's optional column list.
	Fields []Field
	// Attributes are the sub-plan root's CTEAttributeHint hints.
	Attributes []Hint
}

func NewCTEProducer(id CTEID, name string, ordinal int, root PlanNode, fields []Field, attributes []Hint) *CTEProducer {
	common.Assert(root != nil, "producer %s has no sub-plan", name)
	common.Assert(len(fields) == len(root.OutputSchema()), "producer %s: %d fields for %d columns", name, len(fields), len(root.OutputSchema()))
	return &CTEProducer{
		ID:         id,
		Name:       name,
		Ordinal:    ordinal,
		Root:       root,
		Fields:     fields,
		Attributes: attributes,
	}
}

func (p *CTEProducer) String() string {
	label := fmt.Sprintf("%s %s (ordinal %d)", p.ID, p.Name, p.Ordinal)
	if len(p.Attributes) > 0 {
		label += " /*+ " + formatHints(p.Attributes) + " */"
	}
	return label
}

// CTEConsumerNode reads the rows of a shared CTEProducer. It has no children;
// the producer's sub-plan is reached through Inputs.
type CTEConsumerNode struct {
	nodeBase
	Producer     *CTEProducer
	Alias        string
	outputSchema []Field
}

func NewCTEConsumerNode(traits Traits, producer *CTEProducer, alias string) *CTEConsumerNode {
	common.Assert(producer != nil, "consumer %s without producer", alias)
	return &CTEConsumerNode{
		nodeBase:     newNodeBase(traits),
		Producer:     producer,
		Alias:        alias,
		outputSchema: Requalify(producer.Fields, alias),
	}
}

func (n *CTEConsumerNode) Kind() NodeKind {
	return CTEConsumerKind
}

func (n *CTEConsumerNode) OutputSchema() []Field {
	return n.outputSchema
}

func (n *CTEConsumerNode) Children() []PlanNode {
	return nil
}

func (n *CTEConsumerNode) Accept(v Visitor) WalkAction {
	return v.VisitCTEConsumer(n)
}

func (n *CTEConsumerNode) String() string {
	label := "CTEConsumer: " + n.Producer.Name
	if n.Alias != "" && n.Alias != n.Producer.Name {
		label += " AS " + n.Alias
	}
	return n.describe(fmt.Sprintf("%s -> %s", label, n.Producer.ID))
}
