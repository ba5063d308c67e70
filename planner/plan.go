package planner

import (
	"fmt"
	"strings"
)

// SortKey orders the plan output by one of its fields.
type SortKey struct {
	Field     int
	Direction SortDirection
}

// Plan is the result of converting one statement. The graph below Root is
// immutable and may be traversed concurrently.
type Plan struct {
	Root PlanNode
	// Fields is the output field ordering.
	Fields []Field
	// Collation is the ordering guaranteed by the top-level ORDER BY, if any.
	Collation []SortKey
	// Producers lists every CTE producer of the statement in registration
	// order; Producers[i].ID == CTEID(i).
	Producers []*CTEProducer
}

func NewPlan(root PlanNode, collation []SortKey, producers []*CTEProducer) *Plan {
	return &Plan{
		Root:      root,
		Fields:    root.OutputSchema(),
		Collation: collation,
		Producers: producers,
	}
}

// Explain renders the plan as an indented tree. Consumers print a reference to
// their producer; each producer's sub-plan is printed once after the main tree.
func Explain(p *Plan) string {
	var b strings.Builder
	explainNode(&b, p.Root, 0)
	for _, producer := range p.Producers {
		b.WriteString(producer.String())
		b.WriteString("\n")
		explainNode(&b, producer.Root, 1)
	}
	return b.String()
}

func explainNode(b *strings.Builder, n PlanNode, depth int) {
	fmt.Fprintf(b, "%s%s\n", strings.Repeat("  ", depth), n.String())
	for _, child := range n.Children() {
		explainNode(b, child, depth+1)
	}
}
