package planner

// Convention tags the execution stage a plan node belongs to. It is fixed when
// the node is created.
type Convention int

const (
	Unassigned Convention = iota
	Logical
	Physical
)

func (c Convention) String() string {
	switch c {
	case Unassigned:
		return "unassigned"
	case Logical:
		return "logical"
	case Physical:
		return "physical"
	}
	return "unknown"
}

// ParseConvention is the inverse of Convention.String.
func ParseConvention(name string) (Convention, bool) {
	switch name {
	case "unassigned":
		return Unassigned, true
	case "logical":
		return Logical, true
	case "physical":
		return Physical, true
	}
	return Unassigned, false
}
