package planner

import (
	"mit.edu/dsg/sqlplan/common"
)

// Field is one output column of a plan node. Qualifier is the table name or
// alias the column is reachable through; it is empty for computed columns.
type Field struct {
	Qualifier string
	Name      string
	Type      common.Type
}

func (f Field) String() string {
	if f.Qualifier == "" {
		return f.Name
	}
	return f.Qualifier + "." + f.Name
}

// ColumnName names an output column whose type is taken from the expression
// that produces it.
type ColumnName struct {
	Qualifier string
	Name      string
}

// Requalify returns a copy of fields that are all reachable through qualifier.
func Requalify(fields []Field, qualifier string) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{Qualifier: qualifier, Name: f.Name, Type: f.Type}
	}
	return out
}

func fieldsOf(exprs []Expr, names []ColumnName) []Field {
	common.Assert(len(exprs) == len(names), "got %d names for %d expressions", len(names), len(exprs))
	out := make([]Field, len(exprs))
	for i, e := range exprs {
		out[i] = Field{Qualifier: names[i].Qualifier, Name: names[i].Name, Type: e.OutputType()}
	}
	return out
}
