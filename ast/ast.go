// Package ast defines the parsed SQL statement the plan builder consumes.
//
// Tokenizing and parsing happen upstream; this package only fixes the shape of
// their output. Every node prints itself back as canonical SQL through String,
// which the compiler also uses as the statement fingerprint.
package ast

import (
	"strings"

	"mit.edu/dsg/sqlplan/common"
)

// Identifier is an unquoted SQL name. Two identifiers denote the same object
// when their keys are equal.
type Identifier string

// Key returns the case-folded form used for lookups.
func (id Identifier) Key() string {
	return strings.ToLower(string(id))
}

func (id Identifier) IsEmpty() bool {
	return id == ""
}

// Equal compares two identifiers the way SQL resolves unquoted names.
func (id Identifier) Equal(other Identifier) bool {
	return id.Key() == other.Key()
}

func (id Identifier) String() string {
	return string(id)
}

type Node interface {
	String() string
}

// Query is a statement producing rows: *Select, *Union or *With.
type Query interface {
	Node
	iQuery()
}

// TableExpr is an entry of a FROM clause: *TableName, *DerivedTable or *JoinTableExpr.
type TableExpr interface {
	Node
	iTableExpr()
}

// SelectExpr is an entry of a select list: *StarExpr or *AliasedExpr.
type SelectExpr interface {
	Node
	iSelectExpr()
}

// Expr is a scalar expression.
type Expr interface {
	Node
	iExpr()
}

// Hint is an optimizer directive such as /*+ MATERIALIZE */ or
// /*+ BROADCAST(k=v) */. Params are opaque to the parser.
type Hint struct {
	Name   Identifier
	Params []HintParam
}

// HintParam is a single hint argument. Positional arguments leave Key empty.
type HintParam struct {
	Key   string
	Value string
}

// With is a query prefixed by a WITH clause.
type With struct {
	Recursive bool
	Items     []*WithItem
	Body      Query
}

// WithItem declares one common table expression: Name [(Columns)] AS (Query).
type WithItem struct {
	Name    Identifier
	Columns []Identifier
	Query   Query
}

// Select is a single SELECT block.
type Select struct {
	Hints    []Hint
	Distinct bool
	Exprs    []SelectExpr
	From     []TableExpr
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []*OrderItem
	Limit    *Limit
}

// Union combines two queries with UNION or UNION ALL.
type Union struct {
	All   bool
	Left  Query
	Right Query
}

func (*Select) iQuery() {}
func (*Union) iQuery()  {}
func (*With) iQuery()   {}

// StarExpr is `*` or `t.*`.
type StarExpr struct {
	Table Identifier
}

// AliasedExpr is `expr [AS alias]`.
type AliasedExpr struct {
	Expr Expr
	As   Identifier
}

func (*StarExpr) iSelectExpr()    {}
func (*AliasedExpr) iSelectExpr() {}

// TableName references a catalog table or a CTE in scope.
type TableName struct {
	Name  Identifier
	As    Identifier
	Hints []Hint
}

// RefName is the name the rest of the query uses for this table.
func (t *TableName) RefName() Identifier {
	if !t.As.IsEmpty() {
		return t.As
	}
	return t.Name
}

// DerivedTable is a sub-query in FROM. The alias is mandatory.
type DerivedTable struct {
	Query Query
	As    Identifier
}

type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	CrossJoin
)

// JoinTableExpr is `left <kind> JOIN right [ON cond]`.
type JoinTableExpr struct {
	Kind  JoinKind
	Left  TableExpr
	Right TableExpr
	On    Expr
}

func (*TableName) iTableExpr()     {}
func (*DerivedTable) iTableExpr()  {}
func (*JoinTableExpr) iTableExpr() {}

// ColName is a possibly qualified column reference.
type ColName struct {
	Qualifier Identifier
	Name      Identifier
}

// Literal is a constant.
type Literal struct {
	Value common.Value
}

type ComparisonOp int

const (
	EqualOp ComparisonOp = iota
	NotEqualOp
	LessThanOp
	LessEqualOp
	GreaterThanOp
	GreaterEqualOp
)

type ComparisonExpr struct {
	Op    ComparisonOp
	Left  Expr
	Right Expr
}

type LogicalOp int

const (
	AndOp LogicalOp = iota
	OrOp
)

type LogicalExpr struct {
	Op    LogicalOp
	Left  Expr
	Right Expr
}

type NotExpr struct {
	Expr Expr
}

// IsNullExpr is `expr IS [NOT] NULL`.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

type ArithmeticOp int

const (
	PlusOp ArithmeticOp = iota
	MinusOp
	MultOp
	DivOp
	ModOp
	ConcatOp
)

type BinaryExpr struct {
	Op    ArithmeticOp
	Left  Expr
	Right Expr
}

type LikeExpr struct {
	Expr    Expr
	Pattern Expr
}

// FuncExpr is a function call. Only the aggregates count, sum, min and max
// are planned; count(*) sets Star.
type FuncExpr struct {
	Name Identifier
	Star bool
	Arg  Expr
}

func (*ColName) iExpr()        {}
func (*Literal) iExpr()        {}
func (*ComparisonExpr) iExpr() {}
func (*LogicalExpr) iExpr()    {}
func (*NotExpr) iExpr()        {}
func (*IsNullExpr) iExpr()     {}
func (*BinaryExpr) iExpr()     {}
func (*LikeExpr) iExpr()       {}
func (*FuncExpr) iExpr()       {}

type OrderItem struct {
	Expr Expr
	Desc bool
}

// Limit is `LIMIT count [OFFSET offset]`; both must be constant expressions.
// A nil Count is LIMIT ALL.
type Limit struct {
	Count  Expr
	Offset Expr
}

// IsAggregate reports whether the function names one of the supported aggregates.
func (f *FuncExpr) IsAggregate() bool {
	switch f.Name.Key() {
	case "count", "sum", "min", "max":
		return true
	}
	return false
}
