package planner

import (
	"fmt"

	"mit.edu/dsg/sqlplan/common"
)

// Expr represents a node in an expression tree.
// Expressions are stateless and immutable, like the plan nodes holding them.
type Expr interface {
	// OutputType returns the type of value this expression produces.
	OutputType() common.Type

	// String returns a string representation of the expression.
	String() string
}

// BoundValueExpr reads one column of the input row.
type BoundValueExpr struct {
	fieldOffset int // offset of the column in the input schema
	outputType  common.Type
	name        string
}

func NewColumnValueExpression(fieldOffset int, inputSchema []Field, name string) *BoundValueExpr {
	common.Assert(fieldOffset >= 0 && fieldOffset < len(inputSchema), "column offset %d out of range", fieldOffset)
	return &BoundValueExpr{
		fieldOffset: fieldOffset,
		outputType:  inputSchema[fieldOffset].Type,
		name:        name,
	}
}

// FieldOffset returns the position of the referenced column in the input schema.
func (e *BoundValueExpr) FieldOffset() int {
	return e.fieldOffset
}

func (e *BoundValueExpr) OutputType() common.Type {
	return e.outputType
}

func (e *BoundValueExpr) String() string {
	return e.name
}

type ConstantValueExpr struct {
	val common.Value
}

func NewConstantValueExpression(val common.Value) *ConstantValueExpr {
	return &ConstantValueExpr{val: val}
}

func (e *ConstantValueExpr) OutputType() common.Type {
	return e.val.Type()
}

func (e *ConstantValueExpr) String() string {
	return e.val.String()
}

type ComparisonType int

const (
	Equal ComparisonType = iota
	NotEqual
	GreaterThan
	LessThan
	GreaterThanOrEqual
	LessThanOrEqual
)

func (c ComparisonType) String() string {
	switch c {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case GreaterThanOrEqual:
		return ">="
	case LessThanOrEqual:
		return "<="
	}
	return "???"
}

type ComparisonExpression struct {
	left     Expr
	right    Expr
	compType ComparisonType
}

func NewComparisonExpression(left Expr, right Expr, compType ComparisonType) *ComparisonExpression {
	return &ComparisonExpression{
		left:     left,
		right:    right,
		compType: compType,
	}
}

func (e *ComparisonExpression) OutputType() common.Type {
	return common.IntType
}

func (e *ComparisonExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.compType.String(), e.right.String())
}

type BinaryLogicType int

const (
	And BinaryLogicType = iota
	Or
)

func (l BinaryLogicType) String() string {
	switch l {
	case And:
		return "AND"
	case Or:
		return "OR"
	}
	return "???"
}

type BinaryLogicExpression struct {
	left      Expr
	right     Expr
	logicType BinaryLogicType
}

func NewBinaryLogicExpression(left Expr, right Expr, logicType BinaryLogicType) *BinaryLogicExpression {
	return &BinaryLogicExpression{
		left:      left,
		right:     right,
		logicType: logicType,
	}
}

func (e *BinaryLogicExpression) OutputType() common.Type {
	return common.IntType
}

func (e *BinaryLogicExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.logicType.String(), e.right.String())
}

type NegationExpression struct {
	child Expr
}

func NewNegationExpression(child Expr) *NegationExpression {
	return &NegationExpression{
		child: child,
	}
}

func (e *NegationExpression) OutputType() common.Type {
	return common.IntType
}

func (e *NegationExpression) String() string {
	return fmt.Sprintf("!(%s)", e.child.String())
}

type NullCheckType int

const (
	IsNull NullCheckType = iota
	IsNotNull
)

func (n NullCheckType) String() string {
	switch n {
	case IsNull:
		return "IS NULL"
	case IsNotNull:
		return "IS NOT NULL"
	}
	return "???"
}

type NullCheckExpression struct {
	child     Expr
	checkType NullCheckType
}

func NewNullCheckExpression(child Expr, checkType NullCheckType) *NullCheckExpression {
	return &NullCheckExpression{
		child:     child,
		checkType: checkType,
	}
}

func (e *NullCheckExpression) OutputType() common.Type {
	return common.IntType
}

func (e *NullCheckExpression) String() string {
	return fmt.Sprintf("(%s %s)", e.child.String(), e.checkType.String())
}

type ArithmeticType int

const (
	Add ArithmeticType = iota
	Sub
	Mult
	Div
	Mod
)

func (a ArithmeticType) String() string {
	switch a {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mult:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	}
	return "?"
}

type ArithmeticExpression struct {
	left  Expr
	right Expr
	op    ArithmeticType
}

func NewArithmeticExpression(left Expr, right Expr, op ArithmeticType) *ArithmeticExpression {
	return &ArithmeticExpression{
		left:  left,
		right: right,
		op:    op,
	}
}

func (e *ArithmeticExpression) OutputType() common.Type {
	return common.IntType
}

func (e *ArithmeticExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.op.String(), e.right.String())
}

// StringConcatExpression handles string manipulation.
type StringConcatExpression struct {
	left  Expr
	right Expr
}

func NewStringConcatenation(left Expr, right Expr) *StringConcatExpression {
	return &StringConcatExpression{left: left, right: right}
}

func (e *StringConcatExpression) OutputType() common.Type {
	return common.StringType
}

func (e *StringConcatExpression) String() string {
	return fmt.Sprintf("(%s || %s)", e.left.String(), e.right.String())
}

type LikeExpression struct {
	left  Expr // The value to check
	right Expr // The pattern (usually a constant)
}

func NewLikeExpression(left Expr, right Expr) *LikeExpression {
	return &LikeExpression{left: left, right: right}
}

func (e *LikeExpression) OutputType() common.Type {
	return common.IntType
}

func (e *LikeExpression) String() string {
	return fmt.Sprintf("(%s LIKE %s)", e.left.String(), e.right.String())
}

// Fold evaluates an expression built only from integer constants and
// arithmetic. It reports false for anything that reads a column or yields a
// non-integer. Division or modulo by zero folds to NULL.
func Fold(e Expr) (common.Value, bool) {
	switch e := e.(type) {
	case *ConstantValueExpr:
		return e.val, e.val.Type() == common.IntType
	case *ArithmeticExpression:
		left, ok := Fold(e.left)
		if !ok {
			return common.Value{}, false
		}
		right, ok := Fold(e.right)
		if !ok {
			return common.Value{}, false
		}
		if left.IsNull() || right.IsNull() {
			return common.NewNullInt(), true
		}
		l, r := left.IntValue(), right.IntValue()
		switch e.op {
		case Add:
			return common.NewIntValue(l + r), true
		case Sub:
			return common.NewIntValue(l - r), true
		case Mult:
			return common.NewIntValue(l * r), true
		case Div:
			if r == 0 {
				return common.NewNullInt(), true
			}
			return common.NewIntValue(l / r), true
		case Mod:
			if r == 0 {
				return common.NewNullInt(), true
			}
			return common.NewIntValue(l % r), true
		}
	}
	return common.Value{}, false
}
