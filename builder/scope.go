package builder

import (
	"fmt"
	"strings"

	"mit.edu/dsg/sqlplan/ast"
	"mit.edu/dsg/sqlplan/common"
	"mit.edu/dsg/sqlplan/planner"
)

// scope is the set of columns an expression can reference. Its fields line up
// with the output schema of the node the expression is evaluated over.
type scope struct {
	fields []planner.Field
}

func newScope(fields []planner.Field) *scope {
	return &scope{fields: fields}
}

// join returns the scope of a join of s and right.
func (s *scope) join(right *scope) *scope {
	fields := make([]planner.Field, 0, len(s.fields)+len(right.fields))
	fields = append(fields, s.fields...)
	fields = append(fields, right.fields...)
	return newScope(fields)
}

// resolve finds the offset of col. Unqualified names must match exactly one
// field across all tables in scope.
func (s *scope) resolve(col *ast.ColName) (int, error) {
	found := -1
	for i, f := range s.fields {
		if !strings.EqualFold(f.Name, col.Name.String()) {
			continue
		}
		if !col.Qualifier.IsEmpty() && !strings.EqualFold(f.Qualifier, col.Qualifier.String()) {
			continue
		}
		if found >= 0 {
			return 0, common.NewPlanError(common.AmbiguousReferenceError, col.String(),
				"column reference '%s' is ambiguous", col)
		}
		found = i
	}
	if found < 0 {
		return 0, common.NewPlanError(common.NoSuchObjectError, col.String(), "column '%s' does not exist", col)
	}
	return found, nil
}

// star returns the offsets `*` or `t.*` expands to.
func (s *scope) star(table ast.Identifier) ([]int, error) {
	var offsets []int
	for i, f := range s.fields {
		if table.IsEmpty() || strings.EqualFold(f.Qualifier, table.String()) {
			offsets = append(offsets, i)
		}
	}
	if !table.IsEmpty() && len(offsets) == 0 {
		return nil, common.NewPlanError(common.NoSuchObjectError, table.String(),
			"no table named '%s' in FROM clause", table)
	}
	return offsets, nil
}

func (s *scope) column(offset int) *planner.BoundValueExpr {
	return planner.NewColumnValueExpression(offset, s.fields, s.fields[offset].String())
}

// binder translates AST expressions into plan expressions over a scope.
//
// After aggregation the scope is the aggregate's output and computed is set:
// an expression whose canonical text matches a group-by expression or an
// aggregate call is read from the matching output column, and any other
// column reference is an error.
type binder struct {
	scope    *scope
	computed map[string]int
}

func (b *binder) bind(e ast.Expr) (planner.Expr, error) {
	if b.computed != nil {
		if offset, ok := b.computed[e.String()]; ok {
			return b.scope.column(offset), nil
		}
	}

	switch e := e.(type) {
	case *ast.ColName:
		offset, err := b.scope.resolve(e)
		if err != nil {
			if b.computed != nil && common.IsErrorCode(err, common.NoSuchObjectError) {
				return nil, common.NewPlanError(common.InvalidStatementError, e.String(),
					"column '%s' must appear in the GROUP BY clause or be used in an aggregate function", e)
			}
			return nil, err
		}
		return b.scope.column(offset), nil

	case *ast.Literal:
		return planner.NewConstantValueExpression(e.Value), nil

	case *ast.ComparisonExpr:
		left, right, err := b.bindPair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		if left.OutputType() != right.OutputType() {
			return nil, typeMismatch(e, left, right)
		}
		return planner.NewComparisonExpression(left, right, comparisonType(e.Op)), nil

	case *ast.LogicalExpr:
		left, right, err := b.bindPair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		op := planner.And
		if e.Op == ast.OrOp {
			op = planner.Or
		}
		return planner.NewBinaryLogicExpression(left, right, op), nil

	case *ast.NotExpr:
		child, err := b.bind(e.Expr)
		if err != nil {
			return nil, err
		}
		return planner.NewNegationExpression(child), nil

	case *ast.IsNullExpr:
		child, err := b.bind(e.Expr)
		if err != nil {
			return nil, err
		}
		check := planner.IsNull
		if e.Not {
			check = planner.IsNotNull
		}
		return planner.NewNullCheckExpression(child, check), nil

	case *ast.BinaryExpr:
		left, right, err := b.bindPair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		if e.Op == ast.ConcatOp {
			if left.OutputType() != common.StringType || right.OutputType() != common.StringType {
				return nil, typeMismatch(e, left, right)
			}
			return planner.NewStringConcatenation(left, right), nil
		}
		if left.OutputType() != common.IntType || right.OutputType() != common.IntType {
			return nil, typeMismatch(e, left, right)
		}
		return planner.NewArithmeticExpression(left, right, arithmeticType(e.Op)), nil

	case *ast.LikeExpr:
		left, right, err := b.bindPair(e.Expr, e.Pattern)
		if err != nil {
			return nil, err
		}
		if left.OutputType() != common.StringType || right.OutputType() != common.StringType {
			return nil, typeMismatch(e, left, right)
		}
		return planner.NewLikeExpression(left, right), nil

	case *ast.FuncExpr:
		if !e.IsAggregate() {
			return nil, common.NewPlanError(common.UnsupportedFeatureError, e.Name.String(),
				"function '%s' is not supported", e.Name)
		}
		return nil, common.NewPlanError(common.InvalidStatementError, e.String(),
			"aggregate function '%s' is not allowed here", e)
	}
	panic(fmt.Sprintf("unexpected expression %T", e))
}

func (b *binder) bindPair(l, r ast.Expr) (planner.Expr, planner.Expr, error) {
	left, err := b.bind(l)
	if err != nil {
		return nil, nil, err
	}
	right, err := b.bind(r)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// constant folds an integer expression that may not reference any column.
func constant(e ast.Expr) (common.Value, bool, error) {
	b := &binder{scope: newScope(nil)}
	expr, err := b.bind(e)
	if err != nil {
		return common.Value{}, false, err
	}
	v, ok := planner.Fold(expr)
	return v, ok, nil
}

func typeMismatch(e ast.Expr, left, right planner.Expr) error {
	return common.NewPlanError(common.InvalidStatementError, e.String(),
		"operand types %s and %s do not match in '%s'", left.OutputType(), right.OutputType(), e)
}

func comparisonType(op ast.ComparisonOp) planner.ComparisonType {
	switch op {
	case ast.NotEqualOp:
		return planner.NotEqual
	case ast.LessThanOp:
		return planner.LessThan
	case ast.LessEqualOp:
		return planner.LessThanOrEqual
	case ast.GreaterThanOp:
		return planner.GreaterThan
	case ast.GreaterEqualOp:
		return planner.GreaterThanOrEqual
	}
	return planner.Equal
}

func arithmeticType(op ast.ArithmeticOp) planner.ArithmeticType {
	switch op {
	case ast.MinusOp:
		return planner.Sub
	case ast.MultOp:
		return planner.Mult
	case ast.DivOp:
		return planner.Div
	case ast.ModOp:
		return planner.Mod
	}
	return planner.Add
}

// aggregateType maps an aggregate function name; ok is false for any other function.
func aggregateType(f *ast.FuncExpr) (planner.AggregatorType, bool) {
	switch f.Name.Key() {
	case "count":
		return planner.AggCount, true
	case "sum":
		return planner.AggSum, true
	case "min":
		return planner.AggMin, true
	case "max":
		return planner.AggMax, true
	}
	return 0, false
}
