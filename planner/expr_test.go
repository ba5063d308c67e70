package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"mit.edu/dsg/sqlplan/common"
)

// Schema: [x.id(int), x.name(string), x.age(int)]
func makeExprTestSchema() []Field {
	return []Field{
		{Qualifier: "x", Name: "id", Type: common.IntType},
		{Qualifier: "x", Name: "name", Type: common.StringType},
		{Qualifier: "x", Name: "age", Type: common.IntType},
	}
}

func TestColumnAndConstantExpressions(t *testing.T) {
	schema := makeExprTestSchema()

	name := NewColumnValueExpression(1, schema, "x.name")
	assert.Equal(t, common.StringType, name.OutputType())
	assert.Equal(t, 1, name.FieldOffset())
	assert.Equal(t, "x.name", name.String())

	quoted := NewConstantValueExpression(common.NewStringValue("o'brien"))
	assert.Equal(t, "'o''brien'", quoted.String())
	assert.Equal(t, common.StringType, quoted.OutputType())

	assert.Panics(t, func() { NewColumnValueExpression(3, schema, "x.missing") })
}

func TestExpressionStrings(t *testing.T) {
	schema := makeExprTestSchema()
	id := NewColumnValueExpression(0, schema, "x.id")
	name := NewColumnValueExpression(1, schema, "x.name")
	age := NewColumnValueExpression(2, schema, "x.age")
	one := NewConstantValueExpression(common.NewIntValue(1))
	pattern := NewConstantValueExpression(common.NewStringValue("al%"))

	tests := []struct {
		expr     Expr
		expected string
		typ      common.Type
	}{
		{NewComparisonExpression(id, one, GreaterThanOrEqual), "(x.id >= 1)", common.IntType},
		{NewBinaryLogicExpression(NewComparisonExpression(id, one, Equal), NewNullCheckExpression(age, IsNull), Or), "((x.id = 1) OR (x.age IS NULL))", common.IntType},
		{NewNegationExpression(NewComparisonExpression(id, one, Equal)), "!((x.id = 1))", common.IntType},
		{NewStringConcatenation(name, pattern), "(x.name || 'al%')", common.StringType},
		{NewLikeExpression(name, pattern), "(x.name LIKE 'al%')", common.IntType},
		{NewArithmeticExpression(id, age, Mod), "(x.id % x.age)", common.IntType},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.expr.String())
			assert.Equal(t, tt.typ, tt.expr.OutputType())
		})
	}
}

// Fold is how the builder evaluates LIMIT and OFFSET.
func TestFold(t *testing.T) {
	schema := makeExprTestSchema()
	ten := NewConstantValueExpression(common.NewIntValue(10))
	two := NewConstantValueExpression(common.NewIntValue(2))
	zero := NewConstantValueExpression(common.NewIntValue(0))

	v, ok := Fold(NewArithmeticExpression(ten, NewArithmeticExpression(two, two, Mult), Add))
	assert.True(t, ok)
	assert.Equal(t, int64(14), v.IntValue())

	v, ok = Fold(NewArithmeticExpression(ten, two, Div))
	assert.True(t, ok)
	assert.Equal(t, int64(5), v.IntValue())

	v, ok = Fold(NewArithmeticExpression(ten, zero, Mod))
	assert.True(t, ok)
	assert.True(t, v.IsNull())

	notFoldable := []Expr{
		NewColumnValueExpression(0, schema, "x.id"),
		NewArithmeticExpression(ten, NewColumnValueExpression(2, schema, "x.age"), Sub),
		NewComparisonExpression(ten, two, Equal),
		NewConstantValueExpression(common.NewStringValue("10")),
	}
	for _, e := range notFoldable {
		_, ok := Fold(e)
		assert.False(t, ok, e.String())
	}
}
