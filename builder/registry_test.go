package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/sqlplan/ast"
	"mit.edu/dsg/sqlplan/common"
	"mit.edu/dsg/sqlplan/planner"
)

func testProducer(r *Registry, name string, ordinal int) *planner.CTEProducer {
	fields := []planner.Field{{Qualifier: name, Name: "v", Type: common.IntType}}
	root := planner.NewValuesNode(planner.Traits{}, fields, nil)
	return planner.NewCTEProducer(r.NextID(), name, ordinal, root, fields, nil)
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.PushScope([]ast.Identifier{"a", "b"})

	a := testProducer(r, "a", 0)
	require.NoError(t, r.Register("a", a))

	got, err := r.Lookup("A")
	require.NoError(t, err)
	assert.Same(t, a, got)

	// b is declared but not registered yet
	assert.True(t, r.Declared("b"))
	_, err = r.Lookup("b")
	assert.True(t, common.IsErrorCode(err, common.LookupFailureError))

	_, err = r.Lookup("c")
	code, ok := common.ErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, common.LookupFailureError, code)
	assert.False(t, r.Declared("c"))

	b := testProducer(r, "b", 1)
	require.NoError(t, r.Register("b", b))
	assert.Equal(t, []*planner.CTEProducer{a, b}, r.Producers())
	assert.Equal(t, planner.CTEID(1), b.ID)
}

func TestRegistryRejectsDuplicateInSameClause(t *testing.T) {
	r := NewRegistry()
	r.PushScope([]ast.Identifier{"t", "T"})
	require.NoError(t, r.Register("t", testProducer(r, "t", 0)))

	err := r.Register("T", testProducer(r, "T", 1))
	require.Error(t, err)
	assert.True(t, common.IsErrorCode(err, common.DuplicateDeclarationError))

	var planErr common.PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, "T", planErr.Identifier)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryNestedScopes(t *testing.T) {
	r := NewRegistry()
	r.PushScope([]ast.Identifier{"t"})
	outer := testProducer(r, "t", 0)
	require.NoError(t, r.Register("t", outer))

	r.PushScope([]ast.Identifier{"t", "u"})

	// the inner t is not registered yet, so the outer one is visible
	got, err := r.Lookup("t")
	require.NoError(t, err)
	assert.Same(t, outer, got)

	inner := testProducer(r, "t", 0)
	require.NoError(t, r.Register("t", inner), "a nested clause may reuse an outer name")
	got, err = r.Lookup("t")
	require.NoError(t, err)
	assert.Same(t, inner, got)

	r.PopScope()
	got, err = r.Lookup("t")
	require.NoError(t, err)
	assert.Same(t, outer, got)
	assert.False(t, r.Declared("u"))

	// popped producers still belong to the statement
	assert.Equal(t, []*planner.CTEProducer{outer, inner}, r.Producers())

	r.PopScope()
	assert.Panics(t, func() { r.PopScope() })
}
