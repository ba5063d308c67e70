// Package builder converts parsed SQL statements into plan graphs.
//
// WITH items become CTE producers that are built once and shared by every
// reference to them in the statement. Ordinary table names are resolved
// through a pluggable TableResolver, normally a CatalogResolver.
package builder

import (
	"fmt"

	"mit.edu/dsg/sqlplan/ast"
	"mit.edu/dsg/sqlplan/common"
	"mit.edu/dsg/sqlplan/logging"
	"mit.edu/dsg/sqlplan/planner"
)

// Builder holds the configuration shared by conversions. It is immutable, so
// one Builder may convert statements for concurrent callers.
type Builder struct {
	tables     TableResolver
	convention planner.Convention
	hints      HintTable
}

type Option func(*Builder)

// WithConvention sets the convention assigned to every node built. The
// default is planner.Logical.
func WithConvention(c planner.Convention) Option {
	return func(b *Builder) {
		b.convention = c
	}
}

// WithHintTable replaces DefaultHintTable.
func WithHintTable(t HintTable) Option {
	return func(b *Builder) {
		b.hints = t
	}
}

func New(tables TableResolver, opts ...Option) *Builder {
	b := &Builder{
		tables:     tables,
		convention: planner.Logical,
		hints:      DefaultHintTable(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Convert builds the plan of stmt. Each call uses its own Registry; nothing
// is shared with other calls except the Builder's configuration.
func (b *Builder) Convert(stmt ast.Query) (*planner.Plan, error) {
	c := &conversion{Builder: b, registry: NewRegistry()}
	root, collation, err := c.convertQuery(stmt, true)
	if err != nil {
		return nil, err
	}
	logging.Debug().
		Int("producers", c.registry.Len()).
		Stringer("root", root.Kind()).
		Msg("converted statement")
	return planner.NewPlan(root, collation, c.registry.Producers()), nil
}

// conversion is the state of one Convert call.
type conversion struct {
	*Builder
	registry *Registry
}

func (c *conversion) traits(hints []planner.Hint) planner.Traits {
	return planner.Traits{Convention: c.convention, Hints: hints}
}

// convertQuery converts any query. Only a top-level query reports the
// collation of its ORDER BY.
func (c *conversion) convertQuery(q ast.Query, topLevel bool) (planner.PlanNode, []planner.SortKey, error) {
	switch q := q.(type) {
	case *ast.Select:
		return c.convertSelect(q, topLevel)
	case *ast.Union:
		root, err := c.convertUnion(q)
		return root, nil, err
	case *ast.With:
		return c.convertWith(q, topLevel)
	}
	panic(fmt.Sprintf("unexpected query %T", q))
}

// convertWith registers a producer for every item of w, in order, and then
// converts the body with the items in scope.
func (c *conversion) convertWith(w *ast.With, topLevel bool) (planner.PlanNode, []planner.SortKey, error) {
	if w.Recursive {
		return nil, nil, common.NewPlanError(common.UnsupportedFeatureError, "",
			"WITH RECURSIVE is not supported")
	}

	names := make([]ast.Identifier, len(w.Items))
	for i, item := range w.Items {
		names[i] = item.Name
	}
	c.registry.PushScope(names)
	defer c.registry.PopScope()

	for ordinal, item := range w.Items {
		root, _, err := c.convertQuery(item.Query, false)
		if err != nil {
			return nil, nil, err
		}

		fields, err := withItemFields(item, root.OutputSchema())
		if err != nil {
			return nil, nil, err
		}

		attributes := planner.ClassifyHints(root.Hints(), planner.CTEAttributeHint)
		producer := planner.NewCTEProducer(c.registry.NextID(), item.Name.String(), ordinal, root, fields, attributes)
		if err := c.registry.Register(item.Name, producer); err != nil {
			return nil, nil, err
		}
		logging.Debug().
			Str("cte", producer.Name).
			Stringer("id", producer.ID).
			Int("ordinal", ordinal).
			Int("attributes", len(attributes)).
			Msg("registered CTE producer")
	}

	return c.convertQuery(w.Body, topLevel)
}

// withItemFields names the output of a WITH item's query, applying the
// item's column list when it has one.
func withItemFields(item *ast.WithItem, output []planner.Field) ([]planner.Field, error) {
	fields := planner.Requalify(output, item.Name.String())
	if len(item.Columns) == 0 {
		return fields, nil
	}
	if len(item.Columns) != len(fields) {
		return nil, common.NewPlanError(common.InvalidStatementError, item.Name.String(),
			"WITH query '%s' has %d columns available but %d columns specified", item.Name, len(fields), len(item.Columns))
	}
	for i, col := range item.Columns {
		fields[i].Name = col.String()
	}
	return fields, nil
}

func (c *conversion) convertUnion(u *ast.Union) (planner.PlanNode, error) {
	left, _, err := c.convertQuery(u.Left, false)
	if err != nil {
		return nil, err
	}
	right, _, err := c.convertQuery(u.Right, false)
	if err != nil {
		return nil, err
	}

	lf, rf := left.OutputSchema(), right.OutputSchema()
	if len(lf) != len(rf) {
		return nil, common.NewPlanError(common.InvalidStatementError, "",
			"each UNION query must have the same number of columns (%d and %d)", len(lf), len(rf))
	}
	for i := range lf {
		if lf[i].Type != rf[i].Type {
			return nil, common.NewPlanError(common.InvalidStatementError, lf[i].Name,
				"UNION types %s and %s cannot be matched for column %d", lf[i].Type, rf[i].Type, i+1)
		}
	}

	var root planner.PlanNode = planner.NewUnionNode(c.traits(nil), left, right)
	if !u.All {
		root = distinct(c.traits(nil), root)
	}
	return root, nil
}

// distinct removes duplicate rows by grouping on every column of child.
func distinct(traits planner.Traits, child planner.PlanNode) *planner.AggregateNode {
	fields := child.OutputSchema()
	s := newScope(fields)
	groupBy := make([]planner.Expr, len(fields))
	names := make([]planner.ColumnName, len(fields))
	for i, f := range fields {
		groupBy[i] = s.column(i)
		names[i] = planner.ColumnName{Qualifier: f.Qualifier, Name: f.Name}
	}
	return planner.NewAggregateNode(traits, child, groupBy, nil, names)
}

// convertFrom converts a FROM clause. A list of table expressions is a left
// deep chain of cross joins.
func (c *conversion) convertFrom(from []ast.TableExpr) (planner.PlanNode, *scope, error) {
	if len(from) == 0 {
		// SELECT without FROM reads a single empty row.
		return planner.NewValuesNode(c.traits(nil), nil, []planner.Row{{}}), newScope(nil), nil
	}

	node, s, err := c.convertTableExpr(from[0])
	if err != nil {
		return nil, nil, err
	}
	for _, te := range from[1:] {
		right, rs, err := c.convertTableExpr(te)
		if err != nil {
			return nil, nil, err
		}
		node = planner.NewJoinNode(c.traits(nil), node, right, planner.CrossJoin, nil)
		s = s.join(rs)
	}
	return node, s, nil
}

func (c *conversion) convertTableExpr(te ast.TableExpr) (planner.PlanNode, *scope, error) {
	switch te := te.(type) {
	case *ast.TableName:
		node, err := c.resolveTable(te)
		if err != nil {
			return nil, nil, err
		}
		return node, newScope(node.OutputSchema()), nil

	case *ast.DerivedTable:
		if te.As.IsEmpty() {
			return nil, nil, common.NewPlanError(common.InvalidStatementError, "",
				"subquery in FROM must have an alias")
		}
		node, _, err := c.convertQuery(te.Query, false)
		if err != nil {
			return nil, nil, err
		}
		return node, newScope(planner.Requalify(node.OutputSchema(), te.As.String())), nil

	case *ast.JoinTableExpr:
		return c.convertJoin(te)
	}
	panic(fmt.Sprintf("unexpected table expression %T", te))
}

func (c *conversion) convertJoin(j *ast.JoinTableExpr) (planner.PlanNode, *scope, error) {
	left, ls, err := c.convertTableExpr(j.Left)
	if err != nil {
		return nil, nil, err
	}
	right, rs, err := c.convertTableExpr(j.Right)
	if err != nil {
		return nil, nil, err
	}
	s := ls.join(rs)

	joinType := planner.InnerJoin
	switch j.Kind {
	case ast.LeftJoin:
		joinType = planner.LeftOuterJoin
	case ast.RightJoin:
		joinType = planner.RightOuterJoin
	case ast.CrossJoin:
		joinType = planner.CrossJoin
	}

	var predicate planner.Expr
	if j.On != nil {
		if joinType == planner.CrossJoin {
			return nil, nil, common.NewPlanError(common.InvalidStatementError, "",
				"CROSS JOIN cannot have an ON condition")
		}
		b := &binder{scope: s}
		if predicate, err = b.bind(j.On); err != nil {
			return nil, nil, err
		}
	} else if joinType == planner.InnerJoin {
		joinType = planner.CrossJoin
	} else {
		return nil, nil, common.NewPlanError(common.InvalidStatementError, "",
			"%s requires an ON condition", j.Kind)
	}

	return planner.NewJoinNode(c.traits(nil), left, right, joinType, predicate), s, nil
}

// resolveTable turns a table name into a leaf node: a consumer when a WITH
// clause in scope declares the name, otherwise whatever the configured
// resolver produces.
func (c *conversion) resolveTable(t *ast.TableName) (planner.PlanNode, error) {
	ref := TableRef{
		Name:   t.Name,
		Alias:  t.RefName(),
		Traits: c.traits(c.hints.Resolve(t.Hints)),
	}
	for _, r := range []TableResolver{cteResolver{registry: c.registry}, c.tables} {
		if r == nil {
			continue
		}
		node, ok, err := r.ResolveTable(ref)
		if err != nil {
			return nil, err
		}
		if ok {
			return node, nil
		}
	}
	return nil, common.NewPlanError(common.LookupFailureError, t.Name.String(),
		"relation '%s' does not exist", t.Name)
}
