package builder

import (
	"mit.edu/dsg/sqlplan/ast"
	"mit.edu/dsg/sqlplan/common"
	"mit.edu/dsg/sqlplan/logging"
	"mit.edu/dsg/sqlplan/planner"
)

// selectStage names the operators a SELECT block may end with.
type selectStage int

const (
	projectStage selectStage = iota
	distinctStage
	sortStage
	limitStage
)

// projection is the select list of a block after binding.
type projection struct {
	exprs []planner.Expr
	names []planner.ColumnName
	// byText maps the canonical text of each select-list expression to its
	// output column; byAlias does the same for AS names.
	byText  map[string]int
	byAlias map[string]int
}

// convertSelect converts one SELECT block. The operators are stacked in SQL
// evaluation order: FROM, WHERE, GROUP BY and aggregates, HAVING, the select
// list, DISTINCT, ORDER BY, LIMIT. The block's hints go to the last of them.
func (c *conversion) convertSelect(s *ast.Select, topLevel bool) (planner.PlanNode, []planner.SortKey, error) {
	node, in, err := c.convertFrom(s.From)
	if err != nil {
		return nil, nil, err
	}

	orderBy := s.OrderBy
	if !topLevel && s.Limit == nil && len(orderBy) > 0 {
		logging.Debug().Str("query", s.String()).Msg("dropping ORDER BY without LIMIT in subquery")
		orderBy = nil
	}

	top := projectStage
	switch {
	case s.Limit != nil:
		top = limitStage
	case len(orderBy) > 0:
		top = sortStage
	case s.Distinct:
		top = distinctStage
	}
	hints := c.hints.Resolve(s.Hints)
	traitsAt := func(stage selectStage) planner.Traits {
		if stage == top {
			return c.traits(hints)
		}
		return c.traits(nil)
	}

	b := &binder{scope: in}
	if s.Where != nil {
		predicate, err := b.bind(s.Where)
		if err != nil {
			return nil, nil, err
		}
		node = planner.NewFilterNode(c.traits(nil), node, predicate)
	}

	if calls := collectAggregates(s); len(s.GroupBy) > 0 || len(calls) > 0 || s.Having != nil {
		var agg *planner.AggregateNode
		agg, b, err = c.aggregate(node, in, s.GroupBy, calls)
		if err != nil {
			return nil, nil, err
		}
		node = agg
	}

	if s.Having != nil {
		predicate, err := b.bind(s.Having)
		if err != nil {
			return nil, nil, err
		}
		node = planner.NewFilterNode(c.traits(nil), node, predicate)
	}

	proj, err := project(b, s.Exprs)
	if err != nil {
		return nil, nil, err
	}
	node = planner.NewProjectionNode(traitsAt(projectStage), node, proj.exprs, proj.names)

	if s.Distinct {
		node = distinct(traitsAt(distinctStage), node)
	}

	var sort *planner.SortNode
	if len(orderBy) > 0 {
		clauses, err := orderByClauses(orderBy, proj, newScope(node.OutputSchema()))
		if err != nil {
			return nil, nil, err
		}
		sort = planner.NewSortNode(traitsAt(sortStage), node, clauses)
		node = sort
	}

	if s.Limit != nil {
		limit, offset, err := limitValues(s.Limit)
		if err != nil {
			return nil, nil, err
		}
		node = planner.NewLimitNode(traitsAt(limitStage), node, limit, offset)
	}

	var collation []planner.SortKey
	if topLevel && sort != nil {
		collation = sort.Collation()
	}
	return node, collation, nil
}

// aggregate places an AggregateNode computing groupBy and calls over child and
// returns the binder for the expressions evaluated after it.
func (c *conversion) aggregate(child planner.PlanNode, in *scope, groupBy []ast.Expr, calls []*ast.FuncExpr) (*planner.AggregateNode, *binder, error) {
	b := &binder{scope: in}
	computed := make(map[string]int)
	names := make([]planner.ColumnName, 0, len(groupBy)+len(calls))

	groups := make([]planner.Expr, len(groupBy))
	for i, g := range groupBy {
		expr, err := b.bind(g)
		if err != nil {
			return nil, nil, err
		}
		groups[i] = expr
		if col, ok := expr.(*planner.BoundValueExpr); ok {
			f := in.fields[col.FieldOffset()]
			names = append(names, planner.ColumnName{Qualifier: f.Qualifier, Name: f.Name})
			continue
		}
		computed[g.String()] = i
		names = append(names, planner.ColumnName{Name: g.String()})
	}

	aggs := make([]planner.AggregateClause, len(calls))
	for i, call := range calls {
		typ, _ := aggregateType(call)
		aggs[i] = planner.AggregateClause{Type: typ}
		switch {
		case call.Star:
			if typ != planner.AggCount {
				return nil, nil, common.NewPlanError(common.InvalidStatementError, call.String(),
					"%s(*) is not allowed, only count(*)", typ)
			}
		case call.Arg == nil:
			return nil, nil, common.NewPlanError(common.InvalidStatementError, call.String(),
				"%s requires an argument", typ)
		default:
			arg, err := b.bind(call.Arg)
			if err != nil {
				return nil, nil, err
			}
			if typ == planner.AggSum && arg.OutputType() != common.IntType {
				return nil, nil, common.NewPlanError(common.InvalidStatementError, call.String(),
					"sum is not defined for %s", arg.OutputType())
			}
			aggs[i].Expr = arg
		}
		computed[call.String()] = len(groupBy) + i
		names = append(names, planner.ColumnName{Name: call.String()})
	}

	node := planner.NewAggregateNode(c.traits(nil), child, groups, aggs, names)
	return node, &binder{scope: newScope(node.OutputSchema()), computed: computed}, nil
}

// collectAggregates returns the distinct aggregate calls of a block in the
// order they appear in the select list and HAVING. ORDER BY is bound over the
// select list, so its aggregates must repeat one from there.
func collectAggregates(s *ast.Select) []*ast.FuncExpr {
	var calls []*ast.FuncExpr
	seen := make(map[string]bool)
	visit := func(e ast.Expr) {
		walkExpr(e, func(e ast.Expr) bool {
			f, ok := e.(*ast.FuncExpr)
			if !ok {
				return true
			}
			if _, agg := aggregateType(f); agg && !seen[f.String()] {
				seen[f.String()] = true
				calls = append(calls, f)
			}
			return false
		})
	}
	for _, se := range s.Exprs {
		if ae, ok := se.(*ast.AliasedExpr); ok {
			visit(ae.Expr)
		}
	}
	if s.Having != nil {
		visit(s.Having)
	}
	return calls
}

// walkExpr calls fn on e and, while fn returns true, on its operands.
func walkExpr(e ast.Expr, fn func(ast.Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch e := e.(type) {
	case *ast.ComparisonExpr:
		walkExpr(e.Left, fn)
		walkExpr(e.Right, fn)
	case *ast.LogicalExpr:
		walkExpr(e.Left, fn)
		walkExpr(e.Right, fn)
	case *ast.BinaryExpr:
		walkExpr(e.Left, fn)
		walkExpr(e.Right, fn)
	case *ast.NotExpr:
		walkExpr(e.Expr, fn)
	case *ast.IsNullExpr:
		walkExpr(e.Expr, fn)
	case *ast.LikeExpr:
		walkExpr(e.Expr, fn)
		walkExpr(e.Pattern, fn)
	case *ast.FuncExpr:
		walkExpr(e.Arg, fn)
	}
}

func project(b *binder, list []ast.SelectExpr) (*projection, error) {
	p := &projection{byText: make(map[string]int), byAlias: make(map[string]int)}
	for _, se := range list {
		switch se := se.(type) {
		case *ast.StarExpr:
			offsets, err := b.scope.star(se.Table)
			if err != nil {
				return nil, err
			}
			for _, off := range offsets {
				f := b.scope.fields[off]
				p.exprs = append(p.exprs, b.scope.column(off))
				p.names = append(p.names, planner.ColumnName{Qualifier: f.Qualifier, Name: f.Name})
			}

		case *ast.AliasedExpr:
			expr, err := b.bind(se.Expr)
			if err != nil {
				return nil, err
			}
			name := planner.ColumnName{Name: se.Expr.String()}
			if col, ok := expr.(*planner.BoundValueExpr); ok {
				f := b.scope.fields[col.FieldOffset()]
				name = planner.ColumnName{Qualifier: f.Qualifier, Name: f.Name}
			}
			if !se.As.IsEmpty() {
				name = planner.ColumnName{Name: se.As.String()}
				p.byAlias[se.As.Key()] = len(p.exprs)
			}
			p.byText[se.Expr.String()] = len(p.exprs)
			p.exprs = append(p.exprs, expr)
			p.names = append(p.names, name)
		}
	}
	return p, nil
}

// orderByClauses binds ORDER BY items over the output of the select list.
// An item may be a 1-based output position, an output alias, a repeat of a
// select-list expression, or an expression over the output columns.
func orderByClauses(items []*ast.OrderItem, proj *projection, out *scope) ([]planner.OrderByClause, error) {
	b := &binder{scope: out}
	clauses := make([]planner.OrderByClause, len(items))
	for i, item := range items {
		direction := planner.SortOrderAscending
		if item.Desc {
			direction = planner.SortOrderDescending
		}
		clauses[i].Direction = direction

		if offset, ok, err := outputColumn(item.Expr, proj, len(out.fields)); err != nil {
			return nil, err
		} else if ok {
			clauses[i].Expr = out.column(offset)
			continue
		}

		expr, err := b.bind(item.Expr)
		if err != nil {
			return nil, err
		}
		clauses[i].Expr = expr
	}
	return clauses, nil
}

func outputColumn(e ast.Expr, proj *projection, width int) (int, bool, error) {
	switch e := e.(type) {
	case *ast.Literal:
		if e.Value.Type() != common.IntType || e.Value.IsNull() {
			return 0, false, nil
		}
		pos := e.Value.IntValue()
		if pos < 1 || pos > int64(width) {
			return 0, false, common.NewPlanError(common.InvalidStatementError, e.String(),
				"ORDER BY position %d is not in select list", pos)
		}
		return int(pos - 1), true, nil
	case *ast.ColName:
		if e.Qualifier.IsEmpty() {
			if offset, ok := proj.byAlias[e.Name.Key()]; ok {
				return offset, true, nil
			}
		}
	}
	if offset, ok := proj.byText[e.String()]; ok {
		return offset, true, nil
	}
	return 0, false, nil
}

func limitValues(l *ast.Limit) (limit, offset int64, err error) {
	limit = planner.NoLimit
	if l.Count != nil {
		if limit, err = nonNegative("LIMIT", l.Count); err != nil {
			return 0, 0, err
		}
	}
	if l.Offset != nil {
		if offset, err = nonNegative("OFFSET", l.Offset); err != nil {
			return 0, 0, err
		}
	}
	return limit, offset, nil
}

func nonNegative(clause string, e ast.Expr) (int64, error) {
	v, ok, err := constant(e)
	if err != nil {
		return 0, err
	}
	if !ok || v.IsNull() || v.IntValue() < 0 {
		return 0, common.NewPlanError(common.InvalidStatementError, e.String(),
			"%s must be a non-negative integer, got %s", clause, e)
	}
	return v.IntValue(), nil
}
