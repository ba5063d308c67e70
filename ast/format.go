package ast

import (
	"strings"
)

func (h Hint) String() string {
	if len(h.Params) == 0 {
		return h.Name.String()
	}
	params := make([]string, len(h.Params))
	for i, p := range h.Params {
		if p.Key == "" {
			params[i] = hintWord(p.Value)
		} else {
			params[i] = hintWord(p.Key) + "=" + hintWord(p.Value)
		}
	}
	return h.Name.String() + "(" + strings.Join(params, ", ") + ")"
}

// hintWord prints a hint argument, single-quoting it when it is empty or holds
// a character that separates arguments.
func hintWord(s string) string {
	if s != "" && !strings.ContainsAny(s, ",=()' \t\n*/") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatHints(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = h.String()
	}
	return "/*+ " + strings.Join(parts, " ") + " */"
}

func (w *With) String() string {
	var b strings.Builder
	b.WriteString("with ")
	if w.Recursive {
		b.WriteString("recursive ")
	}
	for i, item := range w.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteString(" ")
	b.WriteString(w.Body.String())
	return b.String()
}

func (item *WithItem) String() string {
	var b strings.Builder
	b.WriteString(item.Name.String())
	if len(item.Columns) > 0 {
		cols := make([]string, len(item.Columns))
		for i, c := range item.Columns {
			cols[i] = c.String()
		}
		b.WriteString("(" + strings.Join(cols, ", ") + ")")
	}
	b.WriteString(" as (")
	b.WriteString(item.Query.String())
	b.WriteString(")")
	return b.String()
}

func (s *Select) String() string {
	var b strings.Builder
	b.WriteString("select ")
	if len(s.Hints) > 0 {
		b.WriteString(formatHints(s.Hints))
		b.WriteString(" ")
	}
	if s.Distinct {
		b.WriteString("distinct ")
	}
	exprs := make([]string, len(s.Exprs))
	for i, e := range s.Exprs {
		exprs[i] = e.String()
	}
	b.WriteString(strings.Join(exprs, ", "))
	if len(s.From) > 0 {
		from := make([]string, len(s.From))
		for i, f := range s.From {
			from[i] = f.String()
		}
		b.WriteString(" from ")
		b.WriteString(strings.Join(from, ", "))
	}
	if s.Where != nil {
		b.WriteString(" where ")
		b.WriteString(s.Where.String())
	}
	if len(s.GroupBy) > 0 {
		b.WriteString(" group by ")
		b.WriteString(joinExprs(s.GroupBy))
	}
	if s.Having != nil {
		b.WriteString(" having ")
		b.WriteString(s.Having.String())
	}
	if len(s.OrderBy) > 0 {
		items := make([]string, len(s.OrderBy))
		for i, o := range s.OrderBy {
			items[i] = o.String()
		}
		b.WriteString(" order by ")
		b.WriteString(strings.Join(items, ", "))
	}
	if s.Limit != nil {
		b.WriteString(" ")
		b.WriteString(s.Limit.String())
	}
	return b.String()
}

func (u *Union) String() string {
	op := " union "
	if u.All {
		op = " union all "
	}
	return "(" + u.Left.String() + ")" + op + "(" + u.Right.String() + ")"
}

func (s *StarExpr) String() string {
	if s.Table.IsEmpty() {
		return "*"
	}
	return s.Table.String() + ".*"
}

func (a *AliasedExpr) String() string {
	if a.As.IsEmpty() {
		return a.Expr.String()
	}
	return a.Expr.String() + " as " + a.As.String()
}

func (t *TableName) String() string {
	var b strings.Builder
	b.WriteString(t.Name.String())
	if !t.As.IsEmpty() {
		b.WriteString(" as ")
		b.WriteString(t.As.String())
	}
	if len(t.Hints) > 0 {
		b.WriteString(" ")
		b.WriteString(formatHints(t.Hints))
	}
	return b.String()
}

func (d *DerivedTable) String() string {
	return "(" + d.Query.String() + ") as " + d.As.String()
}

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "join"
	case LeftJoin:
		return "left join"
	case RightJoin:
		return "right join"
	case CrossJoin:
		return "cross join"
	}
	return "???"
}

func (j *JoinTableExpr) String() string {
	s := j.Left.String() + " " + j.Kind.String() + " " + j.Right.String()
	if j.On != nil {
		s += " on " + j.On.String()
	}
	return s
}

func (c *ColName) String() string {
	if c.Qualifier.IsEmpty() {
		return c.Name.String()
	}
	return c.Qualifier.String() + "." + c.Name.String()
}

func (l *Literal) String() string {
	return l.Value.String()
}

func (op ComparisonOp) String() string {
	switch op {
	case EqualOp:
		return "="
	case NotEqualOp:
		return "!="
	case LessThanOp:
		return "<"
	case LessEqualOp:
		return "<="
	case GreaterThanOp:
		return ">"
	case GreaterEqualOp:
		return ">="
	}
	return "???"
}

func (c *ComparisonExpr) String() string {
	return "(" + c.Left.String() + " " + c.Op.String() + " " + c.Right.String() + ")"
}

func (op LogicalOp) String() string {
	if op == AndOp {
		return "and"
	}
	return "or"
}

func (l *LogicalExpr) String() string {
	return "(" + l.Left.String() + " " + l.Op.String() + " " + l.Right.String() + ")"
}

func (n *NotExpr) String() string {
	return "not " + n.Expr.String()
}

func (n *IsNullExpr) String() string {
	if n.Not {
		return "(" + n.Expr.String() + " is not null)"
	}
	return "(" + n.Expr.String() + " is null)"
}

func (op ArithmeticOp) String() string {
	switch op {
	case PlusOp:
		return "+"
	case MinusOp:
		return "-"
	case MultOp:
		return "*"
	case DivOp:
		return "/"
	case ModOp:
		return "%"
	case ConcatOp:
		return "||"
	}
	return "?"
}

func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

func (l *LikeExpr) String() string {
	return "(" + l.Expr.String() + " like " + l.Pattern.String() + ")"
}

func (f *FuncExpr) String() string {
	name := strings.ToLower(f.Name.String())
	if f.Star {
		return name + "(*)"
	}
	if f.Arg == nil {
		return name + "()"
	}
	return name + "(" + f.Arg.String() + ")"
}

func (o *OrderItem) String() string {
	if o.Desc {
		return o.Expr.String() + " desc"
	}
	return o.Expr.String() + " asc"
}

func (l *Limit) String() string {
	s := "limit all"
	if l.Count != nil {
		s = "limit " + l.Count.String()
	}
	if l.Offset != nil {
		s += " offset " + l.Offset.String()
	}
	return s
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
