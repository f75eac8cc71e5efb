package repositories

import (
	"fmt"
	"strings"

	"communityBack/internal/models"
)

type Op int

const (
	OpMatchAny Op = iota + 1 // substring match against any of Columns
	OpEq
	OpMatch
	OpGte
	OpLte
	OpOverlap
)

func (o Op) String() string {
	switch o {
	case OpMatchAny:
		return "match_any"
	case OpEq:
		return "eq"
	case OpMatch:
		return "match"
	case OpGte:
		return "gte"
	case OpLte:
		return "lte"
	case OpOverlap:
		return "overlap"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

type Predicate struct {
	Op      Op
	Columns []string
	Value   any
}

// Composer turns a FilterState into predicates for one listing schema.
type Composer struct {
	Schema Schema
}

// Compose emits at most one predicate per slot, always in the order
// search, category, price-min, price-max, secondary, tags. Absent keys,
// default values and unknown keys produce nothing.
func (c Composer) Compose(state models.FilterState) []Predicate {
	var preds []Predicate
	s := c.Schema

	if term, ok := state.Text(models.FilterSearch); ok {
		preds = append(preds, Predicate{Op: OpMatchAny, Columns: s.SearchColumns, Value: term})
	}

	if category, ok := state.Text(models.FilterCategory); ok && !strings.EqualFold(category, "all") {
		preds = append(preds, Predicate{Op: OpEq, Columns: []string{s.CategoryColumn}, Value: category})
	}

	price := state.Price()
	if price.Min > 0 {
		preds = append(preds, Predicate{Op: OpGte, Columns: []string{s.PriceColumn}, Value: price.Min})
	}
	if price.Max > 0 {
		preds = append(preds, Predicate{Op: OpLte, Columns: []string{s.PriceColumn}, Value: price.Max})
	}

	if p, ok := c.secondary(state); ok {
		preds = append(preds, p)
	}

	if tags := state.Strings(s.TagsKey); len(tags) > 0 {
		preds = append(preds, Predicate{Op: OpOverlap, Columns: []string{s.TagsColumn}, Value: tags})
	}

	return preds
}

func (c Composer) secondary(state models.FilterState) (Predicate, bool) {
	sec := c.Schema.Secondary
	if sec.Key == "" {
		return Predicate{}, false
	}
	switch sec.Op {
	case OpGte, OpLte:
		n, ok := state.Number(sec.Key)
		if !ok || n <= 0 {
			return Predicate{}, false
		}
		return Predicate{Op: sec.Op, Columns: []string{sec.Column}, Value: n}, true
	default:
		v, ok := state.Text(sec.Key)
		if !ok {
			return Predicate{}, false
		}
		return Predicate{Op: sec.Op, Columns: []string{sec.Column}, Value: v}, true
	}
}

// queryBuilder accumulates WHERE fragments and numbered arguments.
type queryBuilder struct {
	dialect    Dialect
	conditions []string
	args       []any
}

func (b *queryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

func (b *queryBuilder) add(p Predicate) error {
	switch p.Op {
	case OpMatchAny, OpMatch:
		term, _ := p.Value.(string)
		pattern := "%" + escapeLike(term) + "%"
		var parts []string
		for _, col := range p.Columns {
			parts = append(parts, fmt.Sprintf("%s %s %s%s", col, b.dialect.MatchOperator(), b.bind(pattern), b.dialect.EscapeClause()))
		}
		if len(parts) == 1 {
			b.conditions = append(b.conditions, parts[0])
		} else {
			b.conditions = append(b.conditions, "("+strings.Join(parts, " OR ")+")")
		}
	case OpEq:
		b.conditions = append(b.conditions, fmt.Sprintf("%s = %s", p.Columns[0], b.bind(p.Value)))
	case OpGte:
		b.conditions = append(b.conditions, fmt.Sprintf("%s >= %s", p.Columns[0], b.bind(p.Value)))
	case OpLte:
		b.conditions = append(b.conditions, fmt.Sprintf("%s <= %s", p.Columns[0], b.bind(p.Value)))
	case OpOverlap:
		values, _ := p.Value.([]string)
		n := len(b.args)
		frag, args := b.dialect.Overlap(p.Columns[0], values, func() string {
			n++
			return b.dialect.Placeholder(n)
		})
		b.conditions = append(b.conditions, frag)
		b.args = append(b.args, args...)
	default:
		return fmt.Errorf("unsupported predicate %s", p.Op)
	}
	return nil
}

// BuildSearchQuery renders predicates into a newest-first SELECT over the
// schema's table. There is no LIMIT: every matching row is returned.
func BuildSearchQuery(d Dialect, s Schema, preds []Predicate) (string, []any, error) {
	b := &queryBuilder{dialect: d}
	for _, p := range preds {
		if err := b.add(p); err != nil {
			return "", nil, err
		}
	}

	query := fmt.Sprintf("SELECT %s FROM %s", s.selectColumns(), s.Table)
	if len(b.conditions) > 0 {
		query += " WHERE " + strings.Join(b.conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	return query, b.args, nil
}
