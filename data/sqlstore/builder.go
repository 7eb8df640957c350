package sqlstore

import (
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/paging"
	"github.com/ncobase/keyset/types"
	"github.com/ncobase/keyset/validation/validator"
)

// builder renders paging queries as SQL for one table.
type builder struct {
	dialect *Dialect
	table   string
	idField string
	columns []*config.Field
	byName  map[string]*config.Field
}

func newBuilder(d *Dialect, table, idField string, fields []*config.Field) (*builder, error) {
	if !plainName(table) {
		return nil, fmt.Errorf("%s: invalid table name %q", d.Name, table)
	}
	if !plainName(idField) {
		return nil, fmt.Errorf("%s: invalid identity field %q", d.Name, idField)
	}
	b := &builder{dialect: d, table: table, idField: idField, byName: map[string]*config.Field{}}

	idType := config.FieldString
	for _, f := range fields {
		if f.Name == idField {
			idType = f.Type
		}
	}
	b.add(&config.Field{Name: idField, Type: idType})
	for _, f := range fields {
		if f.Name == idField {
			continue
		}
		if strings.Contains(f.Name, ".") {
			return nil, fmt.Errorf("%s: nested field %q is not supported", d.Name, f.Name)
		}
		if !plainName(f.Name) {
			return nil, fmt.Errorf("%s: invalid field name %q", d.Name, f.Name)
		}
		if _, dup := b.byName[f.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate field %q", d.Name, f.Name)
		}
		b.add(f)
	}
	for _, f := range b.columns {
		if _, err := d.columnType(f.Type, f.Name == idField); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// plainName accepts identifiers that need no escaping once quoted.
func plainName(s string) bool {
	return validator.IsFieldName(s) && !strings.Contains(s, ".")
}

func (b *builder) add(f *config.Field) {
	b.columns = append(b.columns, f)
	b.byName[f.Name] = f
}

func (b *builder) sql() *entsql.DialectBuilder {
	return entsql.Dialect(b.dialect.Flavor)
}

func (b *builder) columnNames() []string {
	names := make([]string, len(b.columns))
	for i, c := range b.columns {
		names[i] = c.Name
	}
	return names
}

// selectSQL renders q as a SELECT statement.
func (b *builder) selectSQL(q *paging.Query) (string, []any, error) {
	if err := paging.ValidateExpr(q.Filter); err != nil {
		return "", nil, err
	}

	s := b.sql().Select(b.columnNames()...).From(entsql.Table(b.table))
	if q.Filter != nil {
		p, err := b.predicate(q.Filter)
		if err != nil {
			return "", nil, err
		}
		s.Where(p)
	}
	for _, k := range q.Sort {
		if _, ok := b.byName[k.Field]; !ok {
			return "", nil, fmt.Errorf("unknown sort field %q", k.Field)
		}
		s.OrderExprFunc(b.orderKey(k))
	}
	if q.Limit > 0 {
		s.Limit(q.Limit)
	}
	query, args := s.Query()
	if err := s.Err(); err != nil {
		return "", nil, err
	}
	return query, args, nil
}

// orderKey renders one ORDER BY term with nulls sorting first in ascending
// order.
func (b *builder) orderKey(k paging.SortKey) func(*entsql.Builder) {
	return func(sb *entsql.Builder) {
		sb.Ident(k.Field)
		desc := k.Order == types.Descending
		if desc {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
		if !b.dialect.NullsLast {
			return
		}
		if desc {
			sb.WriteString(" NULLS LAST")
		} else {
			sb.WriteString(" NULLS FIRST")
		}
	}
}

// predicate renders e with null sorting before every value, matching the
// in-memory evaluation.
func (b *builder) predicate(e paging.Expr) (*entsql.Predicate, error) {
	switch x := e.(type) {
	case paging.Cmp:
		return b.cmp(x)
	case paging.And:
		ps, err := b.predicates(x)
		if err != nil {
			return nil, err
		}
		return entsql.And(ps...), nil
	case paging.Or:
		ps, err := b.predicates(x)
		if err != nil {
			return nil, err
		}
		return entsql.Or(ps...), nil
	}
	return nil, fmt.Errorf("unsupported expression %T", e)
}

func (b *builder) predicates(exprs []paging.Expr) ([]*entsql.Predicate, error) {
	ps := make([]*entsql.Predicate, len(exprs))
	for i, e := range exprs {
		p, err := b.predicate(e)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

var sqlOps = map[paging.Op]func(col string, v any) *entsql.Predicate{
	paging.OpEq:  entsql.EQ,
	paging.OpNe:  entsql.NEQ,
	paging.OpLt:  entsql.LT,
	paging.OpLte: entsql.LTE,
	paging.OpGt:  entsql.GT,
	paging.OpGte: entsql.GTE,
}

func (b *builder) cmp(c paging.Cmp) (*entsql.Predicate, error) {
	f, ok := b.byName[c.Field]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", c.Field)
	}
	op, ok := sqlOps[c.Op]
	if !ok {
		return nil, fmt.Errorf("unknown operator %q", c.Op)
	}

	if c.Value == nil {
		switch c.Op {
		case paging.OpEq, paging.OpLte:
			return entsql.IsNull(c.Field), nil
		case paging.OpNe, paging.OpGt:
			return entsql.NotNull(c.Field), nil
		case paging.OpLt:
			return entsql.False(), nil
		default:
			return entsql.Not(entsql.False()), nil
		}
	}

	v, err := b.bindValue(f, c.Value)
	if err != nil {
		return nil, err
	}
	p := op(c.Field, v)
	switch c.Op {
	case paging.OpLt, paging.OpLte, paging.OpNe:
		p = entsql.Or(p, entsql.IsNull(c.Field))
	}
	return p, nil
}

func (b *builder) bindValue(f *config.Field, v any) (any, error) {
	if t, ok := v.(time.Time); ok {
		if f.Type != config.FieldTime {
			return nil, fmt.Errorf("field %q is %s, got time", f.Name, f.Type)
		}
		if b.dialect.TimeAsUnixNano {
			return t.UnixNano(), nil
		}
		return t.UTC(), nil
	}
	return v, nil
}

func (b *builder) indexName(c *config.Field) string {
	return fmt.Sprintf("idx_%s_%s_%s", b.table, c.Name, b.idField)
}

// createSQL returns the statements that create the table and its keyset
// indexes.
func (b *builder) createSQL() ([]string, error) {
	colTypes := make([]string, len(b.columns))
	for i, c := range b.columns {
		t, err := b.dialect.columnType(c.Type, c.Name == b.idField)
		if err != nil {
			return nil, err
		}
		colTypes[i] = t
	}

	table := b.sql().String(func(sb *entsql.Builder) {
		sb.WriteString("CREATE TABLE IF NOT EXISTS ").Ident(b.table).WriteString(" (")
		for i, c := range b.columns {
			if i > 0 {
				sb.Comma()
			}
			sb.Ident(c.Name).Pad().WriteString(colTypes[i])
			if c.Name == b.idField {
				sb.WriteString(" PRIMARY KEY")
			}
		}
		if b.dialect.InlineIndexes {
			for _, c := range b.columns[1:] {
				sb.Comma().WriteString("INDEX ").Ident(b.indexName(c)).
					WriteString(" (").IdentComma(c.Name, b.idField).WriteByte(')')
			}
		}
		sb.WriteByte(')')
	})
	stmts := []string{table}
	if b.dialect.InlineIndexes {
		return stmts, nil
	}

	for _, c := range b.columns[1:] {
		stmts = append(stmts, b.sql().String(func(sb *entsql.Builder) {
			sb.WriteString("CREATE INDEX IF NOT EXISTS ").Ident(b.indexName(c)).
				WriteString(" ON ").Ident(b.table).
				WriteString(" (").IdentComma(c.Name, b.idField).WriteByte(')')
		}))
	}
	return stmts, nil
}

// insertSQL renders one multi-row INSERT for docs.
func (b *builder) insertSQL(docs []paging.Document) (string, []any, error) {
	ins := b.sql().Insert(b.table).Columns(b.columnNames()...)
	for _, doc := range docs {
		vals, err := b.insertArgs(doc)
		if err != nil {
			return "", nil, err
		}
		ins.Values(vals...)
	}
	return ins.QueryErr()
}

// insertArgs orders doc's values by column.
func (b *builder) insertArgs(doc paging.Document) ([]any, error) {
	vals := make([]any, len(b.columns))
	for i, c := range b.columns {
		v, ok := doc[c.Name]
		if !ok || v == nil {
			continue
		}
		bv, err := b.bindValue(c, v)
		if err != nil {
			return nil, err
		}
		vals[i] = bv
	}
	return vals, nil
}
