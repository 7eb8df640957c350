package paging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ncobase/keyset/types"
)

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpGt  Op = "gt"
	OpGte Op = "gte"
)

// Valid reports whether op is a known operator.
func (op Op) Valid() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}

// Flip returns the operator with strictness kept and direction inverted.
func (op Op) Flip() Op {
	switch op {
	case OpLt:
		return OpGt
	case OpGt:
		return OpLt
	case OpLte:
		return OpGte
	case OpGte:
		return OpLte
	}
	return op
}

// Expr is a boolean predicate over record fields. A nil Expr matches every
// record.
type Expr interface {
	isExpr()
}

// Cmp compares a field with a constant.
type Cmp struct {
	Field string
	Op    Op
	Value any
}

// And is a conjunction.
type And []Expr

// Or is a disjunction.
type Or []Expr

func (Cmp) isExpr() {}
func (And) isExpr() {}
func (Or) isExpr()  {}

func (c Cmp) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value)
}

func (a And) String() string { return junction("AND", a) }
func (o Or) String() string  { return junction("OR", o) }

func junction(name string, exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = fmt.Sprint(e)
	}
	return "(" + strings.Join(parts, " "+name+" ") + ")"
}

// Eq builds field == value.
func Eq(field string, value any) Cmp { return Cmp{Field: field, Op: OpEq, Value: value} }

// Lt builds field < value.
func Lt(field string, value any) Cmp { return Cmp{Field: field, Op: OpLt, Value: value} }

// Gt builds field > value.
func Gt(field string, value any) Cmp { return Cmp{Field: field, Op: OpGt, Value: value} }

// AllOf joins exprs with AND, dropping nil entries. It returns nil when
// nothing is left and the sole expression when only one remains.
func AllOf(exprs ...Expr) Expr {
	out := make(And, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			out = append(out, e)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

// FieldsEqual builds a conjunction of equality comparisons, one per entry,
// in a stable order.
func FieldsEqual(fields map[string]any) Expr {
	if len(fields) == 0 {
		return nil
	}
	keys := sortedKeys(fields)
	exprs := make([]Expr, 0, len(keys))
	for _, k := range keys {
		exprs = append(exprs, Eq(k, fields[k]))
	}
	return AllOf(exprs...)
}

// ValidateExpr checks the structure of e: known operators, non-empty
// junctions and field names that are not operator-like.
func ValidateExpr(e Expr) error {
	switch x := e.(type) {
	case nil:
		return nil
	case Cmp:
		if x.Field == "" {
			return errors.New("comparison with empty field name")
		}
		if strings.HasPrefix(x.Field, "$") {
			return fmt.Errorf("field name %q must not start with '$'", x.Field)
		}
		if !x.Op.Valid() {
			return fmt.Errorf("unknown operator %q on field %q", x.Op, x.Field)
		}
		return nil
	case And:
		return validateJunction("AND", x)
	case Or:
		return validateJunction("OR", x)
	}
	return fmt.Errorf("unsupported expression %T", e)
}

func validateJunction(name string, exprs []Expr) error {
	if len(exprs) == 0 {
		return fmt.Errorf("empty %s", name)
	}
	for _, e := range exprs {
		if e == nil {
			return fmt.Errorf("nil operand in %s", name)
		}
		if err := ValidateExpr(e); err != nil {
			return err
		}
	}
	return nil
}

// Fields returns the field names referenced by e.
func Fields(e Expr) []string {
	var out []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch x := e.(type) {
		case Cmp:
			out = append(out, x.Field)
		case And:
			for _, c := range x {
				walk(c)
			}
		case Or:
			for _, c := range x {
				walk(c)
			}
		}
	}
	walk(e)
	return out
}

// Match evaluates e against d. Missing fields read as null, and null sorts
// before every other value. Comparisons between incomparable types are
// false, except ne which is true.
func Match(e Expr, d Document) bool {
	switch x := e.(type) {
	case nil:
		return true
	case Cmp:
		v, _ := d.Get(x.Field)
		c, ok := types.Compare(v, x.Value)
		if !ok {
			return x.Op == OpNe
		}
		switch x.Op {
		case OpEq:
			return c == 0
		case OpNe:
			return c != 0
		case OpLt:
			return c < 0
		case OpLte:
			return c <= 0
		case OpGt:
			return c > 0
		case OpGte:
			return c >= 0
		}
		return false
	case And:
		for _, sub := range x {
			if !Match(sub, d) {
				return false
			}
		}
		return true
	case Or:
		for _, sub := range x {
			if Match(sub, d) {
				return true
			}
		}
		return false
	}
	return false
}

// Less reports whether a sorts before b under sort.
func Less(sort []SortKey, a, b Document) bool {
	for _, k := range sort {
		av, _ := a.Get(k.Field)
		bv, _ := b.Get(k.Field)
		if c := types.CompareValues(av, bv) * k.Order.Sign(); c != 0 {
			return c < 0
		}
	}
	return false
}
