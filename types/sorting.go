package types

import (
	"fmt"
	"strings"
	"time"
)

// Order represents sorting direction.
type Order string

const (
	Ascending  Order = "asc"  // Ascending order
	Descending Order = "desc" // Descending order
)

// ParseOrder parses a sort direction, accepting asc/desc in any case.
// An empty string yields the fallback.
func ParseOrder(s string, fallback Order) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return fallback, nil
	case string(Ascending):
		return Ascending, nil
	case string(Descending):
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Valid reports whether o is a known direction.
func (o Order) Valid() bool {
	return o == Ascending || o == Descending
}

// Reverse returns the opposite direction.
func (o Order) Reverse() Order {
	if o == Ascending {
		return Descending
	}
	return Ascending
}

// Sign returns 1 for ascending and -1 for descending.
func (o Order) Sign() int {
	if o == Descending {
		return -1
	}
	return 1
}

// Criterion represents a single sorting criterion.
type Criterion struct {
	Field string `json:"field"` // Field to sort by
	Order Order  `json:"order"` // Sort direction
}

// CompareValues compares two values and returns -1, 0, or 1.
// Supports integer and float kinds (compared numerically with each other),
// strings, booleans, time.Time and nil.
// nil sorts before every other value.
// Returns 0 if a == b or types are not comparable.
func CompareValues(a, b any) int {
	c, _ := Compare(a, b)
	return c
}

// Compare is CompareValues that also reports whether a and b were
// comparable at all.
func Compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, true
		case a == nil:
			return -1, true
		default:
			return 1, true
		}
	}

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			if ai, aok := toInteger(a); aok {
				if bi, bok := toInteger(b); bok {
					return ai.compare(bi), true
				}
			}
			return CompareFloat(af, bf), true
		}
		return 0, false
	}

	switch aVal := a.(type) {
	case string:
		if bVal, ok := b.(string); ok {
			return CompareString(aVal, bVal), true
		}
	case bool:
		if bVal, ok := b.(bool); ok {
			return CompareBool(aVal, bVal), true
		}
	case time.Time:
		if bVal, ok := b.(time.Time); ok {
			return aVal.Compare(bVal), true
		}
	}
	return 0, false
}

// CompareInt64 compares two integers.
func CompareInt64(a, b int64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// CompareFloat compares two floats.
func CompareFloat(a, b float64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// CompareString compares two strings lexicographically.
func CompareString(a, b string) int {
	return strings.Compare(a, b)
}

// CompareBool orders false before true.
func CompareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// integer holds any Go integer without loss: neg is set for negative
// signed values, whose magnitude is stored two's complement in u.
type integer struct {
	neg bool
	u   uint64
}

func (a integer) compare(b integer) int {
	switch {
	case a.neg && !b.neg:
		return -1
	case !a.neg && b.neg:
		return 1
	case a.neg:
		return CompareInt64(int64(a.u), int64(b.u))
	case a.u < b.u:
		return -1
	case a.u > b.u:
		return 1
	}
	return 0
}

func signed(n int64) integer { return integer{neg: n < 0, u: uint64(n)} }

func toInteger(v any) (integer, bool) {
	switch n := v.(type) {
	case int:
		return signed(int64(n)), true
	case int8:
		return signed(int64(n)), true
	case int16:
		return signed(int64(n)), true
	case int32:
		return signed(int64(n)), true
	case int64:
		return signed(n), true
	case uint:
		return integer{u: uint64(n)}, true
	case uint8:
		return integer{u: uint64(n)}, true
	case uint16:
		return integer{u: uint64(n)}, true
	case uint32:
		return integer{u: uint64(n)}, true
	case uint64:
		return integer{u: n}, true
	}
	return integer{}, false
}

func toFloat(v any) (float64, bool) {
	if i, ok := toInteger(v); ok {
		if i.neg {
			return float64(int64(i.u)), true
		}
		return float64(i.u), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
