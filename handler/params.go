package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/ecode"
	"github.com/ncobase/keyset/paging"
	"github.com/ncobase/keyset/types"
)

const filterPrefix = "filter["

// params reads a query string against an allow list, collecting every
// problem keyed by parameter name.
type params struct {
	values url.Values
	fields map[string]string
	errs   map[string]string
}

func newParams(values url.Values, fields map[string]string, allowed ...string) *params {
	p := &params{values: values, fields: fields, errs: map[string]string{}}
	allow := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		allow[a] = struct{}{}
	}
	for key, vs := range values {
		if strings.HasPrefix(key, filterPrefix) {
			continue
		}
		if _, ok := allow[key]; !ok {
			p.errs[key] = ecode.FieldUnsupported(key)
			continue
		}
		if len(vs) > 1 {
			p.errs[key] = "must be given once"
		}
	}
	return p
}

func (p *params) str(key string) string {
	return p.values.Get(key)
}

func (p *params) order(key string) types.Order {
	return types.Order(strings.ToLower(p.values.Get(key)))
}

// limit parses an optional positive count. Absent yields 0.
func (p *params) limit(key string) int {
	n := p.count(key)
	if n == nil {
		return 0
	}
	return *n
}

// count parses an optional positive count.
func (p *params) count(key string) *int {
	raw, ok := p.values[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	n, err := strconv.Atoi(raw[0])
	if err != nil {
		p.errs[key] = ecode.FieldIsInvalid(key)
		return nil
	}
	if n <= 0 {
		p.errs[key] = ecode.FieldNotPositive(key)
		return nil
	}
	return types.ToPointer(n)
}

// filter builds an equality filter from filter[<field>]=<value> parameters,
// converting each value to the configured field type.
func (p *params) filter() paging.Expr {
	eq := map[string]any{}
	for key, vs := range p.values {
		if !strings.HasPrefix(key, filterPrefix) {
			continue
		}
		if !strings.HasSuffix(key, "]") {
			p.errs[key] = ecode.Malformed(key)
			continue
		}
		field := strings.TrimSuffix(strings.TrimPrefix(key, filterPrefix), "]")
		typ, ok := p.fields[field]
		if !ok {
			p.errs[key] = ecode.FieldUnsupported(field)
			continue
		}
		if len(vs) != 1 {
			p.errs[key] = "must be given once"
			continue
		}
		v, err := parseValue(typ, vs[0])
		if err != nil {
			p.errs[key] = err.Error()
			continue
		}
		eq[field] = v
	}
	return paging.FieldsEqual(eq)
}

func parseValue(typ, raw string) (any, error) {
	switch typ {
	case config.FieldInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		return n, nil
	case config.FieldFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return f, nil
	case config.FieldBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil
	case config.FieldTime:
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not an RFC 3339 time", raw)
		}
		return t.UTC(), nil
	}
	return raw, nil
}

func (p *params) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return &paging.InvalidArgumentsError{Fields: p.errs}
}
