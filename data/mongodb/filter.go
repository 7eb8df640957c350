package mongodb

import (
	"fmt"

	"github.com/ncobase/keyset/paging"
	"github.com/ncobase/keyset/types"
	"go.mongodb.org/mongo-driver/bson"
)

var matchNothing = bson.D{{Key: "$nor", Value: bson.A{bson.D{}}}}

// Filter translates e into a query document. Null and missing fields sort
// before every other value, matching the ascending BSON order, so range
// comparisons below a non-null bound also match null.
func Filter(e paging.Expr) (bson.D, error) {
	switch x := e.(type) {
	case nil:
		return bson.D{}, nil
	case paging.Cmp:
		return cmp(x)
	case paging.And:
		return junction("$and", x)
	case paging.Or:
		return junction("$or", x)
	}
	return nil, fmt.Errorf("mongodb: unsupported expression %T", e)
}

func junction(op string, exprs []paging.Expr) (bson.D, error) {
	parts := make(bson.A, 0, len(exprs))
	for _, e := range exprs {
		d, err := Filter(e)
		if err != nil {
			return nil, err
		}
		parts = append(parts, d)
	}
	return bson.D{{Key: op, Value: parts}}, nil
}

func cmp(c paging.Cmp) (bson.D, error) {
	f := c.Field
	if c.Value == nil {
		switch c.Op {
		case paging.OpEq, paging.OpLte:
			return bson.D{{Key: f, Value: nil}}, nil
		case paging.OpNe, paging.OpGt:
			return bson.D{{Key: f, Value: bson.D{{Key: "$ne", Value: nil}}}}, nil
		case paging.OpLt:
			return matchNothing, nil
		case paging.OpGte:
			return bson.D{}, nil
		}
		return nil, fmt.Errorf("mongodb: unknown operator %q", c.Op)
	}

	op := "$" + string(c.Op)
	switch c.Op {
	case paging.OpEq:
		return bson.D{{Key: f, Value: c.Value}}, nil
	case paging.OpNe, paging.OpGt, paging.OpGte:
		return bson.D{{Key: f, Value: bson.D{{Key: op, Value: c.Value}}}}, nil
	case paging.OpLt, paging.OpLte:
		return bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: f, Value: bson.D{{Key: op, Value: c.Value}}}},
			bson.D{{Key: f, Value: nil}},
		}}}, nil
	}
	return nil, fmt.Errorf("mongodb: unknown operator %q", c.Op)
}

// Sort translates a sort specification.
func Sort(keys []paging.SortKey) bson.D {
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Order == types.Descending {
			dir = -1
		}
		d = append(d, bson.E{Key: k.Field, Value: dir})
	}
	return d
}
