package mongodb

import (
	"encoding/json"
	"time"

	"github.com/ncobase/keyset/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const tagObjectID = "oid"

func init() {
	paging.RegisterValueType(paging.ValueType{
		Tag: tagObjectID,
		Encode: func(v any) (json.RawMessage, bool, error) {
			id, ok := v.(primitive.ObjectID)
			if !ok {
				return nil, false, nil
			}
			b, err := json.Marshal(id.Hex())
			return b, true, err
		},
		Decode: func(raw json.RawMessage) (any, error) {
			var hex string
			if err := json.Unmarshal(raw, &hex); err != nil {
				return nil, err
			}
			return primitive.ObjectIDFromHex(hex)
		},
	})
}

// normalize converts driver specific values into the plain forms the rest of
// the module works with: nested documents become maps, arrays become slices
// and BSON dates become UTC times.
func normalize(v any) any {
	switch x := v.(type) {
	case bson.M:
		return normalizeMap(x)
	case map[string]any:
		return normalizeMap(x)
	case bson.D:
		return normalizeMap(x.Map())
	case bson.A:
		return normalizeSlice(x)
	case []any:
		return normalizeSlice(x)
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0).UTC()
	}
	return v
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = normalize(v)
	}
	return out
}

func toDocument(m bson.M) paging.Document {
	return paging.Document(normalizeMap(m))
}
