package paging

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// TypedValue is a self describing JSON form of a scalar or nested value. It
// keeps the Go type across a JSON round trip, so an int64 identity decodes
// back to int64 and a timestamp back to time.Time.
type TypedValue struct {
	T string          `json:"t"`
	V json.RawMessage `json:"v,omitempty"`
}

// Built-in type tags.
const (
	tagNull   = "null"
	tagBool   = "bool"
	tagString = "str"
	tagInt    = "int"
	tagInt32  = "i32"
	tagInt64  = "i64"
	tagInt8   = "i8"
	tagInt16  = "i16"
	tagUint   = "uint"
	tagUint8  = "u8"
	tagUint16 = "u16"
	tagUint32 = "u32"
	tagUint64 = "u64"
	tagFloat  = "f64"
	tagFlt32  = "f32"
	tagTime   = "time"
	tagBytes  = "bytes"
	tagDoc    = "doc"
	tagMap    = "map"
	tagArray  = "arr"
)

// ValueType teaches the value codec about a store specific type, such as a
// document store's object identifier.
type ValueType struct {
	// Tag is the short, unique type tag written into the JSON form.
	Tag string
	// Encode returns the JSON form and true when it handles v.
	Encode func(v any) (json.RawMessage, bool, error)
	// Decode restores the value from its JSON form.
	Decode func(raw json.RawMessage) (any, error)
}

var (
	valueTypesMu sync.RWMutex
	valueTypes   = map[string]ValueType{}
)

// RegisterValueType registers an extension type. It panics on an empty or
// built-in tag and on a duplicate registration.
func RegisterValueType(vt ValueType) {
	valueTypesMu.Lock()
	defer valueTypesMu.Unlock()

	if vt.Tag == "" || vt.Encode == nil || vt.Decode == nil {
		panic("paging: RegisterValueType requires a tag, Encode and Decode")
	}
	switch vt.Tag {
	case tagNull, tagBool, tagString, tagInt, tagInt32, tagInt64, tagInt8, tagInt16,
		tagUint, tagUint8, tagUint16, tagUint32, tagUint64, tagFloat, tagFlt32,
		tagTime, tagBytes, tagDoc, tagMap, tagArray:
		panic("paging: RegisterValueType tag " + vt.Tag + " is reserved")
	}
	if _, dup := valueTypes[vt.Tag]; dup {
		panic("paging: RegisterValueType called twice for tag " + vt.Tag)
	}
	valueTypes[vt.Tag] = vt
}

func raw(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// EncodeValue converts v into its typed JSON form.
func EncodeValue(v any) (TypedValue, error) {
	var (
		tag string
		r   json.RawMessage
		err error
	)
	switch x := v.(type) {
	case nil:
		return TypedValue{T: tagNull}, nil
	case bool:
		tag = tagBool
		r, err = raw(x)
	case string:
		tag = tagString
		r, err = raw(x)
	case int:
		tag = tagInt
		r, err = raw(x)
	case int32:
		tag = tagInt32
		r, err = raw(x)
	case int64:
		tag = tagInt64
		r, err = raw(x)
	case int8:
		tag = tagInt8
		r, err = raw(x)
	case int16:
		tag = tagInt16
		r, err = raw(x)
	case uint:
		tag = tagUint
		r, err = raw(x)
	case uint8:
		tag = tagUint8
		r, err = raw(x)
	case uint16:
		tag = tagUint16
		r, err = raw(x)
	case uint32:
		tag = tagUint32
		r, err = raw(x)
	case uint64:
		tag = tagUint64
		r, err = raw(x)
	case float32:
		tag = tagFlt32
		r, err = raw(x)
	case float64:
		tag = tagFloat
		r, err = raw(x)
	case time.Time:
		tag = tagTime
		r, err = raw(x.Format(time.RFC3339Nano))
	case []byte:
		tag = tagBytes
		r, err = raw(x)
	case Document:
		tag = tagDoc
		r, err = encodeMap(x)
	case map[string]any:
		tag = tagMap
		r, err = encodeMap(x)
	case []any:
		tag = tagArray
		r, err = encodeArray(x)
	default:
		return encodeExtension(v)
	}
	if err != nil {
		return TypedValue{}, fmt.Errorf("encode %s value: %w", tag, err)
	}
	return TypedValue{T: tag, V: r}, nil
}

func encodeExtension(v any) (TypedValue, error) {
	valueTypesMu.RLock()
	defer valueTypesMu.RUnlock()

	for _, tag := range sortedKeys(valueTypes) {
		r, ok, err := valueTypes[tag].Encode(v)
		if err != nil {
			return TypedValue{}, fmt.Errorf("encode %s value: %w", tag, err)
		}
		if ok {
			return TypedValue{T: tag, V: r}, nil
		}
	}
	return TypedValue{}, fmt.Errorf("unsupported value type %T", v)
}

func encodeMap(m map[string]any) (json.RawMessage, error) {
	out := make(map[string]TypedValue, len(m))
	for k, v := range m {
		tv, err := EncodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = tv
	}
	return raw(out)
}

func encodeArray(a []any) (json.RawMessage, error) {
	out := make([]TypedValue, len(a))
	for i, v := range a {
		tv, err := EncodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = tv
	}
	return raw(out)
}

// DecodeValue restores a value from its typed JSON form.
func DecodeValue(tv TypedValue) (any, error) {
	switch tv.T {
	case tagNull:
		return nil, nil
	case tagBool:
		var b bool
		return b, unmarshalInto(tv, &b)
	case tagString:
		var s string
		return s, unmarshalInto(tv, &s)
	case tagInt:
		var i int
		return i, unmarshalInto(tv, &i)
	case tagInt32:
		var i int32
		return i, unmarshalInto(tv, &i)
	case tagInt64:
		var i int64
		return i, unmarshalInto(tv, &i)
	case tagInt8:
		var i int8
		return i, unmarshalInto(tv, &i)
	case tagInt16:
		var i int16
		return i, unmarshalInto(tv, &i)
	case tagUint:
		var u uint
		return u, unmarshalInto(tv, &u)
	case tagUint8:
		var u uint8
		return u, unmarshalInto(tv, &u)
	case tagUint16:
		var u uint16
		return u, unmarshalInto(tv, &u)
	case tagUint32:
		var u uint32
		return u, unmarshalInto(tv, &u)
	case tagUint64:
		var u uint64
		return u, unmarshalInto(tv, &u)
	case tagFloat:
		var f float64
		return f, unmarshalInto(tv, &f)
	case tagFlt32:
		var f float32
		return f, unmarshalInto(tv, &f)
	case tagTime:
		var s string
		if err := unmarshalInto(tv, &s); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("decode time value: %w", err)
		}
		return t, nil
	case tagBytes:
		var b []byte
		return b, unmarshalInto(tv, &b)
	case tagDoc:
		m, err := decodeMap(tv)
		return Document(m), err
	case tagMap:
		return decodeMap(tv)
	case tagArray:
		var items []TypedValue
		if err := unmarshalInto(tv, &items); err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := DecodeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	valueTypesMu.RLock()
	vt, ok := valueTypes[tv.T]
	valueTypesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown value type tag %q", tv.T)
	}
	return vt.Decode(tv.V)
}

func decodeMap(tv TypedValue) (map[string]any, error) {
	var fields map[string]TypedValue
	if err := unmarshalInto(tv, &fields); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fields))
	for k, f := range fields {
		v, err := DecodeValue(f)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func unmarshalInto(tv TypedValue, dst any) error {
	if len(tv.V) == 0 {
		return fmt.Errorf("missing payload for %s value", tv.T)
	}
	if err := json.Unmarshal(tv.V, dst); err != nil {
		return fmt.Errorf("decode %s value: %w", tv.T, err)
	}
	return nil
}

// EncodeDocument encodes every field of d.
func EncodeDocument(d Document) (map[string]TypedValue, error) {
	out := make(map[string]TypedValue, len(d))
	for k, v := range d {
		tv, err := EncodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = tv
	}
	return out, nil
}

// DecodeDocument is the inverse of EncodeDocument.
func DecodeDocument(fields map[string]TypedValue) (Document, error) {
	d := make(Document, len(fields))
	for k, tv := range fields {
		v, err := DecodeValue(tv)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		d[k] = v
	}
	return d, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
