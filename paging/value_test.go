package paging

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

type point struct{ X, Y int }

func TestValueRoundTripKeepsTypes(t *testing.T) {
	at := time.Date(2023, 3, 4, 5, 6, 7, 8, time.UTC)
	values := []any{
		nil, true, "s", 1, int32(2), int64(1 << 60), 1.5, at, []byte("raw"),
		Document{"a": int64(1)},
		map[string]any{"b": "x", "c": []any{1, "y"}},
	}
	for _, v := range values {
		tv, err := EncodeValue(v)
		if err != nil {
			t.Fatalf("EncodeValue(%#v): %v", v, err)
		}
		b, err := json.Marshal(tv)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back TypedValue
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		got, err := DecodeValue(back)
		if err != nil {
			t.Fatalf("DecodeValue(%s): %v", b, err)
		}
		if !reflect.DeepEqual(got, v) {
			t.Errorf("round trip %#v -> %#v", v, got)
		}
	}
}

func TestValueKeepsIntegerWidth(t *testing.T) {
	values := []any{
		int8(-8), int16(-16), uint(7), uint8(8), uint16(16), uint32(32),
		uint64(math.MaxUint64), float32(0.5),
	}
	for _, v := range values {
		tv, err := EncodeValue(v)
		if err != nil {
			t.Fatalf("EncodeValue(%#v): %v", v, err)
		}
		b, err := json.Marshal(tv)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back TypedValue
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		got, err := DecodeValue(back)
		if err != nil {
			t.Fatalf("DecodeValue(%s): %v", b, err)
		}
		if got != v {
			t.Errorf("round trip %#v -> %#v", v, got)
		}
	}
}

func TestValueExtension(t *testing.T) {
	RegisterValueType(ValueType{
		Tag: "test.point",
		Encode: func(v any) (json.RawMessage, bool, error) {
			p, ok := v.(point)
			if !ok {
				return nil, false, nil
			}
			b, err := json.Marshal([2]int{p.X, p.Y})
			return b, true, err
		},
		Decode: func(raw json.RawMessage) (any, error) {
			var xy [2]int
			if err := json.Unmarshal(raw, &xy); err != nil {
				return nil, err
			}
			return point{xy[0], xy[1]}, nil
		},
	})

	tv, err := EncodeValue(point{1, 2})
	if err != nil || tv.T != "test.point" {
		t.Fatalf("EncodeValue = %+v, %v", tv, err)
	}
	got, err := DecodeValue(tv)
	if err != nil || got != (point{1, 2}) {
		t.Fatalf("DecodeValue = %#v, %v", got, err)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate tag")
		}
	}()
	RegisterValueType(ValueType{Tag: "test.point", Encode: func(any) (json.RawMessage, bool, error) { return nil, false, nil }, Decode: func(json.RawMessage) (any, error) { return nil, nil }})
}

func TestRegisterValueTypeRejectsReservedTag(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil || !strings.Contains(r.(string), "reserved") {
			t.Errorf("expected reserved tag panic, got %v", r)
		}
	}()
	RegisterValueType(ValueType{Tag: "int", Encode: func(any) (json.RawMessage, bool, error) { return nil, false, nil }, Decode: func(json.RawMessage) (any, error) { return nil, nil }})
}

func TestValueErrors(t *testing.T) {
	if _, err := EncodeValue(make(chan int)); err == nil {
		t.Error("expected error for channel")
	}
	if _, err := EncodeValue([]any{1, make(chan int)}); err == nil {
		t.Error("expected error for nested channel")
	}
	if _, err := DecodeValue(TypedValue{T: "int"}); err == nil {
		t.Error("expected error for missing payload")
	}
	if _, err := DecodeValue(TypedValue{T: "time", V: json.RawMessage(`"yesterday"`)}); err == nil {
		t.Error("expected error for bad time")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	d := Document{"_id": int64(3), "createdAt": time.Unix(10, 0).UTC(), "tags": []any{"a"}}
	enc, err := EncodeDocument(d)
	if err != nil {
		t.Fatal(err)
	}
	back, err := DecodeDocument(enc)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, d) {
		t.Fatalf("got %#v, want %#v", back, d)
	}
}
