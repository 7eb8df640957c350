package mongodb

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/ncobase/keyset/data"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/paging"
	"github.com/ncobase/keyset/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestDriverName verifies the driver returns the correct name
func TestDriverName(t *testing.T) {
	d := &driver{}
	if got := d.Name(); got != "mongodb" {
		t.Errorf("Name() = %v, want %v", got, "mongodb")
	}
}

// TestDriverRegistration verifies the MongoDB driver is properly registered
func TestDriverRegistration(t *testing.T) {
	d, err := data.GetDriver("mongodb")
	if err != nil {
		t.Fatalf("Failed to get MongoDB driver: %v", err)
	}
	if d.Name() != "mongodb" {
		t.Errorf("Driver name = %v, want %v", d.Name(), "mongodb")
	}
}

// TestDriverOpen_EmptyMaster tests that empty master config is rejected
func TestDriverOpen_EmptyMaster(t *testing.T) {
	d := &driver{}
	ctx := context.Background()

	if _, err := d.Open(ctx, &config.Config{}); err == nil {
		t.Error("Open() without mongodb config should return error")
	}
	cfg := &config.Config{MongoDB: &config.MongoDB{Master: &config.MongoNode{URI: ""}}}
	if _, err := d.Open(ctx, cfg); err == nil {
		t.Error("Open() with empty URI should return error")
	}
}

func TestNewBalancer(t *testing.T) {
	for _, s := range []string{"", "round_robin", "random", "weight"} {
		if _, err := NewBalancer(s, nil); err != nil {
			t.Errorf("NewBalancer(%q): %v", s, err)
		}
	}
	if _, err := NewBalancer("sticky", nil); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestBalancersEmpty(t *testing.T) {
	for _, b := range []Balancer{&RoundRobinBalancer{}, &RandomBalancer{}, NewWeightBalancer(nil)} {
		if _, err := b.Next(0); err != ErrNoAvailableSlaves {
			t.Errorf("%T.Next(0) err = %v", b, err)
		}
	}
}

func TestRoundRobinBalancer(t *testing.T) {
	b := &RoundRobinBalancer{}
	var got []int
	for i := 0; i < 6; i++ {
		n, _ := b.Next(3)
		got = append(got, n)
	}
	if want := []int{1, 2, 0, 1, 2, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("picks = %v, want %v", got, want)
	}
}

func TestWeightBalancer(t *testing.T) {
	b := NewWeightBalancer([]*config.MongoNode{{Weight: 3}, {Weight: 1}})
	counts := make([]int, 2)
	for i := 0; i < 400; i++ {
		n, err := b.Next(2)
		if err != nil {
			t.Fatal(err)
		}
		counts[n]++
	}
	if counts[0] != 300 || counts[1] != 100 {
		t.Errorf("counts = %v, want [300 100]", counts)
	}

	// a dropped replica shrinks the set
	for i := 0; i < 10; i++ {
		if n, _ := b.Next(1); n != 0 {
			t.Fatalf("Next(1) = %d", n)
		}
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		expr paging.Expr
		want bson.D
	}{
		{"nil", nil, bson.D{}},
		{"eq", paging.Eq("name", "a"), bson.D{{Key: "name", Value: "a"}}},
		{"gt", paging.Gt("score", 3), bson.D{{Key: "score", Value: bson.D{{Key: "$gt", Value: 3}}}}},
		{"lt includes null", paging.Lt("score", 3), bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "score", Value: bson.D{{Key: "$lt", Value: 3}}}},
			bson.D{{Key: "score", Value: nil}},
		}}}},
		{"eq null", paging.Eq("name", nil), bson.D{{Key: "name", Value: nil}}},
		{"gt null", paging.Gt("name", nil), bson.D{{Key: "name", Value: bson.D{{Key: "$ne", Value: nil}}}}},
		{"lt null", paging.Lt("name", nil), matchNothing},
		{"and", paging.And{paging.Eq("a", 1), paging.Eq("b", 2)}, bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "a", Value: 1}},
			bson.D{{Key: "b", Value: 2}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(tt.expr)
			if err != nil {
				t.Fatalf("Filter: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := Filter(paging.Cmp{Field: "a", Op: "like", Value: 1}); err == nil {
		t.Error("expected error for unknown operator")
	}
}

func TestSort(t *testing.T) {
	got := Sort([]paging.SortKey{{Field: "createdAt", Order: types.Descending}, {Field: "_id", Order: types.Ascending}})
	want := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}

func TestObjectIDCursor(t *testing.T) {
	id := primitive.NewObjectID()
	codec := paging.NewCodec("_id", "")
	token, err := codec.Encode(paging.Document{"_id": id, "createdAt": time.Unix(10, 0).UTC()}, "createdAt")
	if err != nil {
		t.Fatal(err)
	}
	cur, err := codec.Decode(token)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := cur.ID.(primitive.ObjectID); !ok || got != id {
		t.Errorf("ID = %#v, want %v", cur.ID, id)
	}
}

func TestToDocument(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := toDocument(bson.M{
		"createdAt": primitive.NewDateTimeFromTime(at),
		"meta":      bson.M{"tags": bson.A{"a", bson.D{{Key: "k", Value: int32(1)}}}},
	})
	if got := doc["createdAt"]; got != at {
		t.Errorf("createdAt = %v, want %v", got, at)
	}
	want := map[string]any{"tags": []any{"a", map[string]any{"k": int32(1)}}}
	if !reflect.DeepEqual(doc["meta"], want) {
		t.Errorf("meta = %#v", doc["meta"])
	}
	if _, err := json.Marshal(doc); err != nil {
		t.Errorf("marshal: %v", err)
	}
}
