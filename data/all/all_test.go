package all

import (
	"reflect"
	"testing"

	"github.com/ncobase/keyset/data"
)

func TestAllDriversRegistered(t *testing.T) {
	want := []string{"memory", "mongodb", "mysql", "postgres", "sqlite"}
	if got := data.Drivers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Drivers() = %v, want %v", got, want)
	}
}
