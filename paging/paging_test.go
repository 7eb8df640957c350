package paging

import (
	"reflect"
	"testing"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in, want int
		err      bool
	}{
		{0, 10, false},
		{5, 5, false},
		{100, 100, false},
		{101, 100, false},
		{1 << 30, 100, false},
		{-1, 0, true},
	}
	for _, c := range cases {
		got, err := NormalizeLimit(c.in, 10, 100)
		if (err != nil) != c.err || got != c.want {
			t.Errorf("NormalizeLimit(%d) = %d, %v", c.in, got, err)
		}
	}
}

func TestTrimProbe(t *testing.T) {
	items, more := TrimProbe([]int{1, 2, 3}, 2)
	if !more || !reflect.DeepEqual(items, []int{1, 2}) {
		t.Errorf("TrimProbe over = %v, %v", items, more)
	}
	items, more = TrimProbe([]int{1, 2}, 2)
	if more || len(items) != 2 {
		t.Errorf("TrimProbe exact = %v, %v", items, more)
	}
}

func TestReverse(t *testing.T) {
	s := []int{1, 2, 3, 4}
	Reverse(s)
	if !reflect.DeepEqual(s, []int{4, 3, 2, 1}) {
		t.Errorf("Reverse = %v", s)
	}
	Reverse([]int(nil))
}
