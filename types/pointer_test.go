package types

import "testing"

func TestPointerHelpers(t *testing.T) {
	p := ToPointer(3)
	*p = 4
	if got := ToValue(p); got != 4 {
		t.Errorf("ToValue = %d, want 4", got)
	}
	if got := ToValue[int](nil); got != 0 {
		t.Errorf("ToValue(nil) = %d, want 0", got)
	}
	if got := ToValue[string](nil); got != "" {
		t.Errorf("ToValue(nil) = %q, want empty", got)
	}
}
