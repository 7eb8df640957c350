package types

// ToPointer returns a pointer to a copy of v. Connection arguments use it for
// their optional first and last counts.
func ToPointer[T any](v T) *T {
	return &v
}

// ToValue dereferences p, yielding the zero value when p is nil.
func ToValue[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
