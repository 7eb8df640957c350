// Package types provides small shared value types used across keyset:
// sort directions, value comparison and pointer helpers.
//
// # Sorting
//
//	order, err := types.ParseOrder("DESC", types.Descending)
//	order.Reverse() // types.Ascending
//
// # Comparison
//
// CompareValues orders the scalar values a record may carry as a sort key.
// Integers and floats compare numerically, nil sorts first:
//
//	types.CompareValues(int64(3), 2.5)   // 1
//	types.CompareValues(nil, "a")        // -1
package types
