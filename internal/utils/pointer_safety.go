// Package utils holds small generic helpers shared across the client.
package utils

// Value dereferences v, returning the zero value for a nil pointer.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Ptr returns a pointer to v. Partial-update payloads use it to distinguish
// "set to zero" from "leave unchanged".
func Ptr[T any](v T) *T {
	return &v
}
