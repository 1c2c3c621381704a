// Package utils provides utility functions for the application.
package utils

// ToPtr returns a pointer to v.
func ToPtr[T any](v T) *T {
	return &v
}

// IsTrue reports whether a nullable flag is set and true.
func IsTrue(b *bool) bool {
	return b != nil && *b
}

// Deref returns the pointed-to value, or the zero value for a nil pointer.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
