package params

import "fmt"

// Set maps parameter names to JSON-compatible values.
type Set map[string]any

// EncodeError reports a parameter value that could not be serialized.
type EncodeError struct {
	// Key is the parameter name. Empty when the whole set failed to encode.
	Key string
	// Err is the underlying serialization error.
	Err error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("params: encode: %v", e.Err)
	}
	return fmt.Sprintf("params: encode %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Clone returns a shallow copy of the set. A nil set clones to an empty set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a new set holding base overlaid with override.
// Values in override win on key collision. Neither input is modified.
func Merge(base, override Set) Set {
	out := make(Set, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether the set has no entries.
func (s Set) IsEmpty() bool {
	return len(s) == 0
}
