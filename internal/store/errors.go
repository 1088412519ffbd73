package store

import "fmt"

// ValueError is returned by Incr when the stored value is not an integer.
type ValueError struct {
	Key   string
	Value string
	Cause error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("value at %q is not an integer (%q): %v", e.Key, e.Value, e.Cause)
}

func (e *ValueError) Unwrap() error {
	return e.Cause
}
