// Package repair fixes common syntax faults in model-generated JSON with a single deterministic pass.
package repair

import "fmt"

// Error is returned when the repaired text is still not valid JSON
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("repair error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("repair error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
