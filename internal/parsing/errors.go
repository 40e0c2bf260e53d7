package parsing

import (
	"fmt"

	"github.com/jonathan/resume-ai/internal/tasks"
)

// ParseError represents a model response that could not be decoded into the task's shape,
// even after one repair pass
type ParseError struct {
	Task    tasks.Task
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error (%s): %s: %v", e.Task, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error (%s): %s", e.Task, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ProfessionRejectedError is returned when the model refused to generate content because the
// input is not a real profession
type ProfessionRejectedError struct {
	Message string
}

func (e *ProfessionRejectedError) Error() string {
	return fmt.Sprintf("profession rejected: %s", e.Message)
}
