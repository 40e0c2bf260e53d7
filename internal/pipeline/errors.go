package pipeline

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-ai/internal/llm"
	"github.com/jonathan/resume-ai/internal/parsing"
)

// InvalidProfessionCode is the error code reported for a rejected profession
const InvalidProfessionCode = "INVALID_PROFESSION"

// FieldError is a single invalid request field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError indicates the request was rejected before any AI call
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// Invalid returns a ValidationError for one field
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// fromValidator converts a validator/v10 error into a ValidationError
func fromValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "request", Message: err.Error()}}}
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		msg := "failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// InvalidProfessionError indicates the model refused a profession that is not a real job title
type InvalidProfessionError struct {
	Message string
}

func (e *InvalidProfessionError) Error() string {
	return fmt.Sprintf("invalid profession: %s", e.Message)
}

// Code returns the machine-readable error code
func (e *InvalidProfessionError) Code() string {
	return InvalidProfessionCode
}

// RateLimitedError indicates the caller exhausted the quota of an endpoint
type RateLimitedError struct {
	Endpoint   string
	Limit      int
	ResetTime  time.Time
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %d requests per window, retry after %s",
		e.Endpoint, e.Limit, e.RetryAfter.Round(time.Second))
}

// Kind separates caller mistakes from system failures
type Kind int

const (
	// KindNone is the kind of a nil error
	KindNone Kind = iota
	// KindSemantic errors are caused by the request and are reported to the caller as such
	KindSemantic
	// KindSystem errors are failures of a provider, the parser or the process
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSemantic:
		return "semantic"
	default:
		return "system"
	}
}

// Classify returns the kind of err
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var verr *ValidationError
	var perr *InvalidProfessionError
	var rerr *RateLimitedError
	if errors.As(err, &verr) || errors.As(err, &perr) || errors.As(err, &rerr) {
		return KindSemantic
	}
	return KindSystem
}

// Refundable reports whether a failed call should give its quota unit back.
// Only provider failures and unparseable responses are refunded.
func Refundable(err error) bool {
	var uerr *llm.UpstreamError
	var perr *parsing.ParseError
	return errors.As(err, &uerr) || errors.As(err, &perr)
}

// StatusCode maps an error to the HTTP status a handler should answer with
func StatusCode(err error) int {
	var (
		verr *ValidationError
		ierr *InvalidProfessionError
		rerr *RateLimitedError
		uerr *llm.UpstreamError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &ierr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &rerr):
		return http.StatusTooManyRequests
	case errors.As(err, &uerr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
