package report

import (
	"errors"

	"github.com/nhle/blocked-report/internal/source"
)

// Failure categorizes why a report could not be produced.
type Failure int

const (
	FailureNone Failure = iota
	FailureValidation
	FailureHTTP
	FailureOther
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureValidation:
		return "validation"
	case FailureHTTP:
		return "http"
	default:
		return "other"
	}
}

// Classify maps an error returned by Generate to its category.
func Classify(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrMissingCredentials):
		return FailureValidation
	case source.IsHTTPError(err):
		return FailureHTTP
	default:
		return FailureOther
	}
}

// Describe returns the user-facing message for a failed run.
func Describe(err error) string {
	switch Classify(err) {
	case FailureNone:
		return ""
	case FailureValidation:
		return "Please enter both Jira email and API token."
	case FailureHTTP:
		return "HTTP error: " + err.Error()
	default:
		return "An error occurred: " + err.Error()
	}
}
