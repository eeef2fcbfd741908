package source

import (
	"errors"
	"fmt"
	"strings"
)

// Credentials identify the caller to an issue tracker using HTTP basic
// authentication. They are passed per call and never stored.
type Credentials struct {
	Email string
	Token string
}

// Complete reports whether both the identifier and the secret are set.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Email) != "" && strings.TrimSpace(c.Token) != ""
}

// String hides the secret so credentials are safe to print.
func (c Credentials) String() string {
	return fmt.Sprintf("%s:***", c.Email)
}

// HTTPError indicates the tracker answered with a non-success status.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d on %s %s", e.StatusCode, e.Method, e.Path)
	}
	return fmt.Sprintf("%d on %s %s: %s", e.StatusCode, e.Method, e.Path, e.Message)
}

// IsHTTPError reports whether err (or any error in its chain) is an HTTPError.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}
