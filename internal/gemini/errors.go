package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"google.golang.org/genai"
)

// ErrEmptyResponse reports that the service answered without any usable text
// or audio payload.
var ErrEmptyResponse = errors.New("gemini api returned empty response")

var (
	errEmptyPrompt      = errors.New("prompt must not be empty")
	errEmptyInstruction = errors.New("system instruction must not be empty")
)

// AuthError reports a credential problem. It is fatal to starting any
// session; callers must not retry it.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gemini authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("gemini authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NetworkError reports a failed call to the generative service. It is
// recoverable by a user-initiated retry of the same action.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("gemini request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// classify maps raw SDK errors onto the typed failure taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var authErr *AuthError
	var netErr *NetworkError
	if errors.As(err, &authErr) || errors.As(err, &netErr) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Reason: apiErr.Status, Err: err}
		}
	}

	return &NetworkError{Err: err}
}

var retryDelayRe = regexp.MustCompile(`retry after (\d+)`)

const maxRetryDelaySeconds = 30

// isTemporary reports whether the error is worth an automatic retry. Server
// errors are; quota errors only when the advertised delay is short.
func isTemporary(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	if apiErr.Code >= http.StatusInternalServerError {
		return true
	}

	if apiErr.Code == http.StatusTooManyRequests {
		if match := retryDelayRe.FindStringSubmatch(apiErr.Message); match != nil {
			seconds, convErr := strconv.Atoi(match[1])
			if convErr == nil && seconds > maxRetryDelaySeconds {
				return false
			}
		}
		return true
	}

	return false
}
