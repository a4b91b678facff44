// Package coverr defines the typed failures of the cover generator.
//
// Every failure path produces a *Error with a Kind so callers can branch with
// errors.Is against the exported sentinels and render UserMessage text.
package coverr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a cover generation failure.
type Kind string

const (
	KindConfigurationMissing    Kind = "configuration_missing"
	KindSubmissionFailed        Kind = "submission_failed"
	KindExecutionIDMissing      Kind = "execution_id_missing"
	KindPollTransportError      Kind = "poll_transport_error"
	KindPollTimeout             Kind = "poll_timeout"
	KindWorkflowExecutionFailed Kind = "workflow_execution_failed"
	KindNoImageFound            Kind = "no_image_found"
	KindTitleNotFound           Kind = "title_not_found"
	KindUnsupportedPage         Kind = "unsupported_page"
	KindPageUnavailable         Kind = "page_unavailable"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrConfigurationMissing    = &Error{Kind: KindConfigurationMissing}
	ErrSubmissionFailed        = &Error{Kind: KindSubmissionFailed}
	ErrExecutionIDMissing      = &Error{Kind: KindExecutionIDMissing}
	ErrPollTransportError      = &Error{Kind: KindPollTransportError}
	ErrPollTimeout             = &Error{Kind: KindPollTimeout}
	ErrWorkflowExecutionFailed = &Error{Kind: KindWorkflowExecutionFailed}
	ErrNoImageFound            = &Error{Kind: KindNoImageFound}
	ErrTitleNotFound           = &Error{Kind: KindTitleNotFound}
	ErrUnsupportedPage         = &Error{Kind: KindUnsupportedPage}
	ErrPageUnavailable         = &Error{Kind: KindPageUnavailable}
)

// Error is a classified cover generation failure.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       string
	Keys       []string
	Message    string
	Address    string
	Attempts   int
	Cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))

	switch e.Kind {
	case KindConfigurationMissing:
		if len(e.Keys) > 0 {
			fmt.Fprintf(&b, ": missing %s", strings.Join(e.Keys, ", "))
		}
	case KindSubmissionFailed:
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
		if e.Body != "" {
			fmt.Fprintf(&b, ": %s", truncate(e.Body, maxBodyInError))
		}
	case KindExecutionIDMissing:
		fmt.Fprintf(&b, ": response keys [%s]", strings.Join(e.Keys, ", "))
	case KindPollTimeout:
		fmt.Fprintf(&b, ": no terminal status after %d attempts", e.Attempts)
	case KindUnsupportedPage, KindPageUnavailable:
		fmt.Fprintf(&b, ": %s", e.Address)
	}

	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

const maxBodyInError = 512

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ConfigurationMissing reports which credential fields are absent.
func ConfigurationMissing(fields ...string) *Error {
	return &Error{Kind: KindConfigurationMissing, Keys: fields}
}

// SubmissionFailed records a non-success submission response.
func SubmissionFailed(statusCode int, body string, cause error) *Error {
	return &Error{Kind: KindSubmissionFailed, StatusCode: statusCode, Body: body, Cause: cause}
}

// ExecutionIDMissing lists the top-level keys of the unrecognised response.
func ExecutionIDMissing(keys []string) *Error {
	return &Error{Kind: KindExecutionIDMissing, Keys: keys}
}

// PollTimeout records how many attempts ran and the last swallowed transport error, if any.
func PollTimeout(attempts int, lastErr error) *Error {
	return &Error{Kind: KindPollTimeout, Attempts: attempts, Cause: lastErr}
}

// PollTransport wraps a failed poll attempt. It is retried, not surfaced.
func PollTransport(cause error) *Error {
	return &Error{Kind: KindPollTransportError, Cause: cause}
}

// WorkflowExecutionFailed carries the remote failure message.
func WorkflowExecutionFailed(message string) *Error {
	return &Error{Kind: KindWorkflowExecutionFailed, Message: message}
}

// NoImageFound is returned when a terminal payload has no image reference.
func NoImageFound(mode string) *Error {
	return &Error{Kind: KindNoImageFound, Message: mode + " response"}
}

// TitleNotFound is returned when no title could be inferred or none was given.
func TitleNotFound(address string) *Error {
	return &Error{Kind: KindTitleNotFound, Address: address}
}

// UnsupportedPage is returned for addresses the generator cannot read.
func UnsupportedPage(address string) *Error {
	return &Error{Kind: KindUnsupportedPage, Address: address}
}

// PageUnavailable is returned when a readable page could not be loaded.
func PageUnavailable(address string, cause error) *Error {
	return &Error{Kind: KindPageUnavailable, Address: address, Cause: cause}
}

// HTTPStatus maps a failure to the status code the API responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindConfigurationMissing, KindTitleNotFound, KindUnsupportedPage:
		return http.StatusBadRequest
	case KindSubmissionFailed, KindExecutionIDMissing, KindWorkflowExecutionFailed,
		KindNoImageFound, KindPageUnavailable, KindPollTransportError:
		return http.StatusBadGateway
	case KindPollTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
