// Package workflow submits a cover workflow run and drives it to a final
// image URL.
//
// A submission is classified once as synchronous (the image is inline) or
// asynchronous (an execution id is returned). Asynchronous runs are polled at
// a fixed interval up to an attempt ceiling. A failed poll attempt is retried;
// a failed job is not.
package workflow

import (
	"context"

	"github.com/tidwall/gjson"
)

// Credentials authorises a run against a specific workflow.
type Credentials struct {
	APIToken   string
	WorkflowID string
}

// Missing lists the names of empty credential fields.
func (c Credentials) Missing() []string {
	var missing []string
	if c.APIToken == "" {
		missing = append(missing, "api_token")
	}
	if c.WorkflowID == "" {
		missing = append(missing, "workflow_id")
	}
	return missing
}

// Submission is one generation request.
type Submission struct {
	WorkflowID string
	InputTitle string
}

// Mode is the execution mode derived from a submission response.
type Mode string

const (
	ModeSync  Mode = "sync"
	ModeAsync Mode = "async"
)

// RunResult is a classified submission response. Payload is set for
// ModeSync, ExecutionID for ModeAsync.
type RunResult struct {
	Mode        Mode
	Payload     gjson.Result
	ExecutionID string
}

// State is the state of an asynchronous run after one status query.
type State int

const (
	StateRunning State = iota
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "running"
	}
}

// PollOutcome is derived from one status document.
type PollOutcome struct {
	State   State
	Status  string
	Payload gjson.Result
	Message string
}

// ExtractedImage is the result of a successful run.
type ExtractedImage struct {
	URL         string `json:"url"`
	Mode        Mode   `json:"mode"`
	ExecutionID string `json:"execution_id,omitempty"`
	RunID       string `json:"run_id"`
}

// Transport reaches the workflow API.
type Transport interface {
	// Submit starts a run. Failures are *coverr.Error of kind SubmissionFailed.
	Submit(ctx context.Context, token string, sub Submission) (gjson.Result, error)
	// Retrieve queries the status of an execution. Failures are retryable.
	Retrieve(ctx context.Context, token, executionID string) (gjson.Result, error)
}

// Observer receives run metrics.
type Observer interface {
	ObserveRun(mode Mode, outcome string)
	ObservePollAttempts(attempts int)
}

type nopObserver struct{}

func (nopObserver) ObserveRun(Mode, string) {}
func (nopObserver) ObservePollAttempts(int) {}
