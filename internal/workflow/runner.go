package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/coverr"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/extract"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
)

// Poll policy defaults.
const (
	DefaultMaxAttempts  = 30
	DefaultPollInterval = 2 * time.Second
)

// Outcome labels passed to Observer.ObserveRun.
const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeTimeout  = "timeout"
	OutcomeNoImage  = "no_image"
	OutcomeCanceled = "canceled"
)

var errStillRunning = errors.New("workflow still running")

// Runner drives a workflow run to an image URL. It holds no per-run state,
// so one Runner serves concurrent runs.
type Runner struct {
	transport   Transport
	log         logger.Logger
	observer    Observer
	maxAttempts int
	interval    time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithPollPolicy sets the attempt ceiling and the delay between attempts.
// Non-positive values keep the defaults.
func WithPollPolicy(maxAttempts int, interval time.Duration) Option {
	return func(r *Runner) {
		if maxAttempts > 0 {
			r.maxAttempts = maxAttempts
		}
		if interval > 0 {
			r.interval = interval
		}
	}
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// NewRunner creates a Runner over the given transport.
func NewRunner(transport Transport, log logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		transport:   transport,
		log:         log,
		observer:    nopObserver{},
		maxAttempts: DefaultMaxAttempts,
		interval:    DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run submits title to the workflow and returns the generated image URL.
// Missing credentials fail before any request is made.
func (r *Runner) Run(ctx context.Context, creds Credentials, title string) (ExtractedImage, error) {
	if missing := creds.Missing(); len(missing) > 0 {
		return ExtractedImage{}, coverr.ConfigurationMissing(missing...)
	}

	runID := uuid.NewString()
	log := logger.FromContextOr(ctx, r.log).With(logger.String("run_id", runID), logger.String("workflow_id", creds.WorkflowID))

	doc, err := r.transport.Submit(ctx, creds.APIToken, Submission{WorkflowID: creds.WorkflowID, InputTitle: title})
	if err != nil {
		log.Error("Workflow submission failed", logger.Error(err))
		return ExtractedImage{}, err
	}

	result, err := Classify(doc)
	if err != nil {
		log.Error("Workflow submission not recognised", logger.Error(err))
		return ExtractedImage{}, err
	}

	if result.Mode == ModeSync {
		url, ok := extract.FromSync(result.Payload)
		if !ok {
			r.observer.ObserveRun(ModeSync, OutcomeNoImage)
			log.Error("Synchronous workflow response has no image", logger.String("body", truncate(doc.Raw)))
			return ExtractedImage{}, coverr.NoImageFound(string(ModeSync))
		}
		r.observer.ObserveRun(ModeSync, OutcomeSuccess)
		log.Info("Workflow completed synchronously", logger.String("image_url", url))
		return ExtractedImage{URL: url, Mode: ModeSync, RunID: runID}, nil
	}

	log = log.With(logger.String("execution_id", result.ExecutionID))
	log.Info("Workflow accepted, polling for result")

	payload, err := r.poll(ctx, log, creds.APIToken, result.ExecutionID)
	if err != nil {
		return ExtractedImage{}, err
	}

	url, ok := extract.FromPoll(payload)
	if !ok {
		r.observer.ObserveRun(ModeAsync, OutcomeNoImage)
		log.Error("Workflow finished without an image", logger.String("body", truncate(payload.Raw)))
		return ExtractedImage{}, coverr.NoImageFound(string(ModeAsync))
	}

	r.observer.ObserveRun(ModeAsync, OutcomeSuccess)
	log.Info("Workflow completed", logger.String("image_url", url))

	return ExtractedImage{URL: url, Mode: ModeAsync, ExecutionID: result.ExecutionID, RunID: runID}, nil
}

// poll queries the execution until it reaches a terminal status or the
// attempt ceiling. Transport failures and non-terminal statuses are retried.
func (r *Runner) poll(ctx context.Context, log logger.Logger, token, executionID string) (gjson.Result, error) {
	var (
		attempts int
		lastErr  error
		final    gjson.Result
	)

	backoff := retry.WithMaxRetries(uint64(r.maxAttempts-1), retry.NewConstant(r.interval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++

		doc, err := r.transport.Retrieve(ctx, token, executionID)
		if err != nil {
			lastErr = err
			log.Warn("Workflow status query failed, retrying",
				logger.Int("attempt", attempts),
				logger.Error(err),
			)
			return retry.RetryableError(err)
		}
		lastErr = nil

		outcome := Interpret(doc)
		log.Debug("Workflow status",
			logger.Int("attempt", attempts),
			logger.String("status", outcome.Status),
			logger.String("state", outcome.State.String()),
		)

		switch outcome.State {
		case StateSucceeded:
			final = outcome.Payload
			return nil
		case StateFailed:
			return coverr.WorkflowExecutionFailed(outcome.Message)
		default:
			return retry.RetryableError(errStillRunning)
		}
	})

	r.observer.ObservePollAttempts(attempts)

	switch {
	case err == nil:
		return final, nil
	case errors.Is(err, coverr.ErrWorkflowExecutionFailed):
		r.observer.ObserveRun(ModeAsync, OutcomeFailed)
		log.Error("Workflow execution failed", logger.Error(err))
		return gjson.Result{}, err
	case ctx.Err() != nil:
		r.observer.ObserveRun(ModeAsync, OutcomeCanceled)
		return gjson.Result{}, fmt.Errorf("poll workflow %s: %w", executionID, ctx.Err())
	default:
		r.observer.ObserveRun(ModeAsync, OutcomeTimeout)
		timeout := coverr.PollTimeout(attempts, lastErr)
		log.Error("Workflow polling timed out", logger.Error(timeout))
		return gjson.Result{}, timeout
	}
}

const maxLoggedBody = 2048

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "..."
}
