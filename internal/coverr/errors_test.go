package coverr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/coverr"
)

func TestError_IsMatchesKind(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("run workflow: %w", coverr.WorkflowExecutionFailed("boom"))

	assert.ErrorIs(t, err, coverr.ErrWorkflowExecutionFailed)
	assert.NotErrorIs(t, err, coverr.ErrPollTimeout)
	assert.Equal(t, coverr.KindWorkflowExecutionFailed, coverr.KindOf(err))
}

func TestError_UnwrapExposesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := coverr.PollTimeout(30, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "30 attempts")
}

func TestError_MessagesAreDistinct(t *testing.T) {
	t.Parallel()

	errs := []error{
		coverr.ConfigurationMissing("api_token"),
		coverr.SubmissionFailed(http.StatusUnauthorized, "bad token", nil),
		coverr.ExecutionIDMissing([]string{"code", "msg"}),
		coverr.PollTransport(errors.New("reset")),
		coverr.PollTimeout(30, nil),
		coverr.WorkflowExecutionFailed("boom"),
		coverr.NoImageFound("poll"),
		coverr.TitleNotFound(""),
		coverr.UnsupportedPage("chrome://settings"),
		coverr.PageUnavailable("https://example.com", errors.New("dial")),
	}

	seen := make(map[string]bool)
	for _, err := range errs {
		msg := coverr.UserMessage(err)
		assert.NotEmpty(t, msg)
		assert.NotEqual(t, "failed", msg)
		assert.False(t, seen[msg], "duplicate message %q", msg)
		seen[msg] = true
	}
}

func TestUserMessage_Details(t *testing.T) {
	t.Parallel()

	assert.Contains(t, coverr.UserMessage(coverr.WorkflowExecutionFailed("boom")), "boom")
	assert.Contains(t, coverr.UserMessage(coverr.ExecutionIDMissing([]string{"code", "msg"})), "code, msg")
	assert.Contains(t, coverr.UserMessage(coverr.SubmissionFailed(401, "", nil)), "401")
	assert.Contains(t, coverr.UserMessage(errors.New("plain")), "plain")
	assert.Empty(t, coverr.UserMessage(nil))
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config", coverr.ConfigurationMissing(), http.StatusBadRequest},
		{"title", coverr.TitleNotFound("x"), http.StatusBadRequest},
		{"unsupported", coverr.UnsupportedPage("edge://x"), http.StatusBadRequest},
		{"submission", coverr.SubmissionFailed(500, "", nil), http.StatusBadGateway},
		{"no image", coverr.NoImageFound("sync"), http.StatusBadGateway},
		{"timeout", coverr.PollTimeout(30, nil), http.StatusGatewayTimeout},
		{"untyped", errors.New("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, coverr.HTTPStatus(tt.err))
		})
	}
}
