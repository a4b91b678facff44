package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/coverr"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
)

// DefaultBaseURL is the Coze workflow API.
const DefaultBaseURL = "https://api.coze.cn/v1"

const (
	runPath      = "/workflow/run"
	retrievePath = "/workflow/run/retrieve"
)

var errInvalidJSON = errors.New("response body is not valid JSON")

type runRequest struct {
	WorkflowID string        `json:"workflow_id"`
	Parameters runParameters `json:"parameters"`
}

type runParameters struct {
	Input string `json:"input"`
}

// Client is the resty-backed Transport for the workflow API.
type Client struct {
	rest *resty.Client
	log  logger.Logger
}

var _ Transport = (*Client)(nil)

// NewClient creates a workflow API client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, httpClient *http.Client, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	rest := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{rest: rest, log: log}
}

// Submit posts a run with the title as the only input parameter.
func (c *Client) Submit(ctx context.Context, token string, sub Submission) (gjson.Result, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(runRequest{
			WorkflowID: sub.WorkflowID,
			Parameters: runParameters{Input: sub.InputTitle},
		}).
		Post(runPath)
	if err != nil {
		return gjson.Result{}, coverr.SubmissionFailed(0, "", fmt.Errorf("post workflow run: %w", err))
	}

	body := resp.String()
	if !resp.IsSuccess() {
		return gjson.Result{}, coverr.SubmissionFailed(resp.StatusCode(), body, nil)
	}
	if !gjson.Valid(body) {
		return gjson.Result{}, coverr.SubmissionFailed(resp.StatusCode(), body, errInvalidJSON)
	}

	c.log.Debug("Workflow run submitted",
		logger.String("workflow_id", sub.WorkflowID),
		logger.Int("status_code", resp.StatusCode()),
	)

	return gjson.Parse(body), nil
}

// Retrieve queries the status of one execution.
func (c *Client) Retrieve(ctx context.Context, token, executionID string) (gjson.Result, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("execute_id", executionID).
		Get(retrievePath)
	if err != nil {
		return gjson.Result{}, coverr.PollTransport(fmt.Errorf("get workflow status: %w", err))
	}
	if !resp.IsSuccess() {
		return gjson.Result{}, coverr.PollTransport(fmt.Errorf("get workflow status: HTTP %d", resp.StatusCode()))
	}

	body := resp.String()
	if !gjson.Valid(body) {
		return gjson.Result{}, coverr.PollTransport(errInvalidJSON)
	}

	return gjson.Parse(body), nil
}
