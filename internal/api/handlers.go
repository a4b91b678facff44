package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/cover"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/coverr"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/workflow"
)

const kindInvalidRequest = "invalid_request"

// CoverService is the subset of cover.Service the handlers use.
type CoverService interface {
	InferTitle(ctx context.Context, address string) (title.Report, error)
	GenerateWith(ctx context.Context, store cover.CredentialStore, text string) (workflow.ExtractedImage, error)
	GenerateForPageWith(ctx context.Context, store cover.CredentialStore, address string) (cover.Generation, error)
	Credentials() cover.CredentialStore
}

// TitleRequest is the body of POST /api/v1/titles.
type TitleRequest struct {
	Address string `binding:"required" json:"address"`
}

// CoverRequest is the body of POST /api/v1/covers. Exactly one of Title or
// Address is expected; Title wins when both are set. APIToken and
// WorkflowID override the configured credentials for this request.
type CoverRequest struct {
	Title      string `json:"title"`
	Address    string `json:"address"`
	APIToken   string `json:"api_token"`
	WorkflowID string `json:"workflow_id"`
}

// CoverResponse is returned by POST /api/v1/covers.
type CoverResponse struct {
	Title  string                  `json:"title"`
	Source title.Source            `json:"source,omitempty"`
	Image  workflow.ExtractedImage `json:"image"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Handler serves the cover API.
type Handler struct {
	service CoverService
	log     logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(service CoverService, log logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// InferTitle handles POST /api/v1/titles.
func (h *Handler) InferTitle(c *gin.Context) {
	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "address is required")
		return
	}

	report, err := h.service.InferTitle(c.Request.Context(), req.Address)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GenerateCover handles POST /api/v1/covers.
func (h *Handler) GenerateCover(c *gin.Context) {
	var req CoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Address = strings.TrimSpace(req.Address)
	if req.Title == "" && req.Address == "" {
		badRequest(c, "title or address is required")
		return
	}

	ctx := c.Request.Context()
	store := cover.OverrideCredentials{
		Base:     h.service.Credentials(),
		Override: workflow.Credentials{APIToken: req.APIToken, WorkflowID: req.WorkflowID},
	}

	if req.Title != "" {
		img, err := h.service.GenerateWith(ctx, store, req.Title)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, CoverResponse{Title: req.Title, Image: img})
		return
	}

	gen, err := h.service.GenerateForPageWith(ctx, store, req.Address)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CoverResponse{Title: gen.Title.Text, Source: gen.Title.Source, Image: gen.Image})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := coverr.HTTPStatus(err)
	kind := string(coverr.KindOf(err))
	if kind == "" {
		kind = "internal"
	}
	logger.FromContextOr(c.Request.Context(), h.log).Warn("Request failed",
		logger.String("kind", kind),
		logger.Int("status", status),
		logger.Error(err),
	)

	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: coverr.UserMessage(err), Kind: kind})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Kind: kindInvalidRequest})
}
