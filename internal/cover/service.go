// Package cover ties title inference and the workflow run into the
// operations the CLI and HTTP API expose.
package cover

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/coverr"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/page"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/workflow"
)

// PageLoader loads a page by address.
type PageLoader interface {
	Load(ctx context.Context, address string) (*page.Page, error)
}

// TitleEngine infers titles from documents.
type TitleEngine interface {
	Explain(doc title.Document, origin string) title.Report
}

// Runner executes a workflow run.
type Runner interface {
	Run(ctx context.Context, creds workflow.Credentials, title string) (workflow.ExtractedImage, error)
}

// Generation is the result of generating a cover for a page.
type Generation struct {
	Title title.Candidate         `json:"title"`
	Image workflow.ExtractedImage `json:"image"`
}

// Service is safe for concurrent use.
type Service struct {
	loader PageLoader
	engine TitleEngine
	runner Runner
	creds  CredentialStore
	log    logger.Logger
}

// NewService creates a Service.
func NewService(loader PageLoader, engine TitleEngine, runner Runner, creds CredentialStore, log logger.Logger) *Service {
	return &Service{loader: loader, engine: engine, runner: runner, creds: creds, log: log}
}

// InferTitle loads address and reports the inferred title. A page with no
// title candidate fails with TitleNotFound.
func (s *Service) InferTitle(ctx context.Context, address string) (title.Report, error) {
	p, err := s.loader.Load(ctx, address)
	if err != nil {
		return title.Report{}, err
	}

	report := s.engine.Explain(p.Document, p.Origin)
	if report.Title == nil {
		return report, coverr.TitleNotFound(p.Address)
	}

	s.log.Info("Title inferred",
		logger.String("address", p.Address),
		logger.String("source", string(report.Title.Source)),
	)
	return report, nil
}

// Generate runs the workflow for an explicit title.
func (s *Service) Generate(ctx context.Context, text string) (workflow.ExtractedImage, error) {
	return s.GenerateWith(ctx, s.creds, text)
}

// GenerateWith runs the workflow for text using the given credential store.
func (s *Service) GenerateWith(ctx context.Context, store CredentialStore, text string) (workflow.ExtractedImage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return workflow.ExtractedImage{}, coverr.TitleNotFound("")
	}

	creds, err := store.Credentials(ctx)
	if err != nil {
		return workflow.ExtractedImage{}, fmt.Errorf("load credentials: %w", err)
	}

	return s.runner.Run(ctx, creds, text)
}

// GenerateForPage infers the title of address and generates its cover.
func (s *Service) GenerateForPage(ctx context.Context, address string) (Generation, error) {
	return s.GenerateForPageWith(ctx, s.creds, address)
}

// GenerateForPageWith is GenerateForPage with an explicit credential store.
// On a workflow failure the inferred title is still returned.
func (s *Service) GenerateForPageWith(ctx context.Context, store CredentialStore, address string) (Generation, error) {
	report, err := s.InferTitle(ctx, address)
	if err != nil {
		return Generation{}, err
	}

	img, err := s.GenerateWith(ctx, store, report.Title.Text)
	if err != nil {
		return Generation{Title: *report.Title}, err
	}

	return Generation{Title: *report.Title, Image: img}, nil
}

// Credentials returns the service's default credential store.
func (s *Service) Credentials() CredentialStore {
	return s.creds
}
