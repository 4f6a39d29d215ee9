package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harishas/autofolio/internal/domain"
	"github.com/harishas/autofolio/internal/observability/metrics"
	"github.com/harishas/autofolio/internal/reliability/circuitbreaker"
)

// TextExtractor turns an uploaded PDF into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, pdf []byte) (string, error)
}

// ResumeParser is the AI oracle: resume text in, structured record sets out.
type ResumeParser interface {
	Parse(ctx context.Context, text string) (*domain.ParsedResume, error)
}

// ResumeService drives the resume-import path: PDF -> text -> AI oracle ->
// bulk save through the CRUD engine. The oracle sits behind a circuit
// breaker so a dead AI backend fails fast.
type ResumeService struct {
	extractor TextExtractor
	parser    ResumeParser
	portfolio *PortfolioService
	breaker   *circuitbreaker.CircuitBreaker
	logger    *slog.Logger
}

// NewResumeService creates a new resume service
func NewResumeService(
	extractor TextExtractor,
	parser ResumeParser,
	portfolio *PortfolioService,
	logger *slog.Logger,
) *ResumeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResumeService{
		extractor: extractor,
		parser:    parser,
		portfolio: portfolio,
		breaker:   circuitbreaker.NewCircuitBreaker(5, 2, 30*time.Second),
		logger:    logger,
	}
}

// Parse extracts text from the PDF and asks the AI oracle for structured
// entries, without persisting anything.
func (s *ResumeService) Parse(ctx context.Context, pdf []byte) (*domain.ParsedResume, error) {
	if s.parser == nil {
		return nil, fmt.Errorf("resume parsing is not configured")
	}

	text, err := s.extractor.Extract(ctx, pdf)
	if err != nil {
		metrics.ObserveResumeImport("extract_error")
		return nil, fmt.Errorf("pdf extraction failed: %w", err)
	}

	if !s.breaker.AllowRequest() {
		metrics.ObserveResumeImport("breaker_open")
		return nil, fmt.Errorf("resume parser temporarily unavailable")
	}

	parsed, err := s.parser.Parse(ctx, text)
	if err != nil {
		s.breaker.RecordFailure()
		metrics.ObserveResumeImport("parse_error")
		return nil, fmt.Errorf("resume parsing failed: %w", err)
	}
	s.breaker.RecordSuccess()

	return parsed, nil
}

// Import parses the PDF and bulk-saves every extracted entry for the owner.
// Returns the parsed data and the number of entries stored.
func (s *ResumeService) Import(ctx context.Context, owner *domain.Account, pdf []byte) (*domain.ParsedResume, int, error) {
	parsed, err := s.Parse(ctx, pdf)
	if err != nil {
		return nil, 0, err
	}

	imported := 0
	for kind, entries := range parsed.ByKind() {
		for _, fields := range entries {
			// The oracle emits a bare "link" for projects; fold it into the
			// source-code slot before the schema whitelist drops it.
			if kind == domain.KindProjects {
				if link, ok := fields["link"]; ok {
					if _, has := fields["source_code_link"]; !has {
						fields["source_code_link"] = link
					}
				}
			}
			if _, err := s.portfolio.Save(ctx, owner, kind.String(), 0, fields); err != nil {
				metrics.ObserveResumeImport("save_error")
				return parsed, imported, err
			}
			imported++
		}
	}

	metrics.ObserveResumeImport("ok")
	s.logger.Info("resume imported",
		slog.Int64("account_id", owner.ID),
		slog.Int("entries", imported),
	)
	return parsed, imported, nil
}
