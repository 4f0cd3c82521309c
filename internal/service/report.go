package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/domain/model"
)

// ReportServiceOptions groups dependencies for ReportService.
type ReportServiceOptions struct {
	Reports  core.ReportRepository // Required
	Cache    core.CacheRepository  // Optional: composed document cache
	CacheTTL time.Duration
	Logger   *slog.Logger // Optional
}

// ReportService merges parsed sections into reports and serves the
// composed document. Cache invalidation is best-effort and not
// transactional with the section write; a short stale-read window is
// accepted.
type ReportService struct {
	reports  core.ReportRepository
	cache    core.CacheRepository
	cacheTTL time.Duration
	log      *slog.Logger
}

const defaultReportCacheTTL = 15 * time.Minute

// NewReportService constructs a new ReportService.
func NewReportService(opts ReportServiceOptions) (*ReportService, error) {
	if opts.Reports == nil {
		return nil, errors.New("ReportRepository is required")
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultReportCacheTTL
	}
	return &ReportService{
		reports:  opts.Reports,
		cache:    opts.Cache,
		cacheTTL: ttl,
		log:      opts.Logger,
	}, nil
}

// MustNewReportService constructs a new ReportService and panics on error.
func MustNewReportService(opts ReportServiceOptions) *ReportService {
	svc, err := NewReportService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create ReportService: %v", err))
	}
	return svc
}

func (s *ReportService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

func reportCacheKey(reportID string) string {
	return "report:doc:" + reportID
}

// EnsureExists creates the report row when it is missing and returns
// it either way, so callers can submit work against a fresh report id.
func (s *ReportService) EnsureExists(ctx context.Context, reportID string) (*model.Report, error) {
	return s.reports.EnsureExists(ctx, reportID)
}

// MergeSections writes each update into its own section row, leaving
// untouched sections alone, then records the generation outcome and
// invalidates the document cache. A nil outcome marks a fallback
// merge, which leaves the report's generation columns untouched.
func (s *ReportService) MergeSections(ctx context.Context, reportID string, updates []model.SectionUpdate, outcome *model.GenerationOutcome) error {
	if len(updates) == 0 {
		return nil
	}
	if _, err := s.reports.EnsureExists(ctx, reportID); err != nil {
		return fmt.Errorf("ensure report: %w", err)
	}
	var usedModel *string
	if outcome != nil && outcome.Model != "" {
		usedModel = &outcome.Model
	}
	for _, u := range updates {
		sec, err := s.reports.UpsertSection(ctx, core.UpsertSectionParams{
			ReportID:       reportID,
			Section:        u.Section,
			Payload:        u.Payload,
			AIAnalysisUsed: u.AIAnalysisUsed,
			Model:          usedModel,
		})
		if err != nil {
			return fmt.Errorf("upsert section %s: %w", u.Section, err)
		}
		s.logger().InfoContext(ctx, "section merged",
			"report_id", reportID, "section", u.Section,
			"version", sec.Version, "ai_analysis_used", u.AIAnalysisUsed)
	}
	if outcome != nil {
		if err := s.reports.RecordGeneration(ctx, reportID, *outcome); err != nil {
			return fmt.Errorf("record generation: %w", err)
		}
	}
	s.invalidate(ctx, reportID)
	return nil
}

func (s *ReportService) invalidate(ctx context.Context, reportID string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Delete(ctx, reportCacheKey(reportID)); err != nil {
		s.logger().WarnContext(ctx, "cache invalidation failed",
			"report_id", reportID, "error", err)
	}
}

// GetDocument returns the composed report: form data plus every
// generated section, served from cache when present.
func (s *ReportService) GetDocument(ctx context.Context, reportID string) (*model.ReportDocument, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, reportCacheKey(reportID)); err != nil {
			s.logger().WarnContext(ctx, "cache read failed", "report_id", reportID, "error", err)
		} else if raw != nil {
			var doc model.ReportDocument
			if err := json.Unmarshal(raw, &doc); err == nil {
				return &doc, nil
			}
			s.logger().WarnContext(ctx, "discarding undecodable cached document", "report_id", reportID)
		}
	}

	rep, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	sections, err := s.reports.ListSections(ctx, reportID)
	if err != nil {
		return nil, err
	}

	doc := &model.ReportDocument{
		ID:       rep.ID,
		FormData: rep.FormData,
		Sections: make(map[model.Section]*model.SectionView, len(sections)),
	}
	if rep.Content != nil {
		doc.Content = *rep.Content
	}
	for _, sec := range sections {
		doc.Version += sec.Version
		doc.Sections[sec.Section] = &model.SectionView{
			Payload:        sec.Payload,
			AIAnalysisUsed: sec.AIAnalysisUsed,
			Version:        sec.Version,
			UpdatedAt:      sec.UpdatedAt,
		}
	}
	if rep.GeneratedAt != nil {
		doc.Metadata = &model.GenerationMetadata{GeneratedAt: *rep.GeneratedAt}
		if rep.Model != nil {
			doc.Metadata.Model = *rep.Model
		}
		if rep.Tokens != nil {
			doc.Metadata.Tokens = *rep.Tokens
		}
		if rep.DurationMs != nil {
			doc.Metadata.DurationMs = *rep.DurationMs
		}
	}

	s.cacheDocument(ctx, reportID, doc)
	return doc, nil
}

func (s *ReportService) cacheDocument(ctx context.Context, reportID string, doc *model.ReportDocument) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		s.logger().WarnContext(ctx, "marshaling document for cache", "report_id", reportID, "error", err)
		return
	}
	if err := s.cache.Set(ctx, reportCacheKey(reportID), raw, s.cacheTTL); err != nil {
		s.logger().WarnContext(ctx, "cache write failed", "report_id", reportID, "error", err)
	}
}
