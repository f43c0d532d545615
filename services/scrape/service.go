// Package scrape drives the full catalog acquisition batch: every
// subject code across every known term, one browser session, strictly
// sequential.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"uocatalog-backend/lib/browser"
	"uocatalog-backend/lib/catalog"
	"uocatalog-backend/lib/scrapers/uocampus"
	"uocatalog-backend/lib/timezone"
	"uocatalog-backend/services/scrape/runstore"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/scrape")

// Source identifies where the data came from in trigger responses.
const Source = "uoCampus"

const defaultSubjectDelay = time.Second * 2

type PropagateConfig struct {
	Enabled bool `json:"enabled"`
	// Destinations are directories the per-term files get copied to.
	Destinations []string `json:"destinations"`
	// PopulateCommand is the external database-population command,
	// argv style. Opaque to this service.
	PopulateCommand []string `json:"populate_command"`
}

type Config struct {
	SearchURL string `json:"search_url"`
	DataDir   string `json:"data_dir"`
	// Windowed disables headless mode, for watching the scrape live.
	Windowed   bool   `json:"windowed"`
	ChromePath string `json:"chrome_path"`
	// SubjectDelaySeconds is the courtesy pacing between subjects.
	SubjectDelaySeconds int      `json:"subject_delay_seconds"`
	Subjects            []string `json:"subjects"`
	// RunDatabase is the sqlite run-ledger path, empty disables it.
	RunDatabase string          `json:"run_database"`
	Propagate   PropagateConfig `json:"propagate"`
}

func (c Config) searchURL() string {
	if c.SearchURL == "" {
		return uocampus.DefaultSearchURL
	}
	return c.SearchURL
}

func (c Config) dataDir() string {
	if c.DataDir == "" {
		return "data"
	}
	return c.DataDir
}

func (c Config) subjects() []string {
	if len(c.Subjects) > 0 {
		return c.Subjects
	}
	return DefaultSubjects
}

func (c Config) subjectDelay() time.Duration {
	if c.SubjectDelaySeconds > 0 {
		return time.Duration(c.SubjectDelaySeconds) * time.Second
	}
	return defaultSubjectDelay
}

type Service struct {
	cfg   Config
	store *runstore.Store
}

func NewService(cfg Config) (Service, error) {
	s := Service{cfg: cfg}
	if cfg.RunDatabase != "" {
		store, err := runstore.Open(cfg.RunDatabase)
		if err != nil {
			return Service{}, fmt.Errorf("open run database: %w", err)
		}
		s.store = &store
	}
	return s, nil
}

func (s Service) newSession(ctx context.Context) (*browser.Session, error) {
	return browser.NewSession(ctx, browser.Options{
		ExecPath: s.cfg.ChromePath,
		Headless: !s.cfg.Windowed,
	})
}

// Result is the trigger-interface response shape consumed by the thin
// HTTP layer in front of this core.
type Result struct {
	Source string                `json:"source"`
	Data   []uocampus.RawSection `json:"data"`
	Count  int                   `json:"count"`
}

// ScrapeSubject runs one subject/term query in a fresh browser session
// and returns the deduplicated flat records.
func (s Service) ScrapeSubject(ctx context.Context, subject, term string) (Result, error) {
	ctx, span := tracer.Start(ctx, "service:ScrapeSubject")
	defer span.End()

	// unmapped terms are a configuration error, fail before paying
	// for a browser
	_, err := uocampus.TermCode(term)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown term")
		return Result{}, err
	}

	session, err := s.newSession(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "start browser")
		return Result{}, err
	}
	defer session.Close()

	client := uocampus.NewClient(session, s.cfg.searchURL())
	sections, err := client.SearchSections(ctx, uocampus.SearchParams{
		Term:        term,
		SubjectCode: subject,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return Result{}, err
	}

	sections = catalog.Dedup(sections)
	return Result{
		Source: Source,
		Data:   sections,
		Count:  len(sections),
	}, nil
}

// TermSummary is the user-visible outcome of one term's batch.
type TermSummary struct {
	Term              string
	TermCode          string
	StartedAt         time.Time
	FinishedAt        time.Time
	SubjectsSucceeded int
	FailedSubjects    []string
	SectionCount      int
	CourseCount       int
	DroppedSections   int
	OutputPath        string
}

// RunBatch scrapes every known term across the full subject list and
// persists one grouped snapshot file per term plus the combined
// dataset. Per-subject failures are recorded and skipped; a term that
// did not finish its subject list is never persisted.
func (s Service) RunBatch(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "service:RunBatch")
	defer span.End()

	err := Probe(ctx, s.cfg.searchURL())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "target unreachable")
		return err
	}

	session, err := s.newSession(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "start browser")
		return err
	}
	defer session.Close()

	client := uocampus.NewClient(session, s.cfg.searchURL())

	var summaries []TermSummary
	byTerm := make(map[string][]catalog.GroupedCourse)

	for _, term := range uocampus.KnownTerms() {
		summary, courses, err := s.runTerm(ctx, client, term)
		if err != nil {
			// only context cancellation and persistence failures
			// escape runTerm, both end the batch
			span.RecordError(err)
			span.SetStatus(codes.Error, "term aborted")
			return fmt.Errorf("term %q: %w", term, err)
		}
		summaries = append(summaries, summary)
		byTerm[term] = courses
	}

	combinedPath, err := WriteCombinedFile(s.cfg.dataDir(), byTerm)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist combined dataset")
		return err
	}
	slog.InfoContext(ctx, "wrote combined dataset", "path", combinedPath)

	printSummaries(summaries)

	if s.cfg.Propagate.Enabled {
		var outputs []string
		for _, sum := range summaries {
			outputs = append(outputs, sum.OutputPath)
		}
		outputs = append(outputs, combinedPath)
		err := s.propagate(ctx, outputs)
		if err != nil {
			// propagation failures are reported but never invalidate
			// the snapshots already produced
			slog.ErrorContext(ctx, "propagation failed", "err", err)
		}
	}
	return nil
}

func (s Service) runTerm(ctx context.Context, client *uocampus.Client, term string) (TermSummary, []catalog.GroupedCourse, error) {
	ctx, span := tracer.Start(ctx, "service:runTerm")
	defer span.End()

	termCode, err := uocampus.TermCode(term)
	if err != nil {
		return TermSummary{}, nil, err
	}

	summary := TermSummary{
		Term:      term,
		TermCode:  termCode,
		StartedAt: timezone.Now(),
	}

	subjects := s.cfg.subjects()
	var accumulated []uocampus.RawSection

	for i, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return TermSummary{}, nil, err
		}

		slog.InfoContext(
			ctx, "scraping subject",
			"term", term,
			"subject", subject,
			"progress", fmt.Sprintf("%d/%d", i+1, len(subjects)),
		)

		sections, err := client.SearchSections(ctx, uocampus.SearchParams{
			Term:        term,
			SubjectCode: subject,
		})
		if err != nil {
			// per-subject isolation: one unreachable or malformed
			// subject must not abort the term
			slog.ErrorContext(
				ctx, "subject failed",
				"term", term,
				"subject", subject,
				"err", err,
			)
			summary.FailedSubjects = append(summary.FailedSubjects, subject)
		} else {
			summary.SubjectsSucceeded++
			accumulated = append(accumulated, sections...)
		}

		if i < len(subjects)-1 {
			// courtesy pacing against the target system
			err := sleepCtx(ctx, s.cfg.subjectDelay())
			if err != nil {
				return TermSummary{}, nil, err
			}
		}
	}

	// dedup must see the full accumulation so split-search repeats are
	// caught no matter which half produced them first
	deduped := catalog.Dedup(accumulated)
	grouped := catalog.GroupSections(deduped)

	summary.SectionCount = len(deduped)
	summary.CourseCount = len(grouped.Courses)
	summary.DroppedSections = grouped.Dropped
	summary.FinishedAt = timezone.Now()

	path, err := WriteTermFile(s.cfg.dataDir(), termCode, catalog.TermFile{Courses: grouped.Courses})
	if err != nil {
		return TermSummary{}, nil, fmt.Errorf("persist term snapshot: %w", err)
	}
	summary.OutputPath = path

	slog.InfoContext(
		ctx, "term complete",
		"term", term,
		"sections", summary.SectionCount,
		"courses", summary.CourseCount,
		"dropped", summary.DroppedSections,
		"failed_subjects", len(summary.FailedSubjects),
		"path", path,
	)

	if s.store != nil {
		err := s.store.Record(ctx, runstore.Run{
			Term:              term,
			TermCode:          termCode,
			StartedAt:         summary.StartedAt,
			FinishedAt:        summary.FinishedAt,
			SubjectsSucceeded: summary.SubjectsSucceeded,
			SectionCount:      summary.SectionCount,
			CourseCount:       summary.CourseCount,
			DroppedCount:      summary.DroppedSections,
			FailedSubjects:    summary.FailedSubjects,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to record run", "err", err)
		}
	}

	return summary, grouped.Courses, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func printSummaries(summaries []TermSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Term", "Subjects OK", "Subjects Failed", "Sections", "Courses", "Dropped", "Output"})
	for _, s := range summaries {
		t.AppendRow(table.Row{
			s.Term,
			s.SubjectsSucceeded,
			len(s.FailedSubjects),
			s.SectionCount,
			s.CourseCount,
			s.DroppedSections,
			s.OutputPath,
		})
	}
	t.Render()

	for _, s := range summaries {
		if len(s.FailedSubjects) > 0 {
			fmt.Printf("%s failed subjects: %v\n", s.Term, s.FailedSubjects)
		}
	}
}
