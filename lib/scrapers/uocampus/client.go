package uocampus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"uocatalog-backend/lib/browser"

	"go.opentelemetry.io/otel/codes"
)

// DefaultSearchURL is the public class-search entry point.
const DefaultSearchURL = "https://uocampus.uottawa.ca/psc/csprpr9pub/EMPLOYEE/SA/c/UO_SR_AACRAO.UO_PUB_CLSSRCH.GBL"

// how long the post-search render gets before the attempt fails
const defaultResultsTimeout = time.Second * 45

// Client drives one browser session against the class search. Calls
// are strictly sequential: the session is a stateful shared resource
// and every search starts from a fresh navigation, the form is not
// reliably resettable in place.
type Client struct {
	session        *browser.Session
	searchURL      string
	resultsTimeout time.Duration
	pollInterval   time.Duration
}

func NewClient(session *browser.Session, searchURL string) *Client {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &Client{
		session:        session,
		searchURL:      searchURL,
		resultsTimeout: defaultResultsTimeout,
		pollInterval:   browser.DefaultPollInterval,
	}
}

// SearchSections runs one query end to end. When the platform reports
// that the query would exceed its 300-section cap, the query is re-run
// partitioned by catalog-number range and the halves merged; duplicates
// introduced by the split are the Deduplicator's problem, downstream.
func (c *Client) SearchSections(ctx context.Context, params SearchParams) ([]RawSection, error) {
	ctx, span := tracer.Start(ctx, "client:SearchSections")
	defer span.End()

	sections, state, err := c.runSearch(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, err
	}
	if state != ResultOverflow {
		return sections, nil
	}

	slog.InfoContext(
		ctx, "result limit exceeded, partitioning query",
		"subject", params.SubjectCode,
		"term", params.Term,
	)

	var merged []RawSection
	low, high := PartitionParams(params)
	for _, half := range []SearchParams{low, high} {
		halfSections, halfState, err := c.runSearch(ctx, half)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "partitioned search failed")
			return nil, fmt.Errorf("partitioned search (%s): %w", half.CourseNumber, err)
		}
		if halfState == ResultOverflow {
			// fixed split point, a half that still overflows is a
			// known limitation
			slog.WarnContext(
				ctx, "partitioned query still exceeds the result limit, sections lost",
				"subject", half.SubjectCode,
				"course_number", half.CourseNumber,
			)
			continue
		}
		merged = append(merged, halfSections...)
	}
	return merged, nil
}

// runSearch performs one fresh navigation + resolve + drive + extract
// pass. It reports the overflow state instead of recursing so the
// caller controls partitioning.
func (c *Client) runSearch(ctx context.Context, params SearchParams) ([]RawSection, ResultState, error) {
	ctx, span := tracer.Start(ctx, "client:runSearch")
	defer span.End()

	fail := func(stage string, err error) ([]RawSection, ResultState, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, stage)
		return nil, ResultPending, fmt.Errorf("%s: %w", stage, err)
	}

	err := c.session.Navigate(ctx, c.searchURL)
	if err != nil {
		return fail("navigate", err)
	}

	docs, err := c.snapshotDocuments(ctx)
	if err != nil {
		return fail("snapshot", err)
	}

	ws, err := Resolve(docs)
	if err != nil {
		// the dump is the only way an operator can diagnose shifted
		// identifiers without replaying the session
		slog.ErrorContext(
			ctx, "failed to resolve search form",
			"err", err,
			"structure", StructuralDump(docs),
		)
		return fail("resolve form", err)
	}

	err = DriveForm(ctx, c.session, ws, params)
	if err != nil {
		return fail("drive form", err)
	}

	resultsDoc, state, err := c.waitForResults(ctx)
	if err != nil {
		return fail("wait for results", err)
	}
	if state == ResultEmpty || state == ResultOverflow {
		return nil, state, nil
	}

	sections := ExtractSections(resultsDoc.Doc, params)
	slog.DebugContext(
		ctx, "extracted sections",
		"subject", params.SubjectCode,
		"term", params.Term,
		"count", len(sections),
	)
	return sections, state, nil
}

func (c *Client) snapshotDocuments(ctx context.Context) ([]Document, error) {
	snapshots, err := c.session.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	frames := make([]FrameHTML, len(snapshots))
	for i, s := range snapshots {
		frames[i] = FrameHTML{Path: s.Path, HTML: s.HTML}
	}
	return ParseSnapshots(frames)
}

// waitForResults polls the session's frames until one of them shows a
// terminal search outcome: rendered results, the no-results report or
// the overflow warning.
func (c *Client) waitForResults(ctx context.Context) (Document, ResultState, error) {
	deadline := time.Now().Add(c.resultsTimeout)
	for {
		docs, err := c.snapshotDocuments(ctx)
		if err != nil {
			return Document{}, ResultPending, err
		}

		for _, d := range docs {
			state := ClassifyResults(d.Doc)
			if state != ResultPending {
				return d, state, nil
			}
		}

		if time.Now().After(deadline) {
			return Document{}, ResultPending, fmt.Errorf(
				"no results rendered after %s", c.resultsTimeout,
			)
		}
		select {
		case <-ctx.Done():
			return Document{}, ResultPending, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}
