// Package runstore keeps per-run scrape bookkeeping in sqlite so
// operators can tell how the last acquisition of a term went without
// digging through logs.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return Store{db: db}
}

// Open opens (and migrates) a sqlite database at the given path,
// ":memory:" included.
func Open(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	_, err = db.Exec(Schema)
	if err != nil {
		return Store{}, err
	}
	return Store{db: db}, nil
}

// Run is the outcome of scraping one term.
type Run struct {
	Term              string
	TermCode          string
	StartedAt         time.Time
	FinishedAt        time.Time
	SubjectsSucceeded int
	SectionCount      int
	CourseCount       int
	DroppedCount      int
	FailedSubjects    []string
}

func (s Store) Record(ctx context.Context, run Run) error {
	failed, err := json.Marshal(run.FailedSubjects)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO scrape_runs (
			term, term_code, started_at, finished_at,
			subjects_succeeded, subjects_failed,
			section_count, course_count, dropped_count, failed_subjects
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Term,
		run.TermCode,
		run.StartedAt.Unix(),
		run.FinishedAt.Unix(),
		run.SubjectsSucceeded,
		len(run.FailedSubjects),
		run.SectionCount,
		run.CourseCount,
		run.DroppedCount,
		string(failed),
	)
	return err
}

// Latest returns the most recent run recorded for a term code, or
// sql.ErrNoRows when the term has never been scraped.
func (s Store) Latest(ctx context.Context, termCode string) (Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT term, term_code, started_at, finished_at,
			subjects_succeeded, section_count, course_count,
			dropped_count, failed_subjects
		FROM scrape_runs
		WHERE term_code = ?
		ORDER BY started_at DESC
		LIMIT 1`,
		termCode,
	)

	var run Run
	var startedAt, finishedAt int64
	var failed string
	err := row.Scan(
		&run.Term,
		&run.TermCode,
		&startedAt,
		&finishedAt,
		&run.SubjectsSucceeded,
		&run.SectionCount,
		&run.CourseCount,
		&run.DroppedCount,
		&failed,
	)
	if err != nil {
		return Run{}, err
	}

	run.StartedAt = time.Unix(startedAt, 0)
	run.FinishedAt = time.Unix(finishedAt, 0)
	err = json.Unmarshal([]byte(failed), &run.FailedSubjects)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}
