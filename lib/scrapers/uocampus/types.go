// Package uocampus scrapes the uoCampus class search, a legacy
// session-based PeopleSoft UI rendered inside dynamically numbered
// nested frames. The package splits into a pure layer (resolver,
// extractor, overflow detection: plain functions over parsed documents,
// testable against fixtures) and a browser layer (form driving through
// a chromedp session).
package uocampus

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the enrollment status of one section row.
type Status string

const (
	StatusOpen     Status = "Open"
	StatusClosed   Status = "Closed"
	StatusWaitlist Status = "Waitlist"
	StatusUnknown  Status = "Unknown"
)

// SectionTypeUnknown marks rows whose section code did not match the
// expected "<Letters><Digits>-<Type>" shape. Such rows are retained,
// never dropped.
const SectionTypeUnknown = "UNKNOWN"

var ErrUnknownTerm = errors.New("no internal code for term")

// termCodes maps the display term names the product knows about to the
// internal 4-digit codes the search form wants.
var termCodes = map[string]string{
	"2025 Fall Term":   "2259",
	"2026 Winter Term": "2261",
}

// termOrder fixes batch processing order.
var termOrder = []string{
	"2025 Fall Term",
	"2026 Winter Term",
}

func TermCode(term string) (string, error) {
	code, ok := termCodes[term]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTerm, term)
	}
	return code, nil
}

func KnownTerms() []string {
	out := make([]string, len(termOrder))
	copy(out, termOrder)
	return out
}

// SearchParams describes one class-search query.
type SearchParams struct {
	// Term is a display term name with a known internal code,
	// anything else is a fatal configuration error for the attempt.
	Term        string
	SubjectCode string
	// CourseNumber optionally filters by catalog number. It may be
	// comparator-qualified ("<=3000", ">=3001"), which the overflow
	// workaround relies on.
	CourseNumber string
	// OpenClassesOnly is always driven to false: the catalog wants
	// closed sections too.
	OpenClassesOnly bool
}

// CourseNumberFilter is a CourseNumber split into its comparator and
// value. Comparator maps onto the form's condition dropdown.
type CourseNumberFilter struct {
	// Comparator is "E" (exactly), "L" (less than or equal to) or
	// "G" (greater than or equal to), matching the option values of
	// the condition dropdown.
	Comparator string
	Value      string
}

func ParseCourseNumber(s string) (CourseNumberFilter, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CourseNumberFilter{}, false
	}
	switch {
	case strings.HasPrefix(s, "<="):
		return CourseNumberFilter{Comparator: "L", Value: strings.TrimSpace(s[2:])}, true
	case strings.HasPrefix(s, ">="):
		return CourseNumberFilter{Comparator: "G", Value: strings.TrimSpace(s[2:])}, true
	default:
		return CourseNumberFilter{Comparator: "E", Value: s}, true
	}
}

// RawSection is one scraped results row, flat and as close to the page
// as normalization allows.
type RawSection struct {
	CourseCode       string   `json:"courseCode"`
	CourseTitle      string   `json:"courseTitle"`
	Section          string   `json:"section"`
	SectionType      string   `json:"sectionType"`
	Days             []string `json:"days"`
	Time             string   `json:"time"`
	Instructor       string   `json:"instructor"`
	MeetingDates     string   `json:"meetingDates"`
	MeetingStartDate string   `json:"meetingStartDate"`
	MeetingEndDate   string   `json:"meetingEndDate"`
	Status           Status   `json:"status"`
	Term             string   `json:"term"`
	SubjectCode      string   `json:"subjectCode"`
}
