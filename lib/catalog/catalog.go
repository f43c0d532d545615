// Package catalog turns the flat section records produced by the
// scraper into the grouped per-course model downstream tools consume.
package catalog

import (
	"uocatalog-backend/lib/scrapers/uocampus"
)

// SectionGroup is the set of sections sharing a group letter: one
// valid lecture+lab+tutorial combination students pick as a unit.
type SectionGroup struct {
	GroupID   string                `json:"groupId"`
	Lecture   *uocampus.RawSection  `json:"lecture,omitempty"`
	Labs      []uocampus.RawSection `json:"labs"`
	Tutorials []uocampus.RawSection `json:"tutorials"`
}

// GroupedCourse is one course with its sections grouped by letter.
// Built once per term and superseded wholesale on the next run, never
// merged incrementally.
type GroupedCourse struct {
	CourseCode    string                   `json:"courseCode"`
	CourseTitle   string                   `json:"courseTitle"`
	SubjectCode   string                   `json:"subjectCode"`
	Term          string                   `json:"term"`
	SectionGroups map[string]*SectionGroup `json:"sectionGroups"`
}

// TermFile is the persisted per-term snapshot format.
type TermFile struct {
	Courses []GroupedCourse `json:"courses"`
}
