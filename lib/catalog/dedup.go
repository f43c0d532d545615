package catalog

import (
	"uocatalog-backend/lib/scrapers/uocampus"
)

type dedupKey struct {
	courseCode string
	section    string
	time       string
	instructor string
}

// Dedup collapses exact duplicates, which the partitioned re-query
// path can introduce. The key is deliberately strict: rows differing
// in any of the four fields are distinct, whitespace normalization is
// the extractor's job. First occurrence wins, input order is kept.
func Dedup(sections []uocampus.RawSection) []uocampus.RawSection {
	seen := make(map[dedupKey]bool, len(sections))
	out := make([]uocampus.RawSection, 0, len(sections))
	for _, s := range sections {
		key := dedupKey{
			courseCode: s.CourseCode,
			section:    s.Section,
			time:       s.Time,
			instructor: s.Instructor,
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
