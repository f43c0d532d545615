package catalog

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"uocatalog-backend/lib/scrapers/uocampus"
)

var sectionCodeRegex = regexp.MustCompile(`^([A-Za-z]+)(\d+)-([A-Za-z]+)$`)

// GroupResult is the grouping output plus its loss accounting: rows
// whose section code fails the structural pattern are skipped here
// (unlike the extractor, which retains them as UNKNOWN) and the count
// is surfaced instead of being a log line someone has to notice.
type GroupResult struct {
	Courses []GroupedCourse
	// Dropped counts sections skipped for an unparseable code.
	Dropped int
	// Warnings records lossy routing decisions (duplicate lectures,
	// unrecognized meeting types).
	Warnings []string
}

// GroupSections converts one term's deduplicated flat records into the
// per-course tree. Keyed by course code and group letter, so input
// order never changes the output; courses come back sorted by code.
func GroupSections(sections []uocampus.RawSection) GroupResult {
	var result GroupResult
	courses := make(map[string]*GroupedCourse)

	for _, section := range sections {
		groups := sectionCodeRegex.FindStringSubmatch(section.Section)
		if groups == nil {
			slog.Debug(
				"skipping section with unparseable code",
				"course", section.CourseCode,
				"section", section.Section,
			)
			result.Dropped++
			continue
		}
		groupLetter := strings.ToUpper(groups[1])
		sectionType := strings.ToUpper(groups[3])

		course, ok := courses[section.CourseCode]
		if !ok {
			course = &GroupedCourse{
				CourseCode:    section.CourseCode,
				CourseTitle:   section.CourseTitle,
				SubjectCode:   section.SubjectCode,
				Term:          section.Term,
				SectionGroups: make(map[string]*SectionGroup),
			}
			courses[section.CourseCode] = course
		}

		group, ok := course.SectionGroups[groupLetter]
		if !ok {
			group = &SectionGroup{GroupID: groupLetter}
			course.SectionGroups[groupLetter] = group
		}

		switch sectionType {
		case "LEC":
			if group.Lecture != nil {
				warning := "duplicate lecture " + section.Section + " overwrites " +
					group.Lecture.Section + " in " + section.CourseCode
				slog.Warn(warning)
				result.Warnings = append(result.Warnings, warning)
			}
			s := section
			group.Lecture = &s
		case "LAB":
			group.Labs = append(group.Labs, section)
		case "TUT", "TT", "SEM", "DGD":
			group.Tutorials = append(group.Tutorials, section)
		default:
			// never drop a section, classify conservatively
			warning := "unrecognized meeting type " + sectionType + " for " +
				section.CourseCode + " " + section.Section + ", routed to tutorials"
			slog.Warn(warning)
			result.Warnings = append(result.Warnings, warning)
			group.Tutorials = append(group.Tutorials, section)
		}
	}

	result.Courses = make([]GroupedCourse, 0, len(courses))
	for _, course := range courses {
		result.Courses = append(result.Courses, *course)
	}
	slices.SortFunc(result.Courses, func(a, b GroupedCourse) int {
		return strings.Compare(a.CourseCode, b.CourseCode)
	})
	return result
}
