package catalog

import (
	"testing"

	"uocatalog-backend/lib/scrapers/uocampus"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func typedSection(course, title, code string) uocampus.RawSection {
	return uocampus.RawSection{
		CourseCode:  course,
		CourseTitle: title,
		Section:     code,
		Term:        "2025 Fall Term",
		SubjectCode: "CSI",
	}
}

func TestGroupSections(t *testing.T) {
	lec := typedSection("CSI 2110", "Data Structures", "A00-LEC")
	lec.Time = "Mo 10:00 - 11:20, We 10:00 - 11:20"
	lab1 := typedSection("CSI 2110", "Data Structures", "A01-LAB")
	lab1.Time = "Tu 14:00 - 15:20"
	lab2 := typedSection("CSI 2110", "Data Structures", "A02-LAB")
	lab2.Time = "Th 14:00 - 15:20"

	result := GroupSections([]uocampus.RawSection{lec, lab1, lab2})
	require.Zero(t, result.Dropped)
	require.Empty(t, result.Warnings)
	require.Len(t, result.Courses, 1)

	course := result.Courses[0]
	require.Equal(t, "CSI 2110", course.CourseCode)
	require.Len(t, course.SectionGroups, 1)

	group := course.SectionGroups["A"]
	require.NotNil(t, group)
	require.Equal(t, "A", group.GroupID)
	require.NotNil(t, group.Lecture)
	require.Equal(t, "A00-LEC", group.Lecture.Section)
	require.Len(t, group.Labs, 2)
	require.Equal(t, "A01-LAB", group.Labs[0].Section)
	require.Equal(t, "A02-LAB", group.Labs[1].Section)
	require.Empty(t, group.Tutorials)
}

func TestGroupRouting(t *testing.T) {
	sections := []uocampus.RawSection{
		typedSection("SEG 2105", "Software Design", "A00-LEC"),
		typedSection("SEG 2105", "Software Design", "A01-TUT"),
		typedSection("SEG 2105", "Software Design", "A02-DGD"),
		typedSection("SEG 2105", "Software Design", "A03-SEM"),
		typedSection("SEG 2105", "Software Design", "A04-TT"),
		typedSection("SEG 2105", "Software Design", "A05-WRK"),
	}

	result := GroupSections(sections)
	require.Len(t, result.Courses, 1)

	group := result.Courses[0].SectionGroups["A"]
	require.NotNil(t, group.Lecture)
	// WRK is unrecognized but never dropped, it routes to tutorials
	// with a warning
	require.Len(t, group.Tutorials, 5)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], "WRK")
}

// at most one lecture per group: a second lecture row overwrites the
// first and the loss is recorded
func TestGroupDuplicateLecture(t *testing.T) {
	first := typedSection("CSI 2110", "Data Structures", "A00-LEC")
	first.Instructor = "Jane Doe"
	second := typedSection("CSI 2110", "Data Structures", "A00-LEC")
	second.Instructor = "John Roe"

	result := GroupSections([]uocampus.RawSection{first, second})
	group := result.Courses[0].SectionGroups["A"]
	require.Equal(t, "John Roe", group.Lecture.Instructor)
	require.Len(t, result.Warnings, 1)
}

func TestGroupDropsUnparseableCodes(t *testing.T) {
	sections := []uocampus.RawSection{
		typedSection("CSI 2110", "Data Structures", "A00-LEC"),
		typedSection("CSI 2110", "Data Structures", "SPECIAL"),
		typedSection("CSI 2110", "Data Structures", ""),
	}

	result := GroupSections(sections)
	require.Equal(t, 2, result.Dropped)
	require.Len(t, result.Courses, 1)
}

func TestGroupIdempotent(t *testing.T) {
	sections := []uocampus.RawSection{
		typedSection("CSI 2110", "Data Structures", "A00-LEC"),
		typedSection("CSI 2110", "Data Structures", "A01-LAB"),
		typedSection("CSI 3105", "Algorithm Design", "B00-LEC"),
		typedSection("CSI 3105", "Algorithm Design", "B01-TUT"),
	}

	first := GroupSections(sections)
	second := GroupSections(sections)

	diff := cmp.Diff(first, second)
	if diff != "" {
		t.Fatal(diff)
	}
}

// grouping is keyed by course code and group letter, input order never
// changes the output
func TestGroupOrderIndependent(t *testing.T) {
	sections := []uocampus.RawSection{
		typedSection("CSI 2110", "Data Structures", "A00-LEC"),
		typedSection("CSI 2110", "Data Structures", "A01-LAB"),
		typedSection("CSI 3105", "Algorithm Design", "B00-LEC"),
	}
	reversed := []uocampus.RawSection{sections[2], sections[1], sections[0]}

	diff := cmp.Diff(GroupSections(sections).Courses, GroupSections(reversed).Courses)
	if diff != "" {
		t.Fatal(diff)
	}
}
