package scrape

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"uocatalog-backend/lib/catalog"
	"uocatalog-backend/lib/scrapers/uocampus"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func sampleTermFile() catalog.TermFile {
	lecture := uocampus.RawSection{
		CourseCode:  "CSI 2110",
		CourseTitle: "Data Structures and Algorithms",
		Section:     "A00-LEC",
		SectionType: "LEC",
		Days:        []string{"Monday", "Wednesday"},
		Time:        "10:00 - 11:20",
		Instructor:  "Jane Doe",
		Status:      uocampus.StatusOpen,
		Term:        "2025 Fall Term",
		SubjectCode: "CSI",
	}
	return catalog.TermFile{
		Courses: []catalog.GroupedCourse{
			{
				CourseCode:  "CSI 2110",
				CourseTitle: "Data Structures and Algorithms",
				SubjectCode: "CSI",
				Term:        "2025 Fall Term",
				SectionGroups: map[string]*catalog.SectionGroup{
					"A": {GroupID: "A", Lecture: &lecture},
				},
			},
		},
	}
}

func TestWriteReadTermFile(t *testing.T) {
	dir := t.TempDir()
	file := sampleTermFile()

	path, err := WriteTermFile(dir, "2259", file)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "courses_2259.json"), path)

	got, err := ReadTermFile(path)
	require.NoError(t, err)

	diff := cmp.Diff(file, got)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestWriteTermFileReplacesPrevious(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteTermFile(dir, "2259", sampleTermFile())
	require.NoError(t, err)

	path, err := WriteTermFile(dir, "2259", catalog.TermFile{})
	require.NoError(t, err)

	got, err := ReadTermFile(path)
	require.NoError(t, err)
	require.Empty(t, got.Courses)

	// the temp file never survives a completed write
	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestWriteCombinedFile(t *testing.T) {
	dir := t.TempDir()
	byTerm := map[string][]catalog.GroupedCourse{
		"2025 Fall Term":   sampleTermFile().Courses,
		"2026 Winter Term": nil,
	}

	path, err := WriteCombinedFile(dir, byTerm)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, CombinedFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string][]catalog.GroupedCourse
	require.NoError(t, json.Unmarshal(data, &got))
	require.Contains(t, got, "2025 Fall Term")
	require.Len(t, got["2025 Fall Term"], 1)
}

func TestReadTermFileMissing(t *testing.T) {
	_, err := ReadTermFile(filepath.Join(t.TempDir(), "courses_2259.json"))
	require.Error(t, err)
}
