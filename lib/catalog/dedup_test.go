package catalog

import (
	"testing"

	"uocatalog-backend/lib/scrapers/uocampus"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func section(course, code, time, instructor string) uocampus.RawSection {
	return uocampus.RawSection{
		CourseCode:  course,
		Section:     code,
		Time:        time,
		Instructor:  instructor,
		Term:        "2025 Fall Term",
		SubjectCode: "CSI",
	}
}

func TestDedupCollapsesExactDuplicates(t *testing.T) {
	a := section("CSI 2110", "A00-LEC", "Mo 10:00 - 11:20", "Jane Doe")
	b := section("CSI 2110", "A01-LAB", "Tu 14:00 - 15:20", "Staff")

	out := Dedup([]uocampus.RawSection{a, b, a, a, b})
	require.Len(t, out, 2)
	require.Equal(t, a, out[0])
	require.Equal(t, b, out[1])
}

func TestDedupKeepsNearMisses(t *testing.T) {
	base := section("CSI 2110", "A00-LEC", "Mo 10:00 - 11:20", "Jane Doe")

	variants := []uocampus.RawSection{
		section("CSI 2111", "A00-LEC", "Mo 10:00 - 11:20", "Jane Doe"),
		section("CSI 2110", "B00-LEC", "Mo 10:00 - 11:20", "Jane Doe"),
		section("CSI 2110", "A00-LEC", "Mo 10:00 -  11:20", "Jane Doe"),
		section("CSI 2110", "A00-LEC", "Mo 10:00 - 11:20", "John Roe"),
	}

	for _, v := range variants {
		out := Dedup([]uocampus.RawSection{base, v})
		require.Len(t, out, 2, "expected %+v to be distinct from base", v)
	}
}

// the merged+deduplicated result of the two partitioned sub-queries
// must equal the deduplicated result of one unpartitioned query over
// the same data
func TestSplitMergeConservation(t *testing.T) {
	full := []uocampus.RawSection{
		section("CSI 2110", "A00-LEC", "Mo 10:00 - 11:20", "Jane Doe"),
		section("CSI 2110", "A01-LAB", "Tu 14:00 - 15:20", "Staff"),
		section("CSI 3105", "A00-LEC", "We 13:00 - 14:20", "John Roe"),
		section("CSI 4106", "B00-LEC", "Th 16:00 - 17:20", "Staff"),
	}

	low := []uocampus.RawSection{full[0], full[1], full[2]}
	high := []uocampus.RawSection{full[2], full[3]} // boundary row repeats

	merged := Dedup(append(append([]uocampus.RawSection{}, low...), high...))
	unpartitioned := Dedup(full)

	diff := cmp.Diff(unpartitioned, merged)
	if diff != "" {
		t.Fatal(diff)
	}
}
