package uocampus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyResults(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		expected ResultState
	}{
		{
			name:     "overflow warning",
			html:     `<html><body><span class="PSERRORTEXT">Your search exceeds the maximum limit of 300 sections. Narrow your criteria.</span></body></html>`,
			expected: ResultOverflow,
		},
		{
			name:     "no matching sections",
			html:     `<html><body><span>The search returns no results that match the criteria specified.</span></body></html>`,
			expected: ResultEmpty,
		},
		{
			name:     "rendered results",
			html:     `<html><body><table class="PSLEVEL1GRIDNBONBO"><tr><td>row</td></tr></table></body></html>`,
			expected: ResultReady,
		},
		{
			name:     "still loading",
			html:     `<html><body><div class="processing"></div></body></html>`,
			expected: ResultPending,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			doc := parseFixture(t, test.html)
			require.Equal(t, test.expected, ClassifyResults(doc))
		})
	}
}

func TestPartitionParams(t *testing.T) {
	params := SearchParams{Term: "2025 Fall Term", SubjectCode: "CSI"}

	low, high := PartitionParams(params)
	require.Equal(t, "<=3000", low.CourseNumber)
	require.Equal(t, ">=3001", high.CourseNumber)

	// everything except the course-number filter stays identical
	low.CourseNumber = ""
	high.CourseNumber = ""
	require.Equal(t, params, low)
	require.Equal(t, params, high)
}
