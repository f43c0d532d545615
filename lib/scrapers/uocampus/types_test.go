package uocampus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTermCode(t *testing.T) {
	code, err := TermCode("2025 Fall Term")
	require.NoError(t, err)
	require.Equal(t, "2259", code)

	code, err = TermCode("2026 Winter Term")
	require.NoError(t, err)
	require.Equal(t, "2261", code)

	_, err = TermCode("2027 Fall Term")
	require.True(t, errors.Is(err, ErrUnknownTerm))
}

func TestParseCourseNumber(t *testing.T) {
	testCases := []struct {
		input    string
		expected CourseNumberFilter
		ok       bool
	}{
		{input: "", ok: false},
		{input: "   ", ok: false},
		{input: "2110", expected: CourseNumberFilter{Comparator: "E", Value: "2110"}, ok: true},
		{input: "<=3000", expected: CourseNumberFilter{Comparator: "L", Value: "3000"}, ok: true},
		{input: ">=3001", expected: CourseNumberFilter{Comparator: "G", Value: "3001"}, ok: true},
		{input: "<= 3000", expected: CourseNumberFilter{Comparator: "L", Value: "3000"}, ok: true},
	}

	for _, test := range testCases {
		filter, ok := ParseCourseNumber(test.input)
		require.Equal(t, test.ok, ok, "input %q", test.input)
		if ok {
			require.Equal(t, test.expected, filter, "input %q", test.input)
		}
	}
}
