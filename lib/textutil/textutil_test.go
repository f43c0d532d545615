package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "janedoe", NormalizeName("  Jane   Doe \n"))
	require.Equal(t, "tobeannounced", NormalizeName("To Be Announced"))
}

func TestMatchName(t *testing.T) {
	matchers := []string{"staff", "tobeannounced"}
	require.True(t, MatchName("Staff", matchers))
	require.True(t, MatchName("To Be  Announced", matchers))
	require.False(t, MatchName("Jane Doe", matchers))
}

func TestFirstNonEmpty(t *testing.T) {
	require.Equal(t, "A00-LEC", FirstNonEmpty([]string{"", "  ", "A00-LEC", "Full Session"}))
	require.Equal(t, "", FirstNonEmpty(nil))
}
