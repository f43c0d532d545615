package browser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameExpr(t *testing.T) {
	cases := []struct {
		name string
		path []int
		body string
		want string
	}{
		{
			"main document",
			nil,
			"return true;",
			"(() => { let win = window; return ((doc) => { return true; })(win.document); })()",
		},
		{
			"nested frame",
			[]int{0, 3},
			"return doc.title;",
			"(() => { let win = window; win = win.frames[0]; win = win.frames[3];" +
				" return ((doc) => { return doc.title; })(win.document); })()",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, FrameExpr(c.path, c.body))
		})
	}
}

func TestOptionsFillDefaults(t *testing.T) {
	var opts Options
	opts.fillDefaults()
	require.Equal(t, DefaultNavigationTimeout, opts.NavigationTimeout)
	require.Equal(t, DefaultActionTimeout, opts.ActionTimeout)
	require.Equal(t, DefaultPollInterval, opts.PollInterval)

	custom := Options{NavigationTimeout: DefaultActionTimeout}
	custom.fillDefaults()
	require.Equal(t, DefaultActionTimeout, custom.NavigationTimeout)
	require.Equal(t, DefaultActionTimeout, custom.ActionTimeout)
}
