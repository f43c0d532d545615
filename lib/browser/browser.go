// Package browser owns the single headless Chrome session the scraper
// drives. The target system renders its UI inside dynamically numbered
// nested frames, so the session exposes frame snapshots (outerHTML per
// frame, addressed by a window.frames index path) and frame-scoped
// script evaluation rather than per-frame chromedp targets.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/browser")

const (
	// DefaultNavigationTimeout bounds a navigation plus initial render.
	DefaultNavigationTimeout = time.Second * 45
	// DefaultActionTimeout bounds a single form mutation or evaluation.
	DefaultActionTimeout = time.Second * 15
	// DefaultPollInterval is how often WaitFor re-evaluates its condition.
	DefaultPollInterval = time.Millisecond * 250
)

type Options struct {
	// ExecPath optionally pins the Chrome binary, otherwise chromedp
	// looks it up on PATH.
	ExecPath string
	Headless bool

	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
	PollInterval      time.Duration
}

func (o *Options) fillDefaults() {
	if o.NavigationTimeout == 0 {
		o.NavigationTimeout = DefaultNavigationTimeout
	}
	if o.ActionTimeout == 0 {
		o.ActionTimeout = DefaultActionTimeout
	}
	if o.PollInterval == 0 {
		o.PollInterval = DefaultPollInterval
	}
}

type Session struct {
	opts          Options
	browser       context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

func NewSession(ctx context.Context, opts Options) (*Session, error) {
	opts.fillDefaults()

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// the target's scripts throw routinely; surfaced at debug level
	// because an exception right after a form mutation is usually the
	// first sign a selector went stale
	chromedp.ListenTarget(browserCtx, func(ev any) {
		if e, ok := ev.(*runtime.EventExceptionThrown); ok {
			slog.Debug("page exception", "detail", e.ExceptionDetails.Text)
		}
	})

	// starts Chrome so the first navigation doesn't pay for it
	err := chromedp.Run(browserCtx)
	if err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &Session{
		opts:          opts,
		browser:       browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

func (s *Session) Close() {
	s.cancelBrowser()
	s.cancelAlloc()
}

// bounded derives a chromedp-compatible context that is cancelled when
// either the timeout elapses or the caller's context is done.
func (s *Session) bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(s.browser, d)
	stop := context.AfterFunc(ctx, cancel)
	return tctx, func() {
		stop()
		cancel()
	}
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	ctx, span := tracer.Start(ctx, "session:Navigate")
	defer span.End()

	slog.DebugContext(ctx, "navigate", "url", url)

	tctx, cancel := s.bounded(ctx, s.opts.NavigationTimeout)
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "navigation failed")
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// FrameSnapshot is one renderable document in the session: the main
// document (empty Path) or a nested frame addressed by the index path
// taken through window.frames.
type FrameSnapshot struct {
	Path []int  `json:"path"`
	HTML string `json:"html"`
}

const snapshotScript = `(() => {
	const out = [];
	const visit = (win, path) => {
		let html = "";
		try {
			html = win.document.documentElement.outerHTML;
		} catch (e) {
			return; // cross-origin frame
		}
		out.push({ path: path, html: html });
		for (let i = 0; i < win.frames.length; i++) {
			visit(win.frames[i], path.concat(i));
		}
	};
	visit(window, []);
	return out;
})()`

// Snapshot captures the outerHTML of every same-origin document in the
// session. Frame identifiers are not stable across loads, so callers
// should re-snapshot after each navigation.
func (s *Session) Snapshot(ctx context.Context) ([]FrameSnapshot, error) {
	ctx, span := tracer.Start(ctx, "session:Snapshot")
	defer span.End()

	tctx, cancel := s.bounded(ctx, s.opts.ActionTimeout)
	defer cancel()

	var snapshots []FrameSnapshot
	err := chromedp.Run(tctx, chromedp.Evaluate(snapshotScript, &snapshots))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot failed")
		return nil, fmt.Errorf("snapshot frames: %w", err)
	}
	slog.DebugContext(ctx, "captured frame snapshots", "count", len(snapshots))
	return snapshots, nil
}

// FrameExpr wraps the body of a `(doc) => { ... }` function so it
// executes against the document addressed by the given frame path.
func FrameExpr(path []int, fnBody string) string {
	var b strings.Builder
	b.WriteString("(() => { let win = window;")
	for _, i := range path {
		fmt.Fprintf(&b, " win = win.frames[%d];", i)
	}
	fmt.Fprintf(&b, " return ((doc) => { %s })(win.document); })()", fnBody)
	return b.String()
}

// EvalInFrame evaluates fnBody (the body of a `(doc) => {...}`
// function) in the document addressed by path. `out` may be nil when
// the result is irrelevant.
func (s *Session) EvalInFrame(ctx context.Context, path []int, fnBody string, out any) error {
	ctx, span := tracer.Start(ctx, "session:EvalInFrame")
	defer span.End()

	tctx, cancel := s.bounded(ctx, s.opts.ActionTimeout)
	defer cancel()

	expr := FrameExpr(path, fnBody)
	var action chromedp.Action
	if out == nil {
		var discard any
		action = chromedp.Evaluate(expr, &discard)
	} else {
		action = chromedp.Evaluate(expr, out)
	}

	err := chromedp.Run(tctx, action)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluate failed")
		return err
	}
	return nil
}

// WaitFor polls condBody (the body of a `(doc) => {...}` function that
// must eventually return true) in the addressed frame until it holds or
// the timeout elapses.
func (s *Session) WaitFor(ctx context.Context, path []int, condBody string, timeout time.Duration) error {
	ctx, span := tracer.Start(ctx, "session:WaitFor")
	defer span.End()

	deadline := time.Now().Add(timeout)
	for {
		var ok bool
		err := s.EvalInFrame(ctx, path, condBody, &ok)
		if err == nil && ok {
			return nil
		}
		if time.Now().After(deadline) {
			if err == nil {
				err = fmt.Errorf("condition not met after %s", timeout)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "wait timed out")
			return fmt.Errorf("wait for condition: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.PollInterval):
		}
	}
}

// Sleep is the last-resort settling delay for mutations whose effects
// the target system exposes no observable signal for.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
