package uocampus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"uocatalog-backend/lib/browser"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/uocampus")

// how long a form mutation gets to be reflected by the target's own
// reactive updates before the step counts as failed
const formSettleTimeout = time.Second * 5

// the open-only toggle and the course-number filter controls are
// located by the form driver itself, they are not part of the resolved
// triple. Ordered like the resolver candidates: historical ids first.
var openOnlyCandidates = []string{
	`input#SSR_CLSRCH_WRK_SSR_OPEN_ONLY\$5\$`,
	`input[id*="OPEN_ONLY"]`,
	`input[name*="OPEN_ONLY"]`,
}

var courseNumCompareCandidates = []string{
	`select#SSR_CLSRCH_WRK_SSR_EXACT_MATCH1\$1\$`,
	`select[id*="EXACT_MATCH"]`,
}

var courseNumInputCandidates = []string{
	`input#SSR_CLSRCH_WRK_CATALOG_NBR\$1\$`,
	`input[id*="CATALOG_NBR"]`,
	`input[name*="CATALOG_NBR"]`,
}

// DriveForm mutates the live search form according to params and
// triggers the search. Every step has a secondary strategy before it
// escalates into a per-attempt failure.
func DriveForm(ctx context.Context, session *browser.Session, ws WorkingSelectors, params SearchParams) error {
	ctx, span := tracer.Start(ctx, "DriveForm")
	defer span.End()

	fail := func(step string, err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, step)
		return fmt.Errorf("%s: %w", step, err)
	}

	err := selectTerm(ctx, session, ws, params.Term)
	if err != nil {
		return fail("select term", err)
	}

	err = uncheckOpenOnly(ctx, session, ws)
	if err != nil {
		return fail("uncheck open sections only", err)
	}

	err = enterSubject(ctx, session, ws, params.SubjectCode)
	if err != nil {
		return fail("enter subject", err)
	}

	if filter, ok := ParseCourseNumber(params.CourseNumber); ok {
		err = enterCourseNumber(ctx, session, ws, filter)
		if err != nil {
			return fail("enter course number", err)
		}
	}

	err = triggerSearch(ctx, session, ws)
	if err != nil {
		return fail("trigger search", err)
	}
	return nil
}

func evalBool(ctx context.Context, session *browser.Session, ws WorkingSelectors, fnBody string) (bool, error) {
	var ok bool
	err := session.EvalInFrame(ctx, ws.FramePath, fnBody, &ok)
	return ok, err
}

func selectTerm(ctx context.Context, session *browser.Session, ws WorkingSelectors, term string) error {
	code, err := TermCode(term)
	if err != nil {
		return err
	}

	native := fmt.Sprintf(`
		const el = doc.querySelector(%q);
		if (!el) return false;
		el.value = %q;
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return el.value === %q;`,
		ws.TermSelect, code, code,
	)
	ok, err := evalBool(ctx, session, ws, native)
	if err != nil {
		return err
	}

	if !ok {
		// native selection can fail when the select rejects direct
		// value assignment, clicking the option manually still works
		slog.DebugContext(ctx, "native term selection failed, clicking option", "term", term, "code", code)
		manual := fmt.Sprintf(`
			const el = doc.querySelector(%q);
			if (!el) return false;
			for (let i = 0; i < el.options.length; i++) {
				if (el.options[i].value === %q) {
					el.selectedIndex = i;
					el.options[i].click();
					el.dispatchEvent(new Event('change', { bubbles: true }));
					return true;
				}
			}
			return false;`,
			ws.TermSelect, code,
		)
		ok, err = evalBool(ctx, session, ws, manual)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("term option %q not present in %s", code, ws.TermSelect)
		}
	}

	settle := fmt.Sprintf(`
		const el = doc.querySelector(%q);
		return el !== null && el.value === %q;`,
		ws.TermSelect, code,
	)
	return session.WaitFor(ctx, ws.FramePath, settle, formSettleTimeout)
}

// uncheckOpenOnly disables the open-sections-only restriction so both
// open and closed sections come back. A missing toggle is only a
// warning, some deployments do not render it.
func uncheckOpenOnly(ctx context.Context, session *browser.Session, ws WorkingSelectors) error {
	for _, candidate := range openOnlyCandidates {
		found := fmt.Sprintf(`return doc.querySelector(%q) !== null;`, candidate)
		ok, err := evalBool(ctx, session, ws, found)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		uncheck := fmt.Sprintf(`
			const el = doc.querySelector(%q);
			if (el.checked) {
				el.click();
			}
			return !el.checked;`,
			candidate,
		)
		ok, err = evalBool(ctx, session, ws, uncheck)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		settle := fmt.Sprintf(`
			const el = doc.querySelector(%q);
			return el !== null && !el.checked;`,
			candidate,
		)
		return session.WaitFor(ctx, ws.FramePath, settle, formSettleTimeout)
	}

	slog.WarnContext(ctx, "open-sections-only toggle not found, results may exclude closed sections")
	return nil
}

func setInput(ctx context.Context, session *browser.Session, ws WorkingSelectors, selector, value string) error {
	set := fmt.Sprintf(`
		const el = doc.querySelector(%q);
		if (!el) return false;
		el.value = '';
		el.value = %q;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;`,
		selector, value,
	)
	ok, err := evalBool(ctx, session, ws, set)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("input %s not found", selector)
	}

	settle := fmt.Sprintf(`
		const el = doc.querySelector(%q);
		return el !== null && el.value === %q;`,
		selector, value,
	)
	return session.WaitFor(ctx, ws.FramePath, settle, formSettleTimeout)
}

func enterSubject(ctx context.Context, session *browser.Session, ws WorkingSelectors, subject string) error {
	return setInput(ctx, session, ws, ws.SubjectInput, subject)
}

func enterCourseNumber(ctx context.Context, session *browser.Session, ws WorkingSelectors, filter CourseNumberFilter) error {
	// the comparator dropdown is best-effort: without it the form
	// treats the number as an exact match, which only degrades the
	// overflow workaround, it doesn't break the query
	comparatorSet := false
	for _, candidate := range courseNumCompareCandidates {
		set := fmt.Sprintf(`
			const el = doc.querySelector(%q);
			if (!el) return false;
			el.value = %q;
			el.dispatchEvent(new Event('change', { bubbles: true }));
			return el.value === %q;`,
			candidate, filter.Comparator, filter.Comparator,
		)
		ok, err := evalBool(ctx, session, ws, set)
		if err != nil {
			return err
		}
		if ok {
			comparatorSet = true
			break
		}
	}
	if !comparatorSet && filter.Comparator != "E" {
		return fmt.Errorf("course number comparator %q could not be applied", filter.Comparator)
	}

	for _, candidate := range courseNumInputCandidates {
		found := fmt.Sprintf(`return doc.querySelector(%q) !== null;`, candidate)
		ok, err := evalBool(ctx, session, ws, found)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		return setInput(ctx, session, ws, candidate, filter.Value)
	}
	return fmt.Errorf("course number input not found")
}

func triggerSearch(ctx context.Context, session *browser.Session, ws WorkingSelectors) error {
	direct := fmt.Sprintf(`
		const el = doc.querySelector(%q);
		if (!el) return false;
		el.click();
		return true;`,
		ws.SearchButton,
	)
	ok, err := evalBool(ctx, session, ws, direct)
	if err == nil && ok {
		return nil
	}
	if err != nil {
		slog.DebugContext(ctx, "direct search activation failed", "err", err)
	}

	// programmatic activation at the DOM level as the fallback
	// strategy when direct clicking is rejected
	programmatic := fmt.Sprintf(`
		const el = doc.querySelector(%q);
		if (!el) return false;
		el.dispatchEvent(new MouseEvent('click', { bubbles: true, cancelable: true }));
		return true;`,
		ws.SearchButton,
	)
	ok, err = evalBool(ctx, session, ws, programmatic)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("search control %s not found", ws.SearchButton)
	}
	return nil
}
