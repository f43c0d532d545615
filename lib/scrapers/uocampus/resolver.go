package uocampus

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoWorkingSelectors means no frame document exposed any of the
// search form controls after exhausting every candidate selector.
var ErrNoWorkingSelectors = errors.New("no working form controls found in any frame")

// Document is one parsed frame in the browser session, addressed by
// its window.frames index path.
type Document struct {
	FramePath []int
	Doc       *goquery.Document
}

// WorkingSelectors is the resolved location of the search form. It is
// an explicit value threaded through subsequent calls; element
// identifiers are not stable across page loads, so callers re-resolve
// after every navigation.
type WorkingSelectors struct {
	FramePath    []int
	TermSelect   string
	SubjectInput string
	SearchButton string
}

// Candidate selectors per control, ordered: known historical
// identifiers first, generic name/id-substring fallbacks last. The
// auto-generated ids shift between deployments, which is the whole
// reason this resolver exists.
var termSelectCandidates = []string{
	`select#CLASS_SRCH_WRK2_STRM\$35\$`,
	`select[id*="STRM"]`,
	`select[name*="STRM"]`,
	`select[id*="TERM"]`,
}

var subjectInputCandidates = []string{
	`input#SSR_CLSRCH_WRK_SUBJECT_SRCH\$0`,
	`input[id*="SUBJECT"]`,
	`input[name*="SUBJECT"]`,
}

var searchButtonCandidates = []string{
	`input#CLASS_SRCH_WRK2_SSR_PB_CLASS_SRCH`,
	`input[id*="CLASS_SRCH"]`,
	`input[name*="CLASS_SRCH"]`,
	`input[type="button"][value*="Search"]`,
	`input[type="submit"][value*="Search"]`,
}

func firstMatch(doc *goquery.Document, candidates []string) (string, bool) {
	for _, sel := range candidates {
		if doc.Find(sel).Length() > 0 {
			return sel, true
		}
	}
	return "", false
}

// Resolve finds the frame document containing the search form and the
// concrete selector for each control. The first document where any of
// the three controls matches is adopted; the attempt fails if a
// control is still missing there, or if no document matches at all.
func Resolve(docs []Document) (WorkingSelectors, error) {
	for _, d := range docs {
		termSel, termOk := firstMatch(d.Doc, termSelectCandidates)
		subjectSel, subjectOk := firstMatch(d.Doc, subjectInputCandidates)
		searchSel, searchOk := firstMatch(d.Doc, searchButtonCandidates)

		if !termOk && !subjectOk && !searchOk {
			continue
		}

		if !termOk || !subjectOk || !searchOk {
			return WorkingSelectors{}, fmt.Errorf(
				"%w: frame %v has a partial form (term=%v subject=%v search=%v)",
				ErrNoWorkingSelectors, d.FramePath, termOk, subjectOk, searchOk,
			)
		}

		ws := WorkingSelectors{
			FramePath:    d.FramePath,
			TermSelect:   termSel,
			SubjectInput: subjectSel,
			SearchButton: searchSel,
		}
		slog.Debug(
			"resolved search form",
			"frame", fmt.Sprint(d.FramePath),
			"term_select", termSel,
			"subject_input", subjectSel,
			"search_button", searchSel,
		)
		return ws, nil
	}

	return WorkingSelectors{}, ErrNoWorkingSelectors
}

// StructuralDump renders every select/input/button-like element in
// every frame, for operator diagnosis when resolution fails.
func StructuralDump(docs []Document) string {
	var b strings.Builder
	for _, d := range docs {
		fmt.Fprintf(&b, "frame %v:\n", d.FramePath)
		d.Doc.Find("select, input, button").Each(func(_ int, s *goquery.Selection) {
			tag := goquery.NodeName(s)
			fmt.Fprintf(
				&b, "  <%s id=%q name=%q type=%q value=%q>\n",
				tag,
				s.AttrOr("id", ""),
				s.AttrOr("name", ""),
				s.AttrOr("type", ""),
				s.AttrOr("value", ""),
			)
		})
	}
	return b.String()
}

// ParseSnapshots turns raw frame HTML into resolver/extractor inputs.
func ParseSnapshots(snapshots []FrameHTML) ([]Document, error) {
	docs := make([]Document, 0, len(snapshots))
	for _, s := range snapshots {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.HTML))
		if err != nil {
			return nil, fmt.Errorf("parse frame %v: %w", s.Path, err)
		}
		docs = append(docs, Document{FramePath: s.Path, Doc: doc})
	}
	return docs, nil
}

// FrameHTML mirrors browser.FrameSnapshot without importing the
// browser package, keeping this layer free of chromedp.
type FrameHTML struct {
	Path []int
	HTML string
}
