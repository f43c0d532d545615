package uocampus

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// the platform refuses to render a result set larger than 300 sections
// and reports it with this message instead.
const overflowMarker = "exceeds the maximum limit of 300 sections"

// the "no matches" report is an expected condition, not an error.
const noResultsMarker = "The search returns no results that match the criteria specified"

// ResultState classifies a post-search document.
type ResultState int

const (
	// ResultPending means the document shows neither results nor any
	// of the terminal messages yet.
	ResultPending ResultState = iota
	ResultReady
	ResultEmpty
	ResultOverflow
)

// ClassifyResults inspects a rendered document for the search outcome.
func ClassifyResults(doc *goquery.Document) ResultState {
	text := doc.Text()
	if strings.Contains(text, overflowMarker) {
		return ResultOverflow
	}
	if strings.Contains(text, noResultsMarker) {
		return ResultEmpty
	}
	if doc.Find(resultsTableSelector).Length() > 0 {
		return ResultReady
	}
	return ResultPending
}

// PartitionParams derives the two sub-queries of the overflow
// workaround: identical to the original except the course-number
// filter splits the catalog range at 3000/3001. The fixed split point
// is a known limitation if either half itself exceeds the cap.
func PartitionParams(params SearchParams) (SearchParams, SearchParams) {
	low := params
	low.CourseNumber = "<=3000"
	high := params
	high.CourseNumber = ">=3001"
	return low, high
}
