package uocampus

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"uocatalog-backend/lib/htmlutil"
	"uocatalog-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// course headers sit in the styled label cells of the top-level group
// boxes, results live in the grid tables that follow them.
const courseHeaderSelector = `td.PAGROUPBOXLABELLEVEL1`
const resultsTableSelector = `table.PSLEVEL1GRIDNBONBO`

var courseHeaderRegex = regexp.MustCompile(`^([A-Z]{2,5} ?\d{3,5}[A-Z]?)\s*-\s*(.+)$`)
var sectionCodeRegex = regexp.MustCompile(`^([A-Za-z]+)(\d+)-([A-Za-z]+)$`)
var dayTimeRegex = regexp.MustCompile(`^((?:[A-Z][a-z])+)\s+(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})$`)
var dateRangeRegex = regexp.MustCompile(`(\d{4}/\d{2}/\d{2})\s*-\s*(\d{4}/\d{2}/\d{2})`)

var dayNames = map[string]string{
	"Mo": "Monday",
	"Tu": "Tuesday",
	"We": "Wednesday",
	"Th": "Thursday",
	"Fr": "Friday",
	"Sa": "Saturday",
	"Su": "Sunday",
}

// ExtractSections parses a rendered results document into flat section
// records. Rows it cannot fully classify are still emitted: a section
// code that doesn't match the expected shape yields a record with its
// status forced to Unknown, never zero records.
func ExtractSections(doc *goquery.Document, params SearchParams) []RawSection {
	var sections []RawSection

	courseCode := ""
	courseTitle := ""

	// headers and grid tables interleave in document order, so a
	// single combined pass associates each table with the closest
	// preceding header.
	doc.Find(courseHeaderSelector + ", " + resultsTableSelector).Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "td" {
			header := htmlutil.Clean(s.Text())
			groups := courseHeaderRegex.FindStringSubmatch(header)
			if groups == nil {
				return
			}
			courseCode = htmlutil.Clean(groups[1])
			courseTitle = htmlutil.Clean(groups[2])
			return
		}

		if courseCode == "" {
			// grid before any recognizable header, nothing to
			// attribute its rows to
			return
		}
		sections = append(sections, extractTable(s, courseCode, courseTitle, params)...)
	})

	return sections
}

func extractTable(table *goquery.Selection, courseCode, courseTitle string, params SearchParams) []RawSection {
	var sections []RawSection

	// every data row is keyed by the index embedded in its generated
	// section-cell identifier (MTG_CLASSNAME$<n>)
	table.Find(`[id^="MTG_CLASSNAME$"]`).Each(func(_ int, cell *goquery.Selection) {
		id := cell.AttrOr("id", "")
		rowIdx := id[strings.IndexByte(id, '$')+1:]

		section := RawSection{
			CourseCode:  courseCode,
			CourseTitle: courseTitle,
			Term:        params.Term,
			SubjectCode: params.SubjectCode,
		}

		// two-line composite: section code on the first line, the
		// session label below it
		section.Section = textutil.FirstNonEmpty(htmlutil.CellLines(cell))

		section.Days, section.Time = extractDayTime(table, rowIdx)
		section.Instructor = extractInstructor(table, rowIdx)
		section.MeetingDates, section.MeetingStartDate, section.MeetingEndDate = extractMeetingDates(table, rowIdx)
		section.Status = extractStatus(cell, table, rowIdx)

		if groups := sectionCodeRegex.FindStringSubmatch(section.Section); groups != nil {
			section.SectionType = strings.ToUpper(groups[3])
		} else {
			// retained on purpose, classified conservatively
			slog.Debug(
				"unrecognized section code format",
				"course", courseCode,
				"section", section.Section,
			)
			section.SectionType = SectionTypeUnknown
			section.Status = StatusUnknown
		}

		sections = append(sections, section)
	})

	return sections
}

// extractDayTime parses the multi-line day/time cell: one "<Days>
// <start> - <end>" entry per line. Rows with nothing parseable keep a
// single "N/A" entry instead of being dropped.
func extractDayTime(table *goquery.Selection, rowIdx string) ([]string, string) {
	cell := table.Find(fmt.Sprintf(`[id="MTG_DAYTIME$%s"]`, rowIdx))

	var days []string
	var times []string
	for _, line := range htmlutil.CellLines(cell) {
		groups := dayTimeRegex.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		for _, abbr := range splitDayAbbrevs(groups[1]) {
			name, ok := dayNames[abbr]
			if !ok {
				name = abbr
			}
			days = appendUnique(days, name)
		}
		times = append(times, fmt.Sprintf("%s %s - %s", groups[1], groups[2], groups[3]))
	}

	if len(times) == 0 {
		return []string{"N/A"}, "N/A"
	}
	return days, strings.Join(times, ", ")
}

func splitDayAbbrevs(s string) []string {
	var out []string
	for i := 0; i+1 < len(s); i += 2 {
		out = append(out, s[i:i+2])
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// placeholder instructor labels the target renders instead of a name
var unassignedInstructors = []string{"staff", "tba", "tobeannounced"}

func extractInstructor(table *goquery.Selection, rowIdx string) string {
	cell := table.Find(fmt.Sprintf(`[id="MTG_INSTR$%s"]`, rowIdx))
	instructor := textutil.FirstNonEmpty(htmlutil.CellLines(cell))
	if instructor == "" || textutil.MatchName(instructor, unassignedInstructors) {
		return "Staff"
	}
	return instructor
}

func extractMeetingDates(table *goquery.Selection, rowIdx string) (string, string, string) {
	cell := table.Find(fmt.Sprintf(`[id="MTG_TOPIC$%s"]`, rowIdx))
	dates := textutil.FirstNonEmpty(htmlutil.CellLines(cell))
	if dates == "" {
		return "TBD", "TBD", "TBD"
	}
	groups := dateRangeRegex.FindStringSubmatch(dates)
	if groups == nil {
		return dates, "TBD", "TBD"
	}
	return dates, groups[1], groups[2]
}

// extractStatus derives enrollment status, primarily from the status
// icon's src/alt attributes, then from a keyword scan of the row's
// visible text.
func extractStatus(sectionCell *goquery.Selection, table *goquery.Selection, rowIdx string) Status {
	icon := table.Find(fmt.Sprintf(`[id="win0divDERIVED_CLSRCH_SSR_STATUS_LONG$%s"] img`, rowIdx))
	if icon.Length() == 0 {
		// some deployments put the icon straight into the row
		icon = sectionCell.Closest("tr").Find("img")
	}

	var fromIcon Status
	icon.EachWithBreak(func(_ int, img *goquery.Selection) bool {
		hint := strings.ToLower(img.AttrOr("src", "") + " " + img.AttrOr("alt", ""))
		fromIcon = statusFromText(hint)
		return fromIcon == ""
	})
	if fromIcon != "" {
		return fromIcon
	}

	rowText := strings.ToLower(sectionCell.Closest("tr").Text())
	if s := statusFromText(rowText); s != "" {
		return s
	}
	return StatusUnknown
}

func statusFromText(s string) Status {
	switch {
	case strings.Contains(s, "waitlist") || strings.Contains(s, "wait list"):
		return StatusWaitlist
	case strings.Contains(s, "closed"):
		return StatusClosed
	case strings.Contains(s, "open"):
		return StatusOpen
	default:
		return ""
	}
}
