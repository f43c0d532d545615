package uocampus

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const resultsFixture = `<html><body>
<table><tr><td class="PAGROUPBOXLABELLEVEL1"> CSI 2110 - Data Structures &amp; Algorithms </td></tr></table>
<table class="PSLEVEL1GRIDNBONBO">
	<tr id="trSSR_CLSRCH_MTG$0_row1">
		<td><div id="win0divDERIVED_CLSRCH_SSR_STATUS_LONG$0"><img src="/cs/uocampus/PS_CS_STATUS_OPEN_ICN_1.gif" alt="Open"></div></td>
		<td><a id="MTG_CLASSNAME$0">A00-LEC<br>Regular</a></td>
		<td><span id="MTG_DAYTIME$0">Mo 10:00 - 11:20<br>We 10:00 - 11:20</span></td>
		<td><span id="MTG_INSTR$0">Jane Doe<br>Jane Doe</span></td>
		<td><span id="MTG_TOPIC$0">2025/09/03 - 2025/12/02</span></td>
	</tr>
	<tr id="trSSR_CLSRCH_MTG$1_row1">
		<td><div id="win0divDERIVED_CLSRCH_SSR_STATUS_LONG$1"><img src="/cs/uocampus/PS_CS_STATUS_CLOSED_ICN_1.gif" alt="Closed"></div></td>
		<td><a id="MTG_CLASSNAME$1">A01-LAB<br>Regular</a></td>
		<td><span id="MTG_DAYTIME$1">Tu 14:00 - 15:20</span></td>
		<td><span id="MTG_INSTR$1"></span></td>
		<td><span id="MTG_TOPIC$1"></span></td>
	</tr>
	<tr id="trSSR_CLSRCH_MTG$2_row1">
		<td>Waitlist</td>
		<td><a id="MTG_CLASSNAME$2">A02-LAB<br>Regular</a></td>
		<td><span id="MTG_DAYTIME$2">N/A</span></td>
		<td><span id="MTG_INSTR$2">Staff</span></td>
		<td><span id="MTG_TOPIC$2">TBD</span></td>
	</tr>
</table>
<table><tr><td class="PAGROUPBOXLABELLEVEL1">CSI 2372 - Advanced Programming Concepts</td></tr></table>
<table class="PSLEVEL1GRIDNBONBO">
	<tr id="trSSR_CLSRCH_MTG$3_row1">
		<td><div id="win0divDERIVED_CLSRCH_SSR_STATUS_LONG$3"><img src="/cs/uocampus/PS_CS_STATUS_OPEN_ICN_1.gif" alt="Open"></div></td>
		<td><a id="MTG_CLASSNAME$3">SPECIAL</a></td>
		<td><span id="MTG_DAYTIME$3">Fr 8:30 - 9:50</span></td>
		<td><span id="MTG_INSTR$3">John Roe</span></td>
		<td><span id="MTG_TOPIC$3">2025/09/05 - 2025/12/05</span></td>
	</tr>
</table>
</body></html>`

func parseFixture(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractSections(t *testing.T) {
	doc := parseFixture(t, resultsFixture)

	params := SearchParams{Term: "2025 Fall Term", SubjectCode: "CSI"}
	sections := ExtractSections(doc, params)

	expected := []RawSection{
		{
			CourseCode:       "CSI 2110",
			CourseTitle:      "Data Structures & Algorithms",
			Section:          "A00-LEC",
			SectionType:      "LEC",
			Days:             []string{"Monday", "Wednesday"},
			Time:             "Mo 10:00 - 11:20, We 10:00 - 11:20",
			Instructor:       "Jane Doe",
			MeetingDates:     "2025/09/03 - 2025/12/02",
			MeetingStartDate: "2025/09/03",
			MeetingEndDate:   "2025/12/02",
			Status:           StatusOpen,
			Term:             "2025 Fall Term",
			SubjectCode:      "CSI",
		},
		{
			CourseCode:       "CSI 2110",
			CourseTitle:      "Data Structures & Algorithms",
			Section:          "A01-LAB",
			SectionType:      "LAB",
			Days:             []string{"Tuesday"},
			Time:             "Tu 14:00 - 15:20",
			Instructor:       "Staff",
			MeetingDates:     "TBD",
			MeetingStartDate: "TBD",
			MeetingEndDate:   "TBD",
			Status:           StatusClosed,
			Term:             "2025 Fall Term",
			SubjectCode:      "CSI",
		},
		{
			CourseCode:       "CSI 2110",
			CourseTitle:      "Data Structures & Algorithms",
			Section:          "A02-LAB",
			SectionType:      "LAB",
			Days:             []string{"N/A"},
			Time:             "N/A",
			Instructor:       "Staff",
			MeetingDates:     "TBD",
			MeetingStartDate: "TBD",
			MeetingEndDate:   "TBD",
			Status:           StatusWaitlist,
			Term:             "2025 Fall Term",
			SubjectCode:      "CSI",
		},
		{
			CourseCode:       "CSI 2372",
			CourseTitle:      "Advanced Programming Concepts",
			Section:          "SPECIAL",
			SectionType:      SectionTypeUnknown,
			Days:             []string{"Friday"},
			Time:             "Fr 8:30 - 9:50",
			Instructor:       "John Roe",
			MeetingDates:     "2025/09/05 - 2025/12/05",
			MeetingStartDate: "2025/09/05",
			MeetingEndDate:   "2025/12/05",
			Status:           StatusUnknown,
			Term:             "2025 Fall Term",
			SubjectCode:      "CSI",
		},
	}

	diff := cmp.Diff(expected, sections)
	if diff != "" {
		t.Fatal(diff)
	}
}

// a row with an unparseable section code must still produce a record,
// never zero
func TestExtractRetainsUnknownFormats(t *testing.T) {
	doc := parseFixture(t, resultsFixture)
	sections := ExtractSections(doc, SearchParams{Term: "2025 Fall Term", SubjectCode: "CSI"})

	var unknown []RawSection
	for _, s := range sections {
		if s.SectionType == SectionTypeUnknown {
			unknown = append(unknown, s)
		}
	}
	require.Len(t, unknown, 1)
	require.Equal(t, "SPECIAL", unknown[0].Section)
	require.Equal(t, StatusUnknown, unknown[0].Status)
}

func TestExtractNoHeaders(t *testing.T) {
	doc := parseFixture(t, `<html><body><p>nothing here</p></body></html>`)
	sections := ExtractSections(doc, SearchParams{Term: "2025 Fall Term", SubjectCode: "CSI"})
	require.Empty(t, sections)
}
