package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// Clean collapses the text mangling that survives transport from the
// target system: non-breaking spaces, stray control characters and
// runs of whitespace.
func Clean(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = removeNonPrintable(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.Trim(s, " \t\n")
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CellLines returns the visible text of a table cell as one string per
// rendered line. <br> and block-level children produce line breaks,
// which is how the target system encodes composite cells.
func CellLines(sel *goquery.Selection) []string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		lineTextRecursive(n, &buffer)
	}

	var lines []string
	for _, raw := range strings.Split(buffer.String(), "\n") {
		line := Clean(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func lineTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode {
		switch node.Data {
		case "br":
			buffer.WriteString("\n")
			return
		case "div", "p", "tr", "li":
			buffer.WriteString("\n")
		}
	}
	child := node.FirstChild
	for child != nil {
		lineTextRecursive(child, buffer)
		child = child.NextSibling
	}
}
