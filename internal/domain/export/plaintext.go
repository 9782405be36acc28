package export

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	tabRuns   = regexp.MustCompile(`\t+`)
	spaceRuns = regexp.MustCompile(` +`)
	blankRuns = regexp.MustCompile(`(\r?\n){2,}`)
)

// trimCutset limits trimming to ASCII whitespace and NUL so that decoded
// non-breaking spaces survive at the edges of the text.
const trimCutset = " \t\n\r\x00\x0b"

// ToPlainText strips markup tags from an HTML fragment, decodes entities
// (including HTML5 named entities), collapses runs of tabs and of spaces to
// a single space, collapses runs of two or more newlines to one newline and
// trims leading/trailing whitespace. It is pure and deterministic.
func ToPlainText(source string) string {
	var b strings.Builder

	z := html.NewTokenizer(strings.NewReader(source))
	for {
		switch z.Next() {
		case html.ErrorToken:
			text := b.String()
			text = tabRuns.ReplaceAllString(text, " ")
			text = spaceRuns.ReplaceAllString(text, " ")
			text = blankRuns.ReplaceAllString(text, "\n")
			return strings.Trim(text, trimCutset)
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
