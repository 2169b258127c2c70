package extract

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripHTML returns the visible text of an HTML fragment with tags removed,
// entities decoded and whitespace collapsed. Adjacent block elements are
// kept apart so "<p>Nike</p><p>Air</p>" reads "Nike Air".
func StripHTML(markup string) string {
	spaced := strings.ReplaceAll(markup, "<", " <")
	text := html.UnescapeString(strictPolicy.Sanitize(spaced))
	return strings.Join(strings.Fields(text), " ")
}
