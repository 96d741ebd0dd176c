// Package htmlsanitize cleans the small amount of HTML the app stores,
// mainly owner notes written during triage.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").OnElements("a", "p", "span")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// Sanitize strips everything the UGC policy does not allow.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}

// IsPlainText reports whether s contains no markup.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainTextToHTML escapes s and wraps it in a paragraph, turning newlines
// into line breaks.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// PrepareForDisplay returns safe HTML for s whether it was stored as plain
// text or markup.
func PrepareForDisplay(s string) string {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return PlainTextToHTML(s)
	}
	return Sanitize(s)
}

// Link builds a sanitized anchor to href. The text is the URL itself when
// text is empty. Unsafe schemes such as javascript: leave only the text.
func Link(href, text, class string) string {
	href = strings.TrimSpace(href)
	if text == "" {
		text = href
	}
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`"`)
	if class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(class))
		b.WriteString(`"`)
	}
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(text))
	b.WriteString(`</a>`)
	return Sanitize(b.String())
}
