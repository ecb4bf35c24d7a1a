// Package format holds the pure text helpers used when rendering activities:
// elapsed-time formatting, HTML escaping and ticket-reference links.
package format

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// FormatDuration renders elapsed milliseconds as HH:MM:SS. Partial seconds
// are dropped and negative input renders as zero. Hours are not capped.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes & < > " and '. Each input byte is replaced at most
// once, so an ampersand produced by another entity is never escaped again.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

var ticketPattern = regexp.MustCompile(`#\d+|\b[A-Z][A-Z0-9]*-\d+\b`)

// LinkifyTickets wraps ticket references in already escaped text with
// anchors built from template, whose {id} placeholder receives the ticket
// id. Both "#123" (id "123") and keys such as "ABC-123" or "X-12" are
// recognised. A '#' right after
// '&' belongs to a numeric entity and is skipped. An empty template returns
// text unchanged.
func LinkifyTickets(text, template string) string {
	if strings.TrimSpace(template) == "" {
		return text
	}

	matches := ticketPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if text[start] == '#' && start > 0 && text[start-1] == '&' {
			continue
		}
		match := text[start:end]
		id := strings.TrimPrefix(match, "#")
		href := strings.ReplaceAll(template, "{id}", url.PathEscape(id))

		b.WriteString(text[last:start])
		fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, EscapeHTML(href), match)
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}
