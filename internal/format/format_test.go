package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want string
	}{
		{"zero", 0, "00:00:00"},
		{"negative clamps", -5000, "00:00:00"},
		{"floors partial second", 1999, "00:00:01"},
		{"minutes and seconds", 125_000, "00:02:05"},
		{"hours", 3*3600_000 + 4*60_000 + 5_000, "03:04:05"},
		{"over a hundred hours", 100 * 3600_000, "100:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.ms))
		})
	}
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Tom &amp; Jerry&#39;s &quot;show&quot;&lt;/b&gt;",
		EscapeHTML(`<b>Tom & Jerry's "show"</b>`))
	assert.Equal(t, "&amp;amp;", EscapeHTML("&amp;"))
	assert.Equal(t, "plain", EscapeHTML("plain"))
}

func TestLinkifyTickets(t *testing.T) {
	const template = "https://tracker.example.com/browse/{id}"

	tests := []struct {
		name     string
		text     string
		template string
		want     string
	}{
		{
			name:     "no template",
			text:     "Fix #42",
			template: "",
			want:     "Fix #42",
		},
		{
			name:     "hash reference",
			text:     "Fix #42 today",
			template: template,
			want:     `Fix <a href="https://tracker.example.com/browse/42" target="_blank" rel="noopener noreferrer">#42</a> today`,
		},
		{
			name:     "project key reference",
			text:     "Review ABC-123",
			template: template,
			want:     `Review <a href="https://tracker.example.com/browse/ABC-123" target="_blank" rel="noopener noreferrer">ABC-123</a>`,
		},
		{
			name:     "single letter key",
			text:     "Review X-12",
			template: template,
			want:     `Review <a href="https://tracker.example.com/browse/X-12" target="_blank" rel="noopener noreferrer">X-12</a>`,
		},
		{
			name:     "numeric entity is not a ticket",
			text:     EscapeHTML("Tom's fix"),
			template: template,
			want:     "Tom&#39;s fix",
		},
		{
			name:     "lowercase key is not a ticket",
			text:     "abc-123",
			template: template,
			want:     "abc-123",
		},
		{
			name:     "several references",
			text:     "#1 and OPS-2",
			template: "https://t.example/{id}?a=1&b=2",
			want: `<a href="https://t.example/1?a=1&amp;b=2" target="_blank" rel="noopener noreferrer">#1</a> and ` +
				`<a href="https://t.example/OPS-2?a=1&amp;b=2" target="_blank" rel="noopener noreferrer">OPS-2</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LinkifyTickets(tt.text, tt.template))
		})
	}
}
