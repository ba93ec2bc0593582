// Package textdiff renders character level differences between two versions of a message
// using Telegram HTML markup.
package textdiff

import (
	"html"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Render returns next with the spans removed from prev struck through. Inserted spans are
// left unstyled. No whitespace or case normalization is applied.
func Render(prev, next string) string {
	a, b := split(prev), split(next)
	matcher := difflib.NewMatcherWithJunk(a, b, false, nil)

	var sb strings.Builder
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			sb.WriteString(join(a[op.I1:op.I2]))
		case 'd':
			writeStruck(&sb, a[op.I1:op.I2])
		case 'i':
			sb.WriteString(join(b[op.J1:op.J2]))
		case 'r':
			writeStruck(&sb, a[op.I1:op.I2])
			sb.WriteString(join(b[op.J1:op.J2]))
		}
	}
	return sb.String()
}

func Changed(prev, next string) bool {
	return prev != next
}

func writeStruck(sb *strings.Builder, runes []string) {
	sb.WriteString("<s>")
	sb.WriteString(join(runes))
	sb.WriteString("</s>")
}

func split(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func join(runes []string) string {
	return html.EscapeString(strings.Join(runes, ""))
}
