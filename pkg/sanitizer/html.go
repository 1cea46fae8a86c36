// Package sanitizer escapes user input before it is interpolated into HTML.
package sanitizer

import "strings"

// htmlEscaper replaces the five reserved HTML characters. strings.NewReplacer
// scans the input once, so entities produced for one character are never
// rescanned for another: "&" cannot be double-escaped within a single call.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes &, <, >, " and ' for safe interpolation into HTML.
//
// EscapeHTML is not idempotent: escaping already escaped text escapes the
// ampersands again. Call it exactly once per value, and only for HTML output.
func EscapeHTML(s string) string {
	if s == "" {
		return s
	}
	return htmlEscaper.Replace(s)
}

// EscapeStrings returns a copy of values with every entry passed through EscapeHTML.
func EscapeStrings(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = EscapeHTML(v)
	}
	return out
}
