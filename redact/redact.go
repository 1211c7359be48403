package redact

import "strings"

// String masks the middle of a secret, keeping at most the first and
// last two characters visible so operators can still recognize which
// credential ended up in a log line.
func String(s string) string {
	l := len(s)
	if l == 0 {
		return ""
	}

	keep := 2
	if l <= 2*keep {
		return strings.Repeat("*", l)
	}

	return s[:keep] + strings.Repeat("*", l-2*keep) + s[l-keep:]
}
