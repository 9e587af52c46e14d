package bridge

import "strings"

// Quote wraps a string in single quotes, escaping any single quotes
// inside by closing the string, emitting an escaped quote, and reopening
// it. Every user-controlled value interpolated into a remote command must
// pass through here; the result evaluates to the literal input with no
// word-splitting, globbing, or substitution on the remote side.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
