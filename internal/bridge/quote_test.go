package bridge

import (
	"strings"
	"testing"
)

// evalQuoted simulates POSIX shell evaluation of a fully quoted word. It
// accepts only single- and double-quoted segments; any unquoted byte
// means the shell could word-split or substitute, which fails the test.
func evalQuoted(t *testing.T, s string) string {
	t.Helper()
	var out strings.Builder
	i := 0
	for i < len(s) {
		switch s[i] {
		case '\'':
			j := strings.IndexByte(s[i+1:], '\'')
			if j < 0 {
				t.Fatalf("unterminated single quote in %q", s)
			}
			out.WriteString(s[i+1 : i+1+j])
			i += j + 2
		case '"':
			j := strings.IndexByte(s[i+1:], '"')
			if j < 0 {
				t.Fatalf("unterminated double quote in %q", s)
			}
			seg := s[i+1 : i+1+j]
			if strings.ContainsAny(seg, "$`\\") {
				t.Fatalf("double-quoted segment %q allows substitution", seg)
			}
			out.WriteString(seg)
			i += j + 2
		default:
			t.Fatalf("unquoted byte %q in %q", s[i], s)
		}
	}
	return out.String()
}

func TestQuoteRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain", "hello"},
		{"spaces", "hello world"},
		{"single quote", "it's here"},
		{"only quotes", "'''"},
		{"backticks", "`rm -rf /`"},
		{"dollar", "$HOME and $(whoami)"},
		{"semicolon", "a; rm -rf /"},
		{"ampersand and pipe", "a && b | c"},
		{"globs", "*.go [a-z]?"},
		{"newline", "line1\nline2"},
		{"mixed hostile", `x'; echo "$(id)" #`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalQuoted(t, Quote(tt.input))
			if got != tt.input {
				t.Errorf("Quote(%q) evaluates to %q", tt.input, got)
			}
		})
	}
}
