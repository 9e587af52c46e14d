package tools

import (
	"strings"
	"testing"

	"github.com/simon/rdev/internal/bridge"
)

func TestFormatExecResult(t *testing.T) {
	tests := []struct {
		name     string
		workDir  string
		res      bridge.ExecResult
		contains []string
	}{
		{
			name:    "success with output",
			workDir: "/var/log",
			res:     bridge.ExecResult{Output: "hello\n", ExitCode: 0},
			contains: []string{
				"$ echo hello",
				"Status: success",
				"Directory: /var/log",
				"Output:\nhello",
			},
		},
		{
			name: "failure reports exit code",
			res:  bridge.ExecResult{Output: "boom\n", ExitCode: 3},
			contains: []string{
				"Status: failed (exit code 3)",
				"Directory: (session default)",
			},
		},
		{
			name: "timeout distinguishable",
			res:  bridge.ExecResult{ExitCode: bridge.TimeoutExitCode, TimedOut: true},
			contains: []string{
				"timed out (exit code 124)",
				"may still be running",
			},
		},
		{
			name: "no output noted",
			res:  bridge.ExecResult{ExitCode: 0},
			contains: []string{
				"Output: (none)",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatExecResult("echo hello", tt.workDir, &tt.res)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatted result missing %q:\n%s", want, got)
				}
			}
		})
	}
}
