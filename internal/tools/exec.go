package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simon/rdev/internal/bridge"
	"github.com/simon/rdev/internal/history"
)

func (svc *Service) handleExecuteCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	timeout := time.Duration(request.GetFloat("timeout", 0)) * time.Millisecond

	start := time.Now()
	res, err := svc.Bridge.Exec(ctx, command, timeout)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("transport error running %q: %v", command, err)), nil
	}
	svc.record(command, res, time.Since(start))

	return mcp.NewToolResultText(formatExecResult(command, svc.Bridge.Pwd(), res)), nil
}

func (svc *Service) record(command string, res *bridge.ExecResult, elapsed time.Duration) {
	if svc.History == nil {
		return
	}
	err := svc.History.Record(history.Entry{
		Host:     svc.Host,
		WorkDir:  svc.Bridge.Pwd(),
		Command:  command,
		ExitCode: res.ExitCode,
		TimedOut: res.TimedOut,
		Duration: elapsed,
	})
	if err != nil && svc.Log != nil {
		svc.Log.Warn("history record failed", "err", err)
	}
}

func formatExecResult(command, workDir string, res *bridge.ExecResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "$ %s\n", command)

	switch {
	case res.TimedOut:
		fmt.Fprintf(&sb, "Status: timed out (exit code %d) — the command may still be running in the session\n", res.ExitCode)
	case res.ExitCode == 0:
		sb.WriteString("Status: success\n")
	default:
		fmt.Fprintf(&sb, "Status: failed (exit code %d)\n", res.ExitCode)
	}

	if workDir != "" {
		fmt.Fprintf(&sb, "Directory: %s\n", workDir)
	} else {
		sb.WriteString("Directory: (session default)\n")
	}

	if res.Output != "" {
		sb.WriteString("Output:\n")
		sb.WriteString(res.Output)
	} else if !res.TimedOut {
		sb.WriteString("Output: (none)")
	}
	return strings.TrimRight(sb.String(), "\n")
}
