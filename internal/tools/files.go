package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simon/rdev/internal/bridge"
)

func (svc *Service) handleReadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	offset := int(request.GetFloat("offset", 1))
	limit := int(request.GetFloat("limit", 0))
	if offset < 1 {
		return mcp.NewToolResultError("offset must be >= 1"), nil
	}
	if limit < 0 {
		return mcp.NewToolResultError("limit must be >= 0"), nil
	}

	resolved := svc.Bridge.ResolvePath(path)
	content, err := svc.fetchRange(ctx, resolved, offset, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if content == "" {
		return mcp.NewToolResultText(fmt.Sprintf("%s: (no lines in range)", resolved)), nil
	}
	return mcp.NewToolResultText(numberLines(content, offset)), nil
}

// fetchRange reads a file, or a line sub-range of it, from the remote
// host. offset is 1-indexed; limit 0 means "to end of file".
func (svc *Service) fetchRange(ctx context.Context, path string, offset, limit int) (string, error) {
	var cmd string
	switch {
	case offset == 1 && limit == 0:
		cmd = "cat " + bridge.Quote(path)
	case limit == 0:
		cmd = fmt.Sprintf("sed -n '%d,$p' %s", offset, bridge.Quote(path))
	default:
		cmd = fmt.Sprintf("sed -n '%d,%dp' %s", offset, offset+limit-1, bridge.Quote(path))
	}

	res, err := svc.Runner.Run(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("transport error reading %s: %w", path, err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("cannot read %s: %s", path, strings.TrimSpace(res.Stderr))
	}
	return res.Stdout, nil
}

func numberLines(content string, offset int) string {
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	var sb strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&sb, "%6d\t%s", offset+i, line)
		if i < len(lines)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (svc *Service) handleWriteFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved := svc.Bridge.ResolvePath(path)
	if err := svc.writeRemote(ctx, resolved, content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Wrote %d bytes to %s", len(content), resolved)), nil
}

// writeRemote overwrites a remote file using a quoted here-document. The
// delimiter carries a nanosecond token so file content cannot collide
// with it in practice.
func (svc *Service) writeRemote(ctx context.Context, path, content string) error {
	delim := fmt.Sprintf("RDEV_EOF_%d", time.Now().UnixNano())
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	cmd := fmt.Sprintf("cat > %s << '%s'\n%s%s", bridge.Quote(path), delim, content, delim)

	res, err := svc.Runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("transport error writing %s: %w", path, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("cannot write %s: %s", path, strings.TrimSpace(res.Stderr))
	}
	return nil
}

func (svc *Service) handleEditFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	oldString, err := request.RequireString("old_string")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newString, err := request.RequireString("new_string")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if oldString == "" {
		return mcp.NewToolResultError("old_string must not be empty"), nil
	}

	resolved := svc.Bridge.ResolvePath(path)
	content, err := svc.fetchRange(ctx, resolved, 1, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// The uniqueness check happens locally on the full file, so the file
	// is never rewritten unless exactly one occurrence exists.
	switch n := strings.Count(content, oldString); {
	case n == 0:
		return mcp.NewToolResultError(fmt.Sprintf("old_string not found in %s", resolved)), nil
	case n > 1:
		return mcp.NewToolResultError(fmt.Sprintf("old_string occurs %d times in %s — it must be unique", n, resolved)), nil
	}

	updated := strings.Replace(content, oldString, newString, 1)
	if err := svc.writeRemote(ctx, resolved, updated); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Replaced 1 occurrence in %s", resolved)), nil
}
