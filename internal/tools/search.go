package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simon/rdev/internal/bridge"
)

func (svc *Service) handleFindFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := request.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir := svc.searchDir(request.GetString("path", ""))

	cmd := fmt.Sprintf("find %s -name %s 2>/dev/null | sort | head -%d",
		bridge.Quote(dir), bridge.Quote(pattern), findFilesCap)

	res, err := svc.Runner.Run(ctx, cmd)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("transport error searching %s: %v", dir, err)), nil
	}
	out := strings.TrimRight(res.Stdout, "\n")
	if out == "" {
		return mcp.NewToolResultText("(no matches)"), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (svc *Service) handleSearchContents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := request.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir := svc.searchDir(request.GetString("path", ""))
	include := request.GetString("include", "")

	cmd := "grep -rn"
	if include != "" {
		cmd += " --include=" + bridge.Quote(include)
	}
	cmd += fmt.Sprintf(" %s %s 2>/dev/null | head -%d",
		bridge.Quote(pattern), bridge.Quote(dir), searchContentsCap)

	res, err := svc.Runner.Run(ctx, cmd)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("transport error searching %s: %v", dir, err)), nil
	}
	out := strings.TrimRight(res.Stdout, "\n")
	if out == "" {
		return mcp.NewToolResultText("(no matches)"), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (svc *Service) handleListDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := svc.searchDir(request.GetString("path", ""))

	cmd := "ls"
	if request.GetBool("all", false) {
		cmd += " -a"
	}
	if request.GetBool("long", false) {
		cmd += " -l"
	}
	cmd += " " + bridge.Quote(dir)

	res, err := svc.Runner.Run(ctx, cmd)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("transport error listing %s: %v", dir, err)), nil
	}
	if res.ExitCode != 0 {
		return mcp.NewToolResultError(fmt.Sprintf("cannot list %s: %s", dir, strings.TrimSpace(res.Stderr))), nil
	}
	return mcp.NewToolResultText(strings.TrimRight(res.Stdout, "\n")), nil
}
