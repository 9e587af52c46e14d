package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (svc *Service) handleChangeDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	dir, err := svc.Bridge.Cd(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Current directory: %s", dir)), nil
}

func (svc *Service) handlePrintWorkingDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if wd := svc.Bridge.Pwd(); wd != "" {
		return mcp.NewToolResultText(wd), nil
	}
	return mcp.NewToolResultText("(not set)"), nil
}
