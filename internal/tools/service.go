// Package tools exposes the remote-development operations as MCP tools.
// Each tool is a thin adapter: it turns a structured request into shell
// command strings, runs them through the bridge or the connector, and
// turns the raw result into a text response.
package tools

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/simon/rdev/internal/bridge"
	"github.com/simon/rdev/internal/history"
	"github.com/simon/rdev/internal/sshconn"
)

const (
	findFilesCap      = 100
	searchContentsCap = 50
)

// Service holds the shared dependencies behind every tool handler.
type Service struct {
	Bridge  *bridge.Bridge
	Runner  sshconn.Runner
	History *history.Store // nil disables history recording
	Host    string
	Log     *slog.Logger
}

// NewServer builds the MCP server with all nine tools registered.
// Handlers run behind server.WithRecovery, so an unexpected panic becomes
// an error response instead of a process exit.
func NewServer(svc *Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"rdev",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("execute_command",
		mcp.WithDescription("Execute a shell command on the remote host inside the persistent session. Honors the current remote directory."),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Shell command to run"),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Timeout in milliseconds (default 60000)"),
		),
	), svc.handleExecuteCommand)

	s.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read a file from the remote host with line numbers. Path can be absolute or relative to the current remote directory."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path"),
		),
		mcp.WithNumber("offset",
			mcp.Description("1-indexed first line to read"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Number of lines to read (default: to end of file)"),
		),
	), svc.handleReadFile)

	s.AddTool(mcp.NewTool("write_file",
		mcp.WithDescription("Write content to a file on the remote host, overwriting any existing content."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Content to write"),
		),
	), svc.handleWriteFile)

	s.AddTool(mcp.NewTool("edit_file",
		mcp.WithDescription("Replace an exact string in a remote file. Fails if the string is missing or occurs more than once."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path"),
		),
		mcp.WithString("old_string",
			mcp.Required(),
			mcp.Description("Exact text to replace (must be unique in the file)"),
		),
		mcp.WithString("new_string",
			mcp.Required(),
			mcp.Description("Replacement text"),
		),
	), svc.handleEditFile)

	s.AddTool(mcp.NewTool("find_files",
		mcp.WithDescription("Find files by name glob under a remote directory (recursive, max 100 results)."),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Filename glob, e.g. *.go"),
		),
		mcp.WithString("path",
			mcp.Description("Directory to search (default: current remote directory)"),
		),
	), svc.handleFindFiles)

	s.AddTool(mcp.NewTool("search_contents",
		mcp.WithDescription("Search file contents by regex under a remote directory (recursive, max 50 matching lines)."),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Regex to search for"),
		),
		mcp.WithString("path",
			mcp.Description("Directory to search (default: current remote directory)"),
		),
		mcp.WithString("include",
			mcp.Description("Filename glob filter, e.g. *.go"),
		),
	), svc.handleSearchContents)

	s.AddTool(mcp.NewTool("change_directory",
		mcp.WithDescription("Change the current remote directory. Fails if the directory does not exist; state is unchanged on failure."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory path (absolute or relative to current remote directory)"),
		),
	), svc.handleChangeDirectory)

	s.AddTool(mcp.NewTool("print_working_directory",
		mcp.WithDescription("Print the current remote directory."),
	), svc.handlePrintWorkingDirectory)

	s.AddTool(mcp.NewTool("list_directory",
		mcp.WithDescription("List a remote directory."),
		mcp.WithString("path",
			mcp.Description("Directory path (default: current remote directory)"),
		),
		mcp.WithBoolean("all",
			mcp.Description("Include hidden entries"),
		),
		mcp.WithBoolean("long",
			mcp.Description("Long listing format"),
		),
	), svc.handleListDirectory)

	return s
}

// searchDir picks the directory for find/search/list style tools: an
// explicit path is resolved against the current remote directory, no
// path means the current directory itself, or "." when unset.
func (svc *Service) searchDir(path string) string {
	if path == "" {
		if wd := svc.Bridge.Pwd(); wd != "" {
			return wd
		}
		return "."
	}
	return svc.Bridge.ResolvePath(path)
}
