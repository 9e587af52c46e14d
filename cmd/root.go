package cmd

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/simon/rdev/internal/tools"
)

func SetVersionInfo(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
}

var rootCmd = &cobra.Command{
	Use:   "rdev",
	Short: "Remote development tools over SSH and tmux",
	Long: `rdev serves MCP tools over stdio that run commands, edit files, and
search on a remote host, using a pooled SSH connection and a persistent
tmux session for stateful execution.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildService()
		if err != nil {
			return err
		}
		defer cleanup()

		s := tools.NewServer(svc, cmd.Root().Version)
		return mcpserver.ServeStdio(s)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
