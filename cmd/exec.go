package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var execTimeoutMs int

var execCmd = &cobra.Command{
	Use:   "exec <command...>",
	Short: "Run a command in the remote session and print its output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildService()
		if err != nil {
			return err
		}
		defer cleanup()

		command := strings.Join(args, " ")
		res, err := svc.Bridge.Exec(cmd.Context(), command,
			time.Duration(execTimeoutMs)*time.Millisecond)
		if err != nil {
			return fmt.Errorf("transport error: %w", err)
		}

		fmt.Print(res.Output)
		if res.TimedOut {
			fmt.Fprintln(os.Stderr, "timed out; the command may still be running in the session")
		}
		if res.ExitCode != 0 {
			os.Exit(res.ExitCode)
		}
		return nil
	},
}

func init() {
	execCmd.Flags().IntVarP(&execTimeoutMs, "timeout", "t", 0, "timeout in milliseconds (default 60000)")
	rootCmd.AddCommand(execCmd)
}
