package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check transport reachability and session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildService()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		fmt.Printf("Host:      %s\n", svc.Host)

		if _, err := svc.Runner.Run(ctx, "true"); err != nil {
			fmt.Printf("Transport: %s %s\n", failStyle.Render("unreachable"), dimStyle.Render(err.Error()))
			return nil
		}
		fmt.Printf("Transport: %s\n", okStyle.Render("connected"))

		session := svc.Bridge.Session()
		if svc.Bridge.HasSession(ctx) {
			fmt.Printf("Session:   %s %s\n", okStyle.Render("running"), dimStyle.Render("("+session+")"))
		} else {
			fmt.Printf("Session:   %s %s\n", dimStyle.Render("absent"), dimStyle.Render("("+session+", created on first command)"))
		}

		if wd := svc.Bridge.Pwd(); wd != "" {
			fmt.Printf("Directory: %s\n", wd)
		} else {
			fmt.Printf("Directory: %s\n", dimStyle.Render("(not set)"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
