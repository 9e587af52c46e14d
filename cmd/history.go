package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/simon/rdev/internal/history"
	"github.com/simon/rdev/internal/tui"
)

var (
	historyLimit       int
	historyInteractive bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently executed remote commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open()
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}

		if historyInteractive {
			p := tea.NewProgram(tui.NewModel(entries), tea.WithAltScreen())
			_, err := p.Run()
			return err
		}

		if len(entries) == 0 {
			fmt.Println("(no history)")
			return nil
		}
		for _, e := range entries {
			status := fmt.Sprintf("exit %d", e.ExitCode)
			if e.TimedOut {
				status = "timeout"
			}
			fmt.Printf("%s  [%s]  %s\n", e.Created.Format("2006-01-02 15:04"), status, e.Command)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "number of entries to show")
	historyCmd.Flags().BoolVarP(&historyInteractive, "interactive", "i", false, "browse history in a TUI")
	rootCmd.AddCommand(historyCmd)
}
