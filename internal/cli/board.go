package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/tui"
)

// newBoardCommand creates the board command launching the TUI.
func newBoardCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "board",
		GroupID: groupTasks,
		Short:   "Open the interactive task board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			model := tui.NewModel(c.Store, c.Syncer, c.Paths.ProjectRoot)
			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	return cmd
}
