package command

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/n1rna/hbnb-cli/internal/console"
	"github.com/n1rna/hbnb-cli/internal/tui"
)

// NewConsoleCommand creates the console command
func NewConsoleCommand(groupId string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Start the interactive shell",
		Long: `Start the hbnb shell. On a terminal this opens the full-screen interface;
otherwise commands are read line by line from standard input.`,
		Args:    cobra.NoArgs,
		RunE:    runConsole,
		GroupID: groupId,
	}

	cmd.Flags().Bool("plain", false, "Use the line-oriented shell even on a terminal")

	return cmd
}

func runConsole(cmd *cobra.Command, args []string) error {
	mgr, err := RequireManager(cmd.Context())
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	plain, _ := cmd.Flags().GetBool("plain")
	interactive := isTerminal(in)

	if interactive && !plain {
		program := tea.NewProgram(tui.NewModel(mgr), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	}

	shell := console.NewShell(mgr, cmd.OutOrStdout())
	return shell.Run(in, interactive)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
