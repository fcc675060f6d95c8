package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTurnCommand creates the turn command with subcommands
func NewTurnCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "turn",
		Short: "Turn clock operations",
		Long: `Inspect and advance the authoritative turn clock.

Advancing a turn resolves due builds, applies production and consumption to
every installed building or charges maintenance against every treasury.

Examples:
  espa-engine turn show
  espa-engine turn advance`,
	}

	cmd.AddCommand(newTurnShowCommand())
	cmd.AddCommand(newTurnAdvanceCommand())

	return cmd
}

func newTurnShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current turn number",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			turn, err := a.Turns.CurrentTurn(commandContext())
			if err != nil {
				return err
			}
			fmt.Printf("current turn: %d\n", turn)
			return nil
		},
	}
}

func newTurnAdvanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Advance the world one turn",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			next, err := a.Turns.AdvanceTurn(commandContext())
			if err != nil {
				return err
			}
			fmt.Printf("advanced to turn %d\n", next)
			return nil
		},
	}
}
