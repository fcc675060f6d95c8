package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewReportCommand creates the report command with subcommands
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Read-side rollups",
		Long: `State overviews and nation-wide resource rollups.

Examples:
  espa-engine report state --nation ESP --state CAT
  espa-engine report resources --nation ESP`,
	}

	cmd.AddCommand(newReportStateCommand())
	cmd.AddCommand(newReportResourcesCommand())

	return cmd
}

func newReportStateCommand() *cobra.Command {
	var stateID string

	cmd := &cobra.Command{
		Use:   "state",
		Short: "State overview: manpower, tax estimate, stockpiles, buildings",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.Reports.StateInfo(commandContext(), nation, stateID)
			if err != nil {
				return err
			}
			printJSON(info)
			return nil
		},
	}

	cmd.Flags().StringVar(&stateID, "state", "", "State id")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

func newReportResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "Nation-wide per-resource totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			totals, err := a.Reports.ResourcesRollup(commandContext(), nation)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RESOURCE\tAMOUNT\tCAPACITY")
			for _, total := range totals {
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\n", total.Resource, total.Amount, total.Capacity)
			}
			return w.Flush()
		},
	}
}
