package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/build"
)

// NewBuildCommand creates the build command with subcommands
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Construction queue operations",
		Long: `Start, cancel and inspect construction.

Starting a build reserves its resource cost across the nation's provinces in
the target state; the build resolves when the turn clock reaches its
completion turn.

Examples:
  espa-engine build start --nation ESP --state CAT --building steel_mill --tier 2
  espa-engine build cancel --nation ESP --id 7
  espa-engine build queue --nation ESP
  espa-engine build demolish --nation ESP --id 12`,
	}

	cmd.AddCommand(newBuildStartCommand())
	cmd.AddCommand(newBuildCancelCommand())
	cmd.AddCommand(newBuildQueueCommand())
	cmd.AddCommand(newBuildDemolishCommand())

	return cmd
}

func newBuildStartCommand() *cobra.Command {
	var (
		stateID    string
		buildingID string
		tier       int
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Queue a new construction",
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

			pending, err := a.Builds.Start(commandContext(), build.StartRequest{
				NationID:   nation,
				StateID:    stateID,
				BuildingID: buildingID,
				Tier:       tier,
			})
			if err != nil {
				return err
			}
			fmt.Printf("build %d queued, completes turn %d\n", pending.ID, pending.CompleteTurn)
			return nil
		},
	}

	cmd.Flags().StringVar(&stateID, "state", "", "Target state id")
	cmd.Flags().StringVar(&buildingID, "building", "", "Building template id")
	cmd.Flags().IntVar(&tier, "tier", 1, "Building tier")
	_ = cmd.MarkFlagRequired("state")
	_ = cmd.MarkFlagRequired("building")

	return cmd
}

func newBuildCancelCommand() *cobra.Command {
	var buildID int64

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a pending build and release its reservations",
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

			if err := a.Builds.Cancel(commandContext(), nation, buildID); err != nil {
				return err
			}
			fmt.Printf("build %d cancelled\n", buildID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&buildID, "id", 0, "Build id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newBuildQueueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "List the nation's pending builds",
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

			pending, err := a.Builds.Queue(commandContext(), nation)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATE\tBUILDING\tTIER\tCOMPLETES")
			for _, b := range pending {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", b.ID, b.StateID, b.BuildingID, b.Tier, b.CompleteTurn)
			}
			return w.Flush()
		},
	}
}

func newBuildDemolishCommand() *cobra.Command {
	var installedID int64

	cmd := &cobra.Command{
		Use:   "demolish",
		Short: "Remove an installed building (no refund)",
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

			if err := a.Builds.Demolish(commandContext(), nation, installedID); err != nil {
				return err
			}
			fmt.Printf("installed building %d demolished\n", installedID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&installedID, "id", 0, "Installed building id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
