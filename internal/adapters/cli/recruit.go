package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/recruit"
)

// NewRecruitCommand creates the recruit command with subcommands
func NewRecruitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recruit",
		Short: "Unit recruitment operations",
		Long: `Estimate, raise and disband units.

Recruitment debits cash, manpower and resources immediately; a failed
recruitment leaves nothing deducted.

Examples:
  espa-engine recruit estimate --template infantry --quantity 10
  espa-engine recruit add --nation ESP --state CAT --template infantry --quantity 10
  espa-engine recruit disband --nation ESP --id 4
  espa-engine recruit list --nation ESP
  espa-engine recruit army create --nation ESP --name "1st Army" --state CAT`,
	}

	cmd.AddCommand(newRecruitEstimateCommand())
	cmd.AddCommand(newRecruitAddCommand())
	cmd.AddCommand(newRecruitDisbandCommand())
	cmd.AddCommand(newRecruitListCommand())
	cmd.AddCommand(newArmyCommand())

	return cmd
}

func newRecruitEstimateCommand() *cobra.Command {
	var (
		templateID string
		quantity   int
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate recruitment cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			estimate, err := a.Recruits.EstimateCost(commandContext(), templateID, quantity)
			if err != nil {
				return err
			}
			printJSON(estimate)
			return nil
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Unit template id")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Number of units")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func newRecruitAddCommand() *cobra.Command {
	var (
		templateID string
		quantity   int
		stateID    string
		armyID     int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Recruit units in a state",
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

			req := recruit.RecruitRequest{
				NationID:   nation,
				TemplateID: templateID,
				Quantity:   quantity,
				StateID:    stateID,
			}
			if armyID > 0 {
				req.ArmyID = &armyID
			}
			units, err := a.Recruits.Recruit(commandContext(), req)
			if err != nil {
				return err
			}
			fmt.Printf("recruited %d x %s in %s\n", len(units), templateID, stateID)
			return nil
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Unit template id")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Number of units")
	cmd.Flags().StringVar(&stateID, "state", "", "State to raise the units in")
	cmd.Flags().Int64Var(&armyID, "army", 0, "Army to assign the units to (optional)")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

func newRecruitDisbandCommand() *cobra.Command {
	var recruitID int64

	cmd := &cobra.Command{
		Use:   "disband",
		Short: "Disband one recruit with a best-effort refund",
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

			if err := a.Recruits.Disband(commandContext(), nation, recruitID); err != nil {
				return err
			}
			fmt.Printf("recruit %d disbanded\n", recruitID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&recruitID, "id", 0, "Recruit id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newRecruitListCommand() *cobra.Command {
	var stateID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the nation's recruits",
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

			recruits, err := a.Recruits.List(commandContext(), nation, stateID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTEMPLATE\tSTATE\tPROVINCE\tSTATUS")
			for _, r := range recruits {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.UnitTemplateID, r.StateID, r.ProvinceID, r.Status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&stateID, "state", "", "Filter by state (optional)")

	return cmd
}

func newArmyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "army",
		Short: "Army management",
	}

	var (
		name    string
		stateID string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a named army",
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

			army, err := a.Recruits.CreateArmy(commandContext(), nation, name, stateID)
			if err != nil {
				return err
			}
			fmt.Printf("army %d (%s) created\n", army.ID, army.Name)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Army name")
	create.Flags().StringVar(&stateID, "state", "", "Home state")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("state")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the nation's armies",
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

			armies, err := a.Recruits.ListArmies(commandContext(), nation)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATE")
			for _, army := range armies {
				fmt.Fprintf(w, "%d\t%s\t%s\n", army.ID, army.Name, army.StateID)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(create)
	cmd.AddCommand(list)

	return cmd
}
