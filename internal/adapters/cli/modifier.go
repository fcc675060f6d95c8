package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	modifierapp "github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/modifier"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/modifier"
)

// NewModifierCommand creates the modifier command with subcommands
func NewModifierCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modifier",
		Short: "Scoped modifier administration",
		Long: `Create, remove and inspect economy modifiers.

Modifiers combine as final = max(0, (1 + sum of add values) * product of
mul values), per effect, across matching global/nation/state scopes.

Examples:
  espa-engine modifier add --scope nation --scope-id ESP --effect tax --kind mul --value 1.1
  espa-engine modifier remove --id 4
  espa-engine modifier list --scope state --scope-id CAT
  espa-engine modifier final --nation ESP --state CAT`,
	}

	cmd.AddCommand(newModifierAddCommand())
	cmd.AddCommand(newModifierRemoveCommand())
	cmd.AddCommand(newModifierListCommand())
	cmd.AddCommand(newModifierFinalCommand())

	return cmd
}

func newModifierAddCommand() *cobra.Command {
	var (
		scope       string
		scopeID     string
		effect      string
		kind        string
		value       float64
		source      string
		expiresTurn int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a modifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			req := modifierapp.AddRequest{
				Scope:   modifier.Scope(scope),
				ScopeID: scopeID,
				Effect:  modifier.Effect(effect),
				Kind:    modifier.Kind(kind),
				Value:   value,
				Source:  source,
			}
			if cmd.Flags().Changed("expires-turn") {
				req.ExpiresTurn = &expiresTurn
			}
			mod, err := a.Modifiers.Add(commandContext(), req)
			if err != nil {
				return err
			}
			fmt.Printf("modifier %d created\n", mod.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Scope: global, nation, state, province")
	cmd.Flags().StringVar(&scopeID, "scope-id", "", "Scope id (empty for global)")
	cmd.Flags().StringVar(&effect, "effect", "", "Effect: production, population, tax, all")
	cmd.Flags().StringVar(&kind, "kind", "", "Kind: mul or add")
	cmd.Flags().Float64Var(&value, "value", 0, "Modifier value")
	cmd.Flags().StringVar(&source, "source", "", "Free-text source tag")
	cmd.Flags().IntVar(&expiresTurn, "expires-turn", 0, "Last turn the modifier applies (optional)")
	_ = cmd.MarkFlagRequired("scope")
	_ = cmd.MarkFlagRequired("effect")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newModifierRemoveCommand() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete a modifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Modifiers.Remove(commandContext(), id); err != nil {
				return err
			}
			fmt.Printf("modifier %d removed\n", id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Modifier id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newModifierListCommand() *cobra.Command {
	var (
		scope   string
		scopeID string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List modifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			mods, err := a.Modifiers.List(commandContext(), modifier.Scope(scope), scopeID, !all)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCOPE\tSCOPE ID\tEFFECT\tKIND\tVALUE\tEXPIRES\tSOURCE")
			for _, m := range mods {
				expires := "-"
				if m.ExpiresTurn != nil {
					expires = fmt.Sprintf("%d", *m.ExpiresTurn)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.3f\t%s\t%s\n",
					m.ID, m.Scope, m.ScopeID, m.Effect, m.Kind, m.Value, expires, m.Source)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Filter by scope (optional)")
	cmd.Flags().StringVar(&scopeID, "scope-id", "", "Filter by scope id (optional)")
	cmd.Flags().BoolVar(&all, "all", false, "Include inactive modifiers")

	return cmd
}

func newModifierFinalCommand() *cobra.Command {
	var stateID string

	cmd := &cobra.Command{
		Use:   "final",
		Short: "Compute final per-effect totals for a nation and state",
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

			report, err := a.Modifiers.ComputeFinal(commandContext(), nation, stateID)
			if err != nil {
				return err
			}
			printJSON(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&stateID, "state", "", "State id")

	return cmd
}
