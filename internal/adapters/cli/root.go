package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	nationID   string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "espa-engine",
		Short: "Espa economy engine - turn, build, trade and modifier administration",
		Long: `Espa economy engine administers the turn-based nation economy:
province stockpiles, the build queue, recruitment, inter-nation trade and
scoped modifiers.

Examples:
  espa-engine turn advance
  espa-engine build start --nation ESP --state CAT --building steel_mill --tier 2
  espa-engine trade offer create --nation ESP --to FRA --offered '{"Coal":50}' --requested-cash 200
  espa-engine modifier add --scope nation --scope-id ESP --effect tax --kind mul --value 1.1
  espa-engine report state --nation ESP --state CAT`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: config.yaml discovery)")
	rootCmd.PersistentFlags().StringVar(&nationID, "nation", "",
		"Acting nation id")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewTurnCommand())
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewRecruitCommand())
	rootCmd.AddCommand(NewTradeCommand())
	rootCmd.AddCommand(NewModifierCommand())
	rootCmd.AddCommand(NewReportCommand())
	rootCmd.AddCommand(NewMetricsCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
