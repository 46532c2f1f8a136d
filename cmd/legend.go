package cmd

import (
	"github.com/huangsam/repoviz/core"
	"github.com/spf13/cobra"
)

// legendCmd prints the static legend.
var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "Explain how colors and transparency are assigned",
	Long: `Print the meaning of the visual encoding: color is complexity and
transparency is size relative to the largest file of a run. The ranges follow
the --yellow and --red thresholds.

Examples:
  repoviz legend
  repoviz legend --yellow 3 --red 8 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return core.ExecuteLegend(cmd.Context(), cfg, accessProvider, historyManager)
	},
}
