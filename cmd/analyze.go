package cmd

import (
	"github.com/huangsam/repoviz/core"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the pipeline against one repository directory.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze the files of one repository directory",
	Long: `Fetch every file with the chosen extension directly under a repository
directory, count its lines and branching keywords, and encode each file as a
color (complexity) and a transparency (relative size).

Accepted locators:
  https://github.com/<owner>/<repo>
  https://github.com/<owner>/<repo>/tree/<branch>/<path>

Subdirectories are not visited. With --watch the same locator is analyzed
again on every interval; a new run supersedes one still in flight.

Examples:
  # Analyze Java sources of a directory
  repoviz analyze https://github.com/acme/widgets/tree/main/src

  # Kotlin files with stricter thresholds, written as JSON
  repoviz analyze https://github.com/acme/app --extension kt --yellow 3 --red 6 --output json

  # Read from local mirrors instead of the GitHub API
  repoviz analyze https://github.com/acme/widgets --provider git --mirror-root /srv/mirrors

  # Refresh every five minutes
  repoviz analyze https://github.com/acme/widgets --watch 5m`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return core.ExecuteAnalyze(cmd.Context(), cfg, accessProvider, historyManager)
	},
}
