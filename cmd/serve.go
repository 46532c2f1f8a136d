package cmd

import (
	"github.com/huangsam/repoviz/internal/wsserver"
	"github.com/spf13/cobra"
)

// serveCmd streams pipeline events over websockets.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve live analysis over websockets",
	Long: `Start an HTTP server with a websocket endpoint at /ws. Every connection
owns one pipeline; messages are JSON objects:

  {"action":"analyze","url":"https://github.com/acme/widgets/tree/main/src"}
  {"action":"reload"}
  {"action":"clear"}
  {"action":"state"}

Progress, completed and failed events are pushed back as they happen.

Examples:
  repoviz serve --addr :9090`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return wsserver.ListenAndServe(cmd.Context(), cfg, accessProvider)
	},
}
