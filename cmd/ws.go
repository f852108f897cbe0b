package cmd

import (
	"github.com/spf13/cobra"
)

// wsCmd is the command to exchange messages with a websocket server
var wsCmd = &cobra.Command{
	Use:   "ws [url] [message...]",
	Short: "Send websocket messages and print the replies",
	Long: `Open a websocket over the ManualHttp transport, send every message as a
text frame and print each reply.
Examples:
  manualhttp ws ws://localhost:8080/echo hello
  manualhttp ws wss://echo.example.com/ one two three`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		applyClientFlags(cmd)
		initializeClient()

		ctx, stop := signalContext()
		defer stop()

		exitOnExchangeError(Container.HTTPService.Echo(ctx, args[0], args[1:]))
	},
}

func init() {
	RootCmd.AddCommand(wsCmd)
	addClientFlags(wsCmd)
}
