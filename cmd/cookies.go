package cmd

import (
	"github.com/spf13/cobra"
)

// cookiesCmd is the command to collect cookies across several requests
var cookiesCmd = &cobra.Command{
	Use:   "cookies [url...]",
	Short: "GET each URL in turn and print the cookie jar",
	Long: `Send a GET to every URL in order, sharing one cookie store, then print
the cookies collected.
Examples:
  manualhttp cookies https://example.com/login https://example.com/home
  manualhttp cookies --attach-cookies http://localhost:8080/a http://localhost:8080/b`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		applyClientFlags(cmd)
		initializeClient()

		ctx, stop := signalContext()
		defer stop()

		exitOnExchangeError(Container.HTTPService.CollectCookies(ctx, args))
	},
}

func init() {
	RootCmd.AddCommand(cookiesCmd)
	addClientFlags(cookiesCmd)
}
