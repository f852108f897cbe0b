package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// sendFileCmd is the command to send a raw request template
var sendFileCmd = &cobra.Command{
	Use:   "send-file [file] [host] [ssl] [port]",
	Short: "Send a raw request template",
	Long: `Send the request written in a template file byte for byte.
Lines starting with # are comments. The remaining lines are joined with CRLF
and terminated by a blank line. The port defaults to 443 with ssl and 80
otherwise.
Examples:
  manualhttp send-file request.http example.com
  manualhttp send-file request.http example.com true
  manualhttp send-file request.http localhost false 8080`,
	Args: cobra.RangeArgs(2, 4),
	Run: func(cmd *cobra.Command, args []string) {
		useTLS := false
		port := 0

		if len(args) > 2 {
			var err error
			useTLS, err = strconv.ParseBool(args[2])
			if err != nil {
				fmt.Printf("Error: ssl must be true or false: %v\n", err)
				exit(1)
			}
		}
		if len(args) > 3 {
			var err error
			port, err = strconv.Atoi(args[3])
			if err != nil || port <= 0 || port > 65535 {
				fmt.Printf("Error: Invalid port: %s\n", args[3])
				exit(1)
			}
		}

		applyClientFlags(cmd)
		initializeClient()

		ctx, stop := signalContext()
		defer stop()

		exitOnExchangeError(Container.HTTPService.SendFile(ctx, args[0], args[1], useTLS, port))
	},
}

func init() {
	RootCmd.AddCommand(sendFileCmd)
	addClientFlags(sendFileCmd)
}
