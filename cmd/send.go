package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/manualhttp/manualhttp-go-client/internal/application/service"
)

var (
	// Send command flags
	sendHeaders        []string
	sendData           string
	sendQuery          string
	sendFollow         bool
	sendAttachCookies  bool
	sendVerifyTLS      bool
	sendTLSMin         string
	sendConnectTimeout time.Duration
	sendReadTimeout    time.Duration
)

// sendCmd is the command to fire a single request
var sendCmd = &cobra.Command{
	Use:   "send [verb] [url]",
	Short: "Send a request and print the exchange",
	Long: `Send one HTTP/1.1 request and print the request, the response and the
cookies the server set.
Examples:
  manualhttp send GET https://example.com/
  manualhttp send POST http://localhost:8080/items -H "Content-Type: application/json" -d '{"id":1}'
  manualhttp send GET https://api.example.com/user --query name`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		applyClientFlags(cmd)
		initializeClient()

		ctx, stop := signalContext()
		defer stop()

		err := Container.HTTPService.Fire(ctx, service.SendRequest{
			Verb:    args[0],
			URL:     args[1],
			Headers: sendHeaders,
			Body:    sendData,
			Query:   sendQuery,
		})
		exitOnExchangeError(err)
	},
}

// applyClientFlags copies explicitly set flags onto the loaded configuration
func applyClientFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("follow") {
		Container.Config.FollowRedirects = sendFollow
	}
	if flags.Changed("attach-cookies") {
		Container.Config.AttachCookies = sendAttachCookies
	}
	if flags.Changed("verify-tls") {
		Container.Config.TLSVerify = sendVerifyTLS
	}
	if flags.Changed("tls-min") {
		Container.Config.TLSMinVersion = sendTLSMin
	}
	if flags.Changed("connect-timeout") {
		Container.Config.ConnectTimeout = sendConnectTimeout
	}
	if flags.Changed("read-timeout") {
		Container.Config.ReadTimeout = sendReadTimeout
	}
}

// addClientFlags registers the flags shared by every command that opens connections
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&sendFollow, "follow", false, "Follow 3xx redirects")
	cmd.Flags().BoolVar(&sendAttachCookies, "attach-cookies", false, "Send stored cookies matching the host")
	cmd.Flags().BoolVar(&sendVerifyTLS, "verify-tls", false, "Validate server certificates against the system roots")
	cmd.Flags().StringVar(&sendTLSMin, "tls-min", "", "Lowest accepted TLS version (1.0, 1.1, 1.2, 1.3)")
	cmd.Flags().DurationVar(&sendConnectTimeout, "connect-timeout", 0, "Connect and TLS handshake timeout")
	cmd.Flags().DurationVar(&sendReadTimeout, "read-timeout", 0, "Timeout applied to every read")
}

func init() {
	RootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringArrayVarP(&sendHeaders, "header", "H", nil, "Request header as \"Name: value\" (repeatable)")
	sendCmd.Flags().StringVarP(&sendData, "data", "d", "", "Request body; Content-Length is added when missing")
	sendCmd.Flags().StringVar(&sendQuery, "query", "", "gjson path printed from a JSON response body")
	addClientFlags(sendCmd)
}
