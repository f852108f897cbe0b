package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/manualhttp/manualhttp-go-client/internal/di"
	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
)

var (
	// Container is the dependency injection container
	Container *di.Container

	// ConfigPath is the path to the configuration file
	ConfigPath string

	// LogLevel is the logging level
	LogLevel string

	// RootCmd is the root command for CLI
	RootCmd = &cobra.Command{
		Use:   "manualhttp",
		Short: "ManualHttp - hand-rolled HTTP/1.1 client",
		Long: `ManualHttp speaks HTTP/1.1 directly over TCP or TLS sockets.
It prints requests and responses exactly as they travel on the wire and keeps
the cookies servers hand out.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize container
			Container = di.NewContainer()

			if err := Container.Initialize(ConfigPath); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			// Flag wins over configuration
			if cmd.Flags().Changed("log-level") {
				Container.Logger.SetLevel(LogLevel)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			// Close container
			if Container != nil {
				Container.Close()
			}
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// initializeClient builds the transport stack or exits
func initializeClient() {
	if err := Container.InitializeClient(); err != nil {
		fmt.Printf("Error: %v\n", err)
		exit(1)
	}
}

// exitOnExchangeError prints err and exits with status 1. A failed TLS
// authentication gets its own message.
func exitOnExchangeError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, model.ErrTLSAuthentication) {
		fmt.Println("Could not authenticate")
	}
	fmt.Printf("Error: %v\n", err)
	exit(1)
}

// exit closes the container before leaving the process
func exit(code int) {
	if Container != nil {
		Container.Close()
	}
	os.Exit(code)
}

func init() {
	// Add global flags
	RootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "Path to configuration file (default: ~/.manualhttp/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "warn", "Set logging level (debug, info, warn, error)")
}
