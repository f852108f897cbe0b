package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, set at link time:
//
//	go build -ldflags "-X github.com/manualhttp/manualhttp-go-client/cmd.Version=1.2.0 -X github.com/manualhttp/manualhttp-go-client/cmd.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// versionCmd is the command to display version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Long:  `Display the ManualHttp version and build details.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func versionString() string {
	return fmt.Sprintf("manualhttp %s (commit %s, built %s, %s %s/%s)",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
