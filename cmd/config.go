package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/manualhttp/manualhttp-go-client/internal/infrastructure/config"
)

// configCmd is the command to manage configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage ManualHttp configuration.`,
}

// configShowCmd is the command to display configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration",
	Long:  `Display the effective ManualHttp configuration, environment overrides included.`,
	Run: func(cmd *cobra.Command, args []string) {
		values := config.Values(Container.Config)
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Println("ManualHttp Configuration:")
		for _, key := range keys {
			fmt.Printf("%s: %v\n", key, values[key])
		}
	},
}

// configSetCmd is the command to set configuration
var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set configuration",
	Long: `Set ManualHttp configuration.
Examples:
  manualhttp config set connect_timeout 5s
  manualhttp config set read_timeout 30s
  manualhttp config set user_agent "Casio Typewriter"
  manualhttp config set encoding iso-8859-1
  manualhttp config set tls_verify true
  manualhttp config set tls_min_version 1.2
  manualhttp config set follow_redirects true
  manualhttp config set attach_cookies true
  manualhttp config set log_level debug
  manualhttp config set log_file /path/to/log.txt`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		// Only the stored file is updated; environment overrides stay out of it
		if _, err := Container.ConfigService.UpdateValue(ConfigPath, key, value); err != nil {
			fmt.Printf("Error: %v\n", err)
			exit(1)
		}

		fmt.Printf("Configuration %s successfully changed to %s\n", key, value)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
