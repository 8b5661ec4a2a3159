package cli

import (
	"fmt"
	"strings"

	"github.com/fastgen-labs/fastgen/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write settings stored at ~/.fastgen/config.yaml.

Keys:
  overwrite   skip (default) or force; policy for files that already exist`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		printf(cmd, "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		for _, k := range config.Keys() {
			if k == key {
				printf(cmd, "%s\n", config.Get(key))
				return nil
			}
		}
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(config.Keys(), ", "))
	},
}
