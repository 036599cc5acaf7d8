package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/crxfetch/internal/config"
)

var configPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write a sample configuration file",
	Long: `
Write the built-in defaults as an editable JSON config file.

Examples:
  crxfetch config                    # writes config.json
  crxfetch config --path my.json
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteSample(configPath); err != nil {
			return err
		}
		fmt.Printf("Sample configuration written to %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&configPath, "path", config.DefaultFile, "where to write the sample config")
	rootCmd.AddCommand(configCmd)
}
