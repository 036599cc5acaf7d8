package cmd

import (
	"github.com/spf13/cobra"

	"firestige.xyz/crxfetch/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Run the interactive terminal menu",
	Long: `
Start a menu-driven session for downloading extensions without
remembering flags: single download, batch download, id-list file, and
sample-config generation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cfg)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
