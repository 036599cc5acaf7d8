package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/crxfetch/internal/downloader"
	"firestige.xyz/crxfetch/internal/webstore"
)

var getOutput string

var getCmd = &cobra.Command{
	Use:   "get <extension-id|store-url>",
	Short: "Download one extension and convert it to a ZIP archive",
	Long: `
Download a single extension by id or by Chrome Web Store detail URL.

Examples:
  crxfetch get gppongmhjkpfnbhagpmjfkannfbllamg
  crxfetch get https://chrome.google.com/webstore/detail/wappalyzer/gppongmhjkpfnbhagpmjfkannfbllamg
  crxfetch get gppongmhjkpfnbhagpmjfkannfbllamg -o wappalyzer.zip
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := webstore.ResolveID(args[0])
		if err != nil {
			return err
		}

		d, err := downloader.New(cfg)
		if err != nil {
			return err
		}

		path, meta, err := d.Download(context.Background(), id, getOutput)
		if err != nil {
			return err
		}

		fmt.Printf("Downloaded %s (crx%d, %d bytes) -> %s\n", id, meta.FormatVersion, meta.PayloadLength, path)
		return nil
	},
}

func init() {
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "output ZIP filename (default <id>.zip)")
	rootCmd.AddCommand(getCmd)
}
