package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/crxfetch/internal/downloader"
)

var batchFromFile string

var batchCmd = &cobra.Command{
	Use:   "batch [extension-id...]",
	Short: "Download multiple extensions concurrently",
	Long: `
Download several extensions in one run, either listed on the command
line or read from a file (one id per line, # starts a comment).

Examples:
  crxfetch batch gppongmhjkpfnbhagpmjfkannfbllamg nkeimhogjdpnpccoofpliimaahmaaome
  crxfetch batch --from-file extensions.txt
  crxfetch batch --from-file extensions.txt --max-workers 5
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := args
		if batchFromFile != "" {
			fileIDs, err := downloader.ReadIDFile(batchFromFile)
			if err != nil {
				return err
			}
			ids = append(ids, fileIDs...)
		}
		if len(ids) == 0 {
			return fmt.Errorf("no extension ids given (arguments or --from-file)")
		}

		d, err := downloader.New(cfg)
		if err != nil {
			return err
		}

		results := d.DownloadAll(context.Background(), ids)

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Printf("FAIL %s: %v\n", r.ID, r.Err)
				continue
			}
			fmt.Printf("OK   %s -> %s\n", r.ID, r.Path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d downloads failed", failed, len(results))
		}
		fmt.Printf("Downloaded %d extensions\n", len(results))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFromFile, "from-file", "", "file with extension ids, one per line")
	rootCmd.AddCommand(batchCmd)
}
