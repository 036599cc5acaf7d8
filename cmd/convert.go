package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"firestige.xyz/crxfetch/internal/archive"
	"firestige.xyz/crxfetch/internal/crx"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <file.crx>",
	Short: "Convert a local CRX file to a ZIP archive",
	Long: `
Decode a CRX2/CRX3 container on disk and write the embedded ZIP next to
it. Input that is already a ZIP archive is copied through unchanged.

Examples:
  crxfetch convert extension.crx
  crxfetch convert extension.crx -o extension.zip
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		payload, meta, err := crx.ToZip(raw)
		if err != nil {
			return err
		}

		out := convertOutput
		if out == "" {
			out = strings.TrimSuffix(args[0], ".crx") + ".zip"
		}
		if err := os.WriteFile(out, payload, 0o644); err != nil {
			return err
		}

		if meta.FormatVersion > 0 {
			fmt.Printf("CRX version %d, nesting depth %d\n", meta.FormatVersion, meta.NestingDepth)
		} else {
			fmt.Println("Input was already a ZIP archive")
		}

		info, err := archive.Inspect(payload)
		if err != nil {
			fmt.Printf("Warning: output does not inspect cleanly: %v\n", err)
		} else {
			fmt.Printf("Wrote %s with %d files (%d bytes uncompressed)\n", out, len(info.Files), info.UncompressedSize)
			for i, name := range info.Files {
				if i == 10 {
					fmt.Printf("  ... and %d more files\n", len(info.Files)-10)
					break
				}
				fmt.Printf("  - %s\n", name)
			}
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output ZIP filename")
	rootCmd.AddCommand(convertCmd)
}
