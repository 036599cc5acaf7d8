package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/crxfetch/internal/webstore"
)

var urlOpts webstore.Options

var urlCmd = &cobra.Command{
	Use:   "url <extension-id|store-url>",
	Short: "Print the Web Store download URL for an extension",
	Long: `
Construct the update-service URL that serves the CRX blob, without
downloading anything. Platform parameters default to the current
machine and can be overridden.

Examples:
  crxfetch url gppongmhjkpfnbhagpmjfkannfbllamg
  crxfetch url gppongmhjkpfnbhagpmjfkannfbllamg --os linux --arch x86-64
  crxfetch url gppongmhjkpfnbhagpmjfkannfbllamg --prodversion 119.0.6045.105
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := webstore.ResolveID(args[0])
		if err != nil {
			return err
		}
		u, err := webstore.DownloadURL(id, urlOpts)
		if err != nil {
			return err
		}
		fmt.Println(u)
		return nil
	},
}

func init() {
	urlCmd.Flags().StringVar(&urlOpts.OS, "os", "", "target os: win|mac|linux|cros|openbsd|android")
	urlCmd.Flags().StringVar(&urlOpts.Arch, "arch", "", "target arch: arm|x86-64|x86-32")
	urlCmd.Flags().StringVar(&urlOpts.NaClArch, "nacl-arch", "", "native client arch")
	urlCmd.Flags().StringVar(&urlOpts.ProdVersion, "prodversion", "", "Chrome product version")
	urlCmd.Flags().StringVar(&urlOpts.Product, "product", "", "product id: chromecrx|chromiumcrx")
	rootCmd.AddCommand(urlCmd)
}
