// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"

	"firestige.xyz/crxfetch/internal/config"
	"firestige.xyz/crxfetch/internal/log"
)

var (
	// Global flags
	cfgFile     string
	outputDir   string
	maxWorkers  int
	keepCRX     bool
	noSSLVerify bool
	verbose     bool
	quiet       bool
	logLevel    string

	// cfg is populated by setup before any subcommand runs.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crxfetch",
	Short: "crxfetch - Chrome extension downloader and CRX-to-ZIP converter",
	Long: `crxfetch downloads Chrome extensions from the Chrome Web Store,
decodes the CRX2/CRX3 container format and writes the embedded ZIP archive.

Features:
  - Single, batch and file-driven downloads with bounded concurrency
  - CRX2/CRX3 decoding with nested-container unwrapping
  - On-disk caching keyed by extension id
  - Local .crx to .zip conversion
  - Interactive terminal menu`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration, applies flag overrides and initializes
// logging. Flags win over the config file.
func setup() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if outputDir != "" {
		cfg.Output.DefaultDirectory = outputDir
	}
	if maxWorkers > 0 {
		cfg.Performance.MaxConcurrentDownloads = maxWorkers
	}
	if keepCRX {
		cfg.Output.AutoCleanup = false
	}
	if noSSLVerify {
		cfg.Download.VerifySSL = false
	}

	switch {
	case quiet:
		cfg.Log.Level = "error"
	case verbose:
		cfg.Log.Level = "debug"
	case logLevel != "":
		cfg.Log.Level = logLevel
	}

	return log.Init(cfg.Log)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file path (default config.json if present)")
	pf.StringVarP(&outputDir, "output-dir", "d", "", "output directory (default ./downloads)")
	pf.IntVar(&maxWorkers, "max-workers", 0, "maximum concurrent downloads")
	pf.BoolVar(&keepCRX, "keep-crx", false, "keep the .crx file after conversion")
	pf.BoolVar(&noSSLVerify, "no-ssl-verify", false, "disable TLS verification (not recommended)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "errors only")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
}
