// Command kbadmin administers a knowledge-base deployment from the terminal:
// it lists and creates workspaces, ingests text and files, manages the stored
// captioning key, renders the admin forms, and serves the HTML console.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-kbadmin/pkg/catalog"
	"github.com/goliatone/go-kbadmin/pkg/kb"
	"github.com/goliatone/go-kbadmin/pkg/keystore"
)

var (
	// Global flags
	configPath  string
	apiOverride string
	verbose     bool

	cfg    Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kbadmin",
	Short: "Admin console for a knowledge-base deployment",
	Long: `kbadmin is the operator front-end for a remote knowledge-base service.

It talks to the service's HTTP API to manage workspaces and documents,
ingests pasted text or uploaded files, and keeps the optional image
captioning API key in a local keystore. Run "kbadmin serve" to get the
same surface as a browser console.

Configuration is read from kbadmin.toml in the working directory (or the
path in --config / $KBADMIN_CONFIG); flags override file values.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = buildLogger(verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		cfg, err = resolveConfig(configPath)
		if err != nil {
			return err
		}
		if apiOverride != "" {
			cfg.APIBaseURL = apiOverride
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// buildLogger picks a development config on a terminal and a production
// config otherwise. Both default to info; --verbose lowers to debug.
func buildLogger(verbose bool) (*zap.Logger, error) {
	var config zap.Config
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// apiClient builds the kb client from the resolved config.
func apiClient() (*kb.Client, error) {
	return kb.New(cfg.APIBaseURL,
		kb.WithTimeout(cfg.APITimeout),
		kb.WithLogger(logger),
	)
}

// keyStore opens the file-backed keystore at the configured path.
func keyStore() (keystore.Store, error) {
	return keystore.NewFile(cfg.KeystorePath)
}

// catalogStore loads form definitions from the configured catalog directory.
// Without one it returns nil, which the console treats as no overrides.
func catalogStore() (*catalog.Store, error) {
	if cfg.CatalogDir == "" {
		return nil, nil
	}
	store, err := catalog.LoadFS(os.DirFS(cfg.CatalogDir))
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogDir, err)
	}
	return store, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default kbadmin.toml, or $KBADMIN_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&apiOverride, "api", "", "Knowledge-base API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(workspacesCmd)
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(formsCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
