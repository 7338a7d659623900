package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raysh454/skim/internal/app"
	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/logging"
	"github.com/raysh454/skim/internal/webclient"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
}

var rootCmd = &cobra.Command{
	Use:   "skim",
	Short: "Fetch web endpoints and extract JSON values and HTML tables",
	Long: "Skim runs two extraction pipelines: pull fields out of JSON APIs\n" +
		"(ISS pass predictions, people in space) and lift labeled tables out\n" +
		"of HTML pages. Results can be served and recorded over HTTP.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "Path to YAML config file")

	rootCmd.AddCommand(passCmd)
	rootCmd.AddCommand(astrosCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.Version = version
}

// loadConfig reads the config file named by --config, falling back to
// defaults when the flag is unset or the file is missing.
func loadConfig() (*app.Config, error) {
	cfg, err := app.LoadConfig(rootFlags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newWebClient builds the configured fetch backend.
func newWebClient(cfg *app.Config, logger interfaces.Logger) (interfaces.WebClient, error) {
	webclient.RegisterDefaultBackends()
	wc, err := webclient.New(cfg.WebClient, logger)
	if err != nil {
		return nil, fmt.Errorf("create web client: %w", err)
	}
	return wc, nil
}

func newLogger(component string) interfaces.Logger {
	return logging.NewStdoutLogger(component)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
