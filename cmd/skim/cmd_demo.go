package main

import (
	"github.com/spf13/cobra"

	"github.com/raysh454/skim/internal/demoserver"
)

var demoFlags struct {
	port int
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Serve fixture endpoints to run the pipelines against",
	Long: "Starts a local server with canned /iss-pass.json, /astros.json and\n" +
		"/rankings pages. GET /demo/bump changes the rankings so consecutive\n" +
		"table runs produce a diff; GET /demo/reset restores the original page.",
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&demoFlags.port, "port", 0, "Port to listen on (overrides default)")
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg := demoserver.DefaultConfig()
	if demoFlags.port != 0 {
		cfg.Port = demoFlags.port
	}

	return demoserver.NewDemoServer(cfg).Start()
}
