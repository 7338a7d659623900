package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raysh454/skim/internal/passes"
)

var passFlags struct {
	lat float64
	lon float64
}

var passCmd = &cobra.Command{
	Use:   "pass",
	Short: "Print upcoming ISS passes for a location",
	RunE:  runPass,
}

func init() {
	f := passCmd.Flags()
	f.Float64Var(&passFlags.lat, "lat", 0, "Latitude in decimal degrees (required)")
	f.Float64Var(&passFlags.lon, "lon", 0, "Longitude in decimal degrees (required)")

	_ = passCmd.MarkFlagRequired("lat")
	_ = passCmd.MarkFlagRequired("lon")
}

func runPass(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	wc, err := newWebClient(cfg, newLogger("WebClient"))
	if err != nil {
		return err
	}
	defer wc.Close()

	client := passes.NewClient(cfg.Passes, wc, newLogger("Passes"))
	ps, err := client.UpcomingPasses(cmd.Context(), passFlags.lat, passFlags.lon)
	if err != nil {
		return fmt.Errorf("fetch passes: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, p := range ps {
		fmt.Fprintln(out, p.Describe())
	}
	return nil
}
