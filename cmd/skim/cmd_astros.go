package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raysh454/skim/internal/passes"
)

var astrosCmd = &cobra.Command{
	Use:   "astros",
	Short: "Print who is in space right now",
	RunE:  runAstros,
}

func runAstros(cmd *cobra.Command, _ []string) error {
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
	number, people, err := client.PeopleInSpace(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch people in space: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, line := range passes.DescribePeople(number, people) {
		fmt.Fprintln(out, line)
	}
	return nil
}
