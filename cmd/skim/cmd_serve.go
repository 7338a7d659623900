package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/server"
)

var serveFlags struct {
	listenAddr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline and run-history API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.listenAddr, "listen", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger("Server")

	s, err := server.NewServer(server.Config{
		ListenAddr: serveFlags.listenAddr,
		AppConfig:  cfg,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer s.Close()

	srv := s.HTTPServer()
	logger.Info("listening", interfaces.Field{Key: "addr", Value: srv.Addr})
	return srv.ListenAndServe()
}
