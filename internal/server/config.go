package server

import (
	"github.com/raysh454/skim/internal/app"
	"github.com/raysh454/skim/internal/interfaces"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// AppConfig carries the pipeline and storage configuration. Nil means
	// defaults.
	AppConfig *app.Config

	// Logger is optional; a stdout logger is used when nil.
	Logger interfaces.Logger
}
