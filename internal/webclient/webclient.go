package webclient

import (
	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/model"
)

// WebClient is the backend contract shared through internal/interfaces.
type WebClient = interfaces.WebClient

// Request and Response are re-exported so backend callers and tests can stay
// inside this package.
type (
	Request  = model.Request
	Response = model.Response
)
