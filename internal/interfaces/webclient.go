package interfaces

import (
	"context"

	"github.com/raysh454/skim/internal/model"
)

// WebClient issues HTTP requests for the pipelines. Backends are registered
// with the webclient factory; the pipelines only ever see this interface.
type WebClient interface {
	Do(ctx context.Context, req *model.Request) (*model.Response, error)

	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*model.Response, error)

	Close() error
}
