package webclient

import (
	"fmt"

	"github.com/raysh454/skim/internal/interfaces"
)

// RegisterDefaultBackends registers the default nethttp and chromedp backends.
// Call this from init() or early in main() to make backends available to New.
func RegisterDefaultBackends() {
	RegisterBackend(string(BackendNetHTTP), func(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})

	RegisterBackend(string(BackendChromedp), func(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error) {
		client, err := NewChromeDPClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create chromedp client: %w", err)
		}
		return client, nil
	})
}
