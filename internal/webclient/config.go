package webclient

import "time"

type Backend string

const (
	BackendNetHTTP  Backend = "nethttp"
	BackendChromedp Backend = "chromedp"
)

// Config selects and tunes a webclient backend. The zero value is usable and
// picks the nethttp backend with its default timeout.
type Config struct {
	Backend Backend `yaml:"backend"`

	// Timeout bounds a single request on the nethttp backend. The pipelines
	// are single-shot so this is the only resilience knob carried.
	Timeout time.Duration `yaml:"timeout"`

	// IdleAfter is how long the chromedp backend waits for the network to be
	// quiet before snapshotting the rendered document.
	IdleAfter time.Duration `yaml:"idle_after"`

	// Headful shows the browser window on the chromedp backend.
	Headful bool `yaml:"headful"`
}

// DefaultConfig returns the backend configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendNetHTTP,
		Timeout:   30 * time.Second,
		IdleAfter: 2 * time.Second,
	}
}
