package passes

// Documented endpoint defaults. Keep these literal for parity runs.
const (
	DefaultPassURL   = "http://api.open-notify.org/iss-pass.json"
	DefaultAstrosURL = "http://api.open-notify.org/astros.json"
)

type Config struct {
	// PassURL is the timed-pass query endpoint (takes lat/lon parameters).
	PassURL string `yaml:"pass_url"`

	// AstrosURL is the fixed-path people-in-space endpoint (no parameters).
	AstrosURL string `yaml:"astros_url"`
}

func DefaultConfig() Config {
	return Config{
		PassURL:   DefaultPassURL,
		AstrosURL: DefaultAstrosURL,
	}
}
