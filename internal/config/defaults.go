package config

import "time"

const (
	// EnvAPIURL is the environment variable holding the API base URL
	EnvAPIURL = "SCALECTL_API_URL"

	// EnvAPISecret is the environment variable holding the API secret
	EnvAPISecret = "SCALECTL_API_SECRET"

	// DefaultTimeout is the default per-request timeout
	DefaultTimeout = 30 * time.Second

	// DefaultState is the target state used when none is declared
	DefaultState = "present"
)

// GetDefaultConfig returns the configuration every run starts from.
func GetDefaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout: DefaultTimeout,
		},
		Server: ServerConfig{
			State: DefaultState,
		},
	}
}
