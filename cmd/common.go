package cmd

import (
	"github.com/spf13/cobra"

	"scalectl/internal/cli"
	"scalectl/internal/config"
	"scalectl/internal/scalelite"
)

// loadConfig merges defaults, the environment, the desired-state file and the
// command-line overrides, in increasing order of precedence.
func loadConfig(file string, overrides config.Overrides) (config.Config, error) {
	cfg, err := config.Load(file)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Apply(overrides)
	return cfg, nil
}

// newClient creates a Scalelite API client from the API settings.
func newClient(api config.APIConfig) (*scalelite.Client, error) {
	userAgent := api.UserAgent
	if userAgent == "" {
		userAgent = scalelite.DefaultUserAgent
		if v := GetVersion(); v != "" {
			userAgent += "/" + v
		}
	}

	return scalelite.NewClient(api.URL, api.Secret,
		scalelite.WithTimeout(api.Timeout),
		scalelite.WithUserAgent(userAgent),
	)
}

// connect prepares a command that only needs the API: it validates the
// flags, sets up logging and builds the client.
func connect(cmd *cobra.Command, flags *cli.CommandFlags, file string) (*scalelite.Client, error) {
	if err := flags.Validate(); err != nil {
		return nil, err
	}
	flags.Setup(cmd)

	cfg, err := loadConfig(file, flags.Overrides(cmd))
	if err != nil {
		return nil, err
	}
	if err := config.ValidateAPI(cfg); err != nil {
		return nil, err
	}
	return newClient(cfg.API)
}
