package config

import "time"

// Config is the complete input of one scalectl run: where the management API
// lives and what the managed server should look like.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Server ServerConfig `yaml:"server"`
}

// APIConfig defines how to reach the Scalelite management API.
type APIConfig struct {
	URL       string        `yaml:"url,omitempty"`       // Base URL of the API, e.g. https://scalelite.example.org/scalelite/api
	Secret    string        `yaml:"secret,omitempty"`    // Shared secret used to sign requests
	Timeout   time.Duration `yaml:"timeout,omitempty"`   // Per-request timeout (default: 30s)
	UserAgent string        `yaml:"userAgent,omitempty"` // User-Agent header (default: scalectl)
}

// ServerConfig is the desired state of the one server being reconciled.
type ServerConfig struct {
	URL            string   `yaml:"url,omitempty"`            // API URL of the media server; its host is the server identity
	State          string   `yaml:"state,omitempty"`          // present, absent, enabled, disabled, cordoned or panic (default: present)
	Secret         string   `yaml:"secret,omitempty"`         // Shared secret of the media server
	LoadMultiplier *float64 `yaml:"loadMultiplier,omitempty"` // Load multiplier; unset or 0 leaves the remote value alone
}

// Overrides holds values given on the command line. Nil fields were not set
// and leave the loaded configuration untouched.
type Overrides struct {
	APIURL         *string
	APISecret      *string
	Timeout        *time.Duration
	ServerURL      *string
	State          *string
	Secret         *string
	LoadMultiplier *float64
}

// Apply copies every set override into the configuration.
func (c *Config) Apply(o Overrides) {
	setString(&c.API.URL, o.APIURL)
	setString(&c.API.Secret, o.APISecret)
	if o.Timeout != nil {
		c.API.Timeout = *o.Timeout
	}
	setString(&c.Server.URL, o.ServerURL)
	setString(&c.Server.State, o.State)
	setString(&c.Server.Secret, o.Secret)
	if o.LoadMultiplier != nil {
		v := *o.LoadMultiplier
		c.Server.LoadMultiplier = &v
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
