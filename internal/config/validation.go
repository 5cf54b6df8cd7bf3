package config

import (
	"fmt"
	"net/url"
	"strings"

	"scalectl/internal/reconciler"
)

// ValidateAPI checks the API settings, which every command needs.
func ValidateAPI(cfg Config) error {
	errs := NewConfigurationErrorCollection()
	validateAPI(errs, cfg.API)
	return errs.ErrorOrNil()
}

// Validate checks the API settings and the desired state of the server.
func Validate(cfg Config) error {
	errs := NewConfigurationErrorCollection()
	validateAPI(errs, cfg.API)
	validateServer(errs, cfg.Server)
	return errs.ErrorOrNil()
}

func validateAPI(errs *ConfigurationErrorCollection, api APIConfig) {
	if strings.TrimSpace(api.URL) == "" {
		errs.AddValidation("api.url", "is required",
			fmt.Sprintf("pass --api-url or set %s", EnvAPIURL))
	} else if err := validateBaseURL(api.URL); err != nil {
		errs.AddValidation("api.url", err.Error())
	}

	if api.Secret == "" {
		errs.AddValidation("api.secret", "is required",
			fmt.Sprintf("pass --api-secret or set %s", EnvAPISecret))
	}

	if api.Timeout < 0 {
		errs.AddValidation("api.timeout", "must not be negative")
	}
}

func validateServer(errs *ConfigurationErrorCollection, server ServerConfig) {
	if strings.TrimSpace(server.URL) == "" {
		errs.AddValidation("server.url", "is required", "pass --server-url or set server.url in the desired-state file")
	} else if _, err := reconciler.IdentityFromURL(server.URL); err != nil {
		errs.AddValidation("server.url", fmt.Sprintf("%q has no host", server.URL),
			"use the full API URL, e.g. https://bbb.example.org/bigbluebutton/api")
	}

	if _, err := reconciler.ParseTargetState(server.State); err != nil {
		errs.AddValidation("server.state", err.Error())
	}

	if server.LoadMultiplier != nil && *server.LoadMultiplier < 0 {
		errs.AddValidation("server.loadMultiplier", "must not be negative",
			"omit it or use 0 to leave the remote value unchanged")
	}
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%q must not carry a query string", raw)
	}
	return nil
}

// DesiredState converts the server section into the reconciler's input.
func (s ServerConfig) DesiredState() (reconciler.DesiredState, error) {
	target, err := reconciler.ParseTargetState(s.State)
	if err != nil {
		return reconciler.DesiredState{}, ConfigurationError{
			Field:     "server.state",
			ErrorType: ErrorTypeValidation,
			Message:   err.Error(),
			Err:       err,
		}
	}

	return reconciler.DesiredState{
		URL:            s.URL,
		Target:         target,
		Secret:         s.Secret,
		LoadMultiplier: s.LoadMultiplier,
	}, nil
}
