package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"

	"scalectl/pkg/logging"
)

// Load builds the configuration of a run: defaults, then the desired-state
// file at path (skipped when path is empty), then the environment for
// whatever is still unset. Command-line overrides are applied by the caller
// with Config.Apply.
func Load(path string) (Config, error) {
	cfg := GetDefaultConfig()

	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	ApplyEnv(&cfg)
	return cfg, nil
}

// LoadFile renders the file at path as a template with the sprig function
// set and decodes the result over cfg. Keys absent from the file keep their
// current value; unknown keys are rejected.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ConfigurationError{
				FilePath:    path,
				ErrorType:   ErrorTypeIO,
				Message:     "file does not exist",
				Suggestions: []string{"check the path given with --file"},
				Err:         err,
			}
		}
		return ConfigurationError{FilePath: path, ErrorType: ErrorTypeIO, Message: err.Error(), Err: err}
	}

	rendered, err := renderTemplate(filepath.Base(path), data)
	if err != nil {
		return ConfigurationError{
			FilePath:  path,
			ErrorType: ErrorTypeTemplate,
			Message:   err.Error(),
			Suggestions: []string{
				`use {{ env "NAME" }} to read environment variables`,
				`use {{ env "NAME" | default "value" }} for optional ones`,
			},
			Err: err,
		}
	}

	dec := yaml.NewDecoder(bytes.NewReader(rendered))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return ConfigurationError{FilePath: path, ErrorType: ErrorTypeParse, Message: err.Error(), Err: err}
	}

	logging.Info("ConfigLoader", "Loaded desired state from %s", path)
	return nil
}

// ApplyEnv fills the API settings from the environment when they are unset.
func ApplyEnv(cfg *Config) {
	if cfg.API.URL == "" {
		if v := os.Getenv(EnvAPIURL); v != "" {
			cfg.API.URL = v
			logging.Debug("ConfigLoader", "Using API URL from %s", EnvAPIURL)
		}
	}
	if cfg.API.Secret == "" {
		if v := os.Getenv(EnvAPISecret); v != "" {
			cfg.API.Secret = v
			logging.Debug("ConfigLoader", "Using API secret from %s", EnvAPISecret)
		}
	}
}

func renderTemplate(name string, data []byte) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	return buf.Bytes(), nil
}
