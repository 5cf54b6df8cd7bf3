package config

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError_Error(t *testing.T) {
	assert.Equal(t, "server.yaml: server.state: bad", ConfigurationError{FilePath: "server.yaml", Field: "server.state", Message: "bad"}.Error())
	assert.Equal(t, "api.url: is required", ConfigurationError{Field: "api.url", Message: "is required"}.Error())
	assert.Equal(t, "boom", ConfigurationError{Message: "boom"}.Error())
}

func TestConfigurationError_Unwrap(t *testing.T) {
	err := fmt.Errorf("loading: %w", ConfigurationError{ErrorType: ErrorTypeIO, Message: "missing", Err: fs.ErrNotExist})
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, IsConfigurationError(err))
}

func TestConfigurationError_DetailedError(t *testing.T) {
	detail := ConfigurationError{
		FilePath:    "server.yaml",
		Field:       "server.state",
		ErrorType:   ErrorTypeValidation,
		Message:     "invalid",
		Suggestions: []string{"use enabled"},
	}.DetailedError()

	assert.Contains(t, detail, "File: server.yaml")
	assert.Contains(t, detail, "Field: server.state")
	assert.Contains(t, detail, "- use enabled")
}

func TestConfigurationErrorCollection(t *testing.T) {
	cec := NewConfigurationErrorCollection()
	assert.False(t, cec.HasErrors())
	assert.NoError(t, cec.ErrorOrNil())
	assert.Equal(t, "no configuration errors", cec.Error())

	cec.AddValidation("api.url", "is required")
	assert.Equal(t, "api.url: is required", cec.Error())

	cec.AddValidation("api.secret", "is required")
	assert.Equal(t, 2, cec.Count())
	assert.Equal(t, "2 configuration errors: api.url: is required (and 1 more)", cec.Error())
	assert.Error(t, cec.ErrorOrNil())
}

func TestDetailedReport(t *testing.T) {
	assert.Empty(t, DetailedReport(errors.New("plain")))
	assert.Contains(t, DetailedReport(ConfigurationError{Message: "single"}), "single")

	cec := NewConfigurationErrorCollection()
	cec.AddValidation("a", "first")
	cec.AddValidation("b", "second")
	report := DetailedReport(fmt.Errorf("wrapped: %w", cec))
	assert.Contains(t, report, "first")
	assert.Contains(t, report, "second")
}
