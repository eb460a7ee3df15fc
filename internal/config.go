package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	Catalog CatalogConfig     `yaml:"catalog"`
	State   StateConfig       `yaml:"state"`
	Auth    AuthConfig        `yaml:"auth"`
	Timer   TimerConfig       `yaml:"timer"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.State.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Timer.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig holds the path to the Markdown content directory. Learning
// path definitions are read from the "paths" subdirectory of it.
type ContentConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CatalogConfig holds the SQLite catalog index configuration.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// StateConfig holds the per-installation state directory where the JSON
// state documents (completions, favorites, gamification, preferences,
// recent searches) live.
type StateConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the state configuration.
func (c *StateConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// TimerConfig holds the focus timer phase durations, in minutes.
type TimerConfig struct {
	WorkMinutes  int `yaml:"work_minutes"`
	BreakMinutes int `yaml:"break_minutes"`
}

// Validate validates the timer configuration.
func (c *TimerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.WorkMinutes, validation.Required, validation.Min(1), validation.Max(240)),
		validation.Field(&c.BreakMinutes, validation.Required, validation.Min(1), validation.Max(120)),
	)
}

// WorkDuration returns the work phase duration.
func (c *TimerConfig) WorkDuration() time.Duration {
	return time.Duration(c.WorkMinutes) * time.Minute
}

// BreakDuration returns the break phase duration.
func (c *TimerConfig) BreakDuration() time.Duration {
	return time.Duration(c.BreakMinutes) * time.Minute
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Path: "./content",
		},
		Catalog: CatalogConfig{
			Path: "./sowilo.db",
		},
		State: StateConfig{
			Path: "./state",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Timer: TimerConfig{
			WorkMinutes:  25,
			BreakMinutes: 5,
		},
	}
}
