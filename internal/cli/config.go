package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/geoplatform/arcrest/pkg/types"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// Config represents the configuration for the arcrest CLI.
// It contains server connection details and cached token state.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`
	// RootURL is the root URL of the ArcGIS Server deployment,
	// e.g. https://host/arcgis/rest/services
	RootURL string `yaml:"root_url" validate:"required,url"`
	// Username for token authentication (optional, anonymous otherwise)
	Username string `yaml:"username"`
	// Password for token authentication
	Password string `yaml:"password"`
	// Referer is the application URL issued tokens are bound to
	Referer string `yaml:"referer"`
	// CurrentToken is the last token obtained via login
	CurrentToken string `yaml:"current_token"`
	// TokenExpiry is the current token's expiry in Unix milliseconds
	TokenExpiry int64 `yaml:"token_expiry"`
}

var config *Config

var validate = validator.New()

// GetDefaultConfigPath returns the default path for the config file.
// It uses the OS-specific config directory (e.g. ~/.config/arcrest on Linux).
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "arcrest", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file.
// If no file is specified, it uses the default config location.
// Values can be overridden through the environment (ARCREST_ROOT_URL,
// ARCREST_USERNAME, ARCREST_PASSWORD, ARCREST_REFERER), with a .env
// file in the working directory loaded first if present.
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	var c Config
	yamlStr, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(yamlStr, &c); err != nil {
			return fmt.Errorf("unable to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// config may come entirely from the environment
	default:
		return fmt.Errorf("unable to read config file: %w", err)
	}

	applyEnvOverrides(&c)

	if err := validate.Struct(&c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	config = &c
	return nil
}

func applyEnvOverrides(c *Config) {
	_ = godotenv.Load() // no error if .env doesn't exist

	if v := os.Getenv("ARCREST_ROOT_URL"); v != "" {
		c.RootURL = v
	}
	if v := os.Getenv("ARCREST_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("ARCREST_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("ARCREST_REFERER"); v != "" {
		c.Referer = v
	}
}

// GetConfig returns the currently loaded configuration.
func GetConfig() *Config {
	return config
}

// WriteConfig writes the configuration to the specified path,
// creating parent directories as needed.
func (c *Config) WriteConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("unable to serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}

// Token returns the token cached by a previous login. The zero token
// means no login has been performed yet.
func (c *Config) Token() types.Token {
	return types.Token{
		Value:   c.CurrentToken,
		Expires: c.TokenExpiry,
		Referer: c.Referer,
	}
}

// Credential builds the token credential from the configuration.
func (c *Config) Credential() types.Credential {
	cred := types.NewCredential(c.Username, c.Password)
	if c.Referer != "" {
		cred.SetReferer(c.Referer)
	}
	return cred
}
