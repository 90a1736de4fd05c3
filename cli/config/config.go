package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HomeEnvVar overrides ~/.animehub, mostly for tests.
const HomeEnvVar = "ANIMEHUB_HOME"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Config struct {
	Server struct {
		Host     string `yaml:"host"`
		HTTPPort int    `yaml:"http_port"`
		TLS      bool   `yaml:"tls"`
	} `yaml:"server"`
	User struct {
		Username string `yaml:"username"`
		Token    string `yaml:"token"`
	} `yaml:"user"`
	UI struct {
		Theme string `yaml:"theme"`
	} `yaml:"ui"`
	Logging struct {
		Level string `yaml:"level"`
		Path  string `yaml:"path"`
	} `yaml:"logging"`
}

var GlobalConfig *Config

func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".animehub"), nil
}

func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.UI.Theme == "" {
		config.UI.Theme = ThemeLight
	}

	GlobalConfig = &config
	return &config, nil
}

func Save(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// holds the session token
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	GlobalConfig = config
	return nil
}

// Init writes a fresh config. Re-running it keeps nothing from the old file.
func Init() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	logsDir := filepath.Join(configDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{}
	config.Server.Host = "localhost"
	config.Server.HTTPPort = 8080
	config.UI.Theme = ThemeLight
	config.Logging.Level = "info"
	config.Logging.Path = logsDir

	return Save(config)
}

func UpdateUserToken(username, token string) error {
	config, err := Load()
	if err != nil {
		return err
	}

	config.User.Username = username
	config.User.Token = token

	return Save(config)
}

func ClearUserToken() error {
	config, err := Load()
	if err != nil {
		return err
	}

	config.User.Username = ""
	config.User.Token = ""

	return Save(config)
}

func SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("theme must be %q or %q", ThemeLight, ThemeDark)
	}
	config, err := Load()
	if err != nil {
		return err
	}
	config.UI.Theme = theme
	return Save(config)
}

func GetServerURL() (string, error) {
	config, err := Load()
	if err != nil {
		return "", err
	}
	return config.ServerURL(), nil
}

func (c *Config) ServerURL() string {
	scheme := "http"
	if c.Server.TLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Server.Host, c.Server.HTTPPort)
}
