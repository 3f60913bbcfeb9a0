package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for claimgen
type Config struct {
	Amazon   AmazonConfig
	Browser  BrowserConfig
	Paths    PathsConfig
	Timeouts TimeoutsConfig
	Log      LogConfig
}

// AmazonConfig holds the order site credentials
type AmazonConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// BrowserConfig holds browser launch settings
type BrowserConfig struct {
	Headless   bool   `mapstructure:"headless"`
	NoSandbox  bool   `mapstructure:"no_sandbox"`
	Bin        string `mapstructure:"bin"`
	ProfileDir string `mapstructure:"profile_dir"`
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
}

// PathsConfig holds file locations
type PathsConfig struct {
	Templates  string `mapstructure:"templates"`
	Public     string `mapstructure:"public"`
	Screenshot string `mapstructure:"screenshot"`
}

// TimeoutsConfig holds the bounded waits of the sign-in flow and scrapers
type TimeoutsConfig struct {
	PageLoad   time.Duration `mapstructure:"page_load"`
	Navigation time.Duration `mapstructure:"navigation"`
	Password   time.Duration `mapstructure:"password"`
	PostLogin  time.Duration `mapstructure:"post_login"`
	OrderLinks time.Duration `mapstructure:"order_links"`
	Shipments  time.Duration `mapstructure:"shipments"`
	Invoice    time.Duration `mapstructure:"invoice"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration from defaults, an optional config file and
// CLAIMGEN_* environment variables. An empty file searches the standard
// locations for claimgen.yaml.
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("claimgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "claimgen"))
		}
	}

	v.SetEnvPrefix("CLAIMGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Only an explicitly named file is required
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("amazon.email", "")
	v.SetDefault("amazon.password", "")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.no_sandbox", true)
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.profile_dir", "")
	v.SetDefault("browser.width", 1280)
	v.SetDefault("browser.height", 720)

	v.SetDefault("paths.templates", "pdf-forms")
	v.SetDefault("paths.public", "public")
	v.SetDefault("paths.screenshot", "login-error-screenshot.png")

	v.SetDefault("timeouts.page_load", "30s")
	v.SetDefault("timeouts.navigation", "5s")
	v.SetDefault("timeouts.password", "10s")
	v.SetDefault("timeouts.post_login", "10s")
	v.SetDefault("timeouts.order_links", "60s")
	v.SetDefault("timeouts.shipments", "30s")
	v.SetDefault("timeouts.invoice", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// validate validates the configuration
func validate(config *Config) error {
	if config.Browser.Width <= 0 || config.Browser.Height <= 0 {
		return fmt.Errorf("browser viewport must be positive, got %dx%d", config.Browser.Width, config.Browser.Height)
	}

	t := config.Timeouts
	for name, d := range map[string]time.Duration{
		"page_load":   t.PageLoad,
		"navigation":  t.Navigation,
		"password":    t.Password,
		"post_login":  t.PostLogin,
		"order_links": t.OrderLinks,
		"shipments":   t.Shipments,
		"invoice":     t.Invoice,
	} {
		if d <= 0 {
			return fmt.Errorf("timeouts.%s must be positive, got %v", name, d)
		}
	}

	if !logLevels[strings.ToLower(config.Log.Level)] {
		return fmt.Errorf("log level must be one of debug, info, warn, error, got: %s", config.Log.Level)
	}

	if config.Paths.Templates == "" || config.Paths.Public == "" {
		return fmt.Errorf("template and public directories are required")
	}

	return nil
}
