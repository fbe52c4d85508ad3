package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`
	Store    string `mapstructure:"store"`
	LogLevel string `mapstructure:"log_level"`
	Console  bool   `mapstructure:"console"`
	// Server is the base URL the console talks to; empty means in-process
	Server string `mapstructure:"server"`
	// Display names of the two hosts, shown by the console
	BrideName string `mapstructure:"bride_name"`
	GroomName string `mapstructure:"groom_name"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() Config {
	return Config{
		HTTPAddr:  ":8088",
		Store:     "memory",
		LogLevel:  "info",
		Console:   false,
		BrideName: "Molly",
		GroomName: "James",
	}
}

// New returns a viper instance preloaded with defaults that reads
// REGISTRY_-prefixed environment variables
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("http_addr", d.HTTPAddr)
	v.SetDefault("store", d.Store)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("console", d.Console)
	v.SetDefault("server", d.Server)
	v.SetDefault("bride_name", d.BrideName)
	v.SetDefault("groom_name", d.GroomName)

	v.SetEnvPrefix("registry")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from v, which may carry bound flags
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
