package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the server's startup settings, bound from flags,
// environment (GORADIESCHEN_*), and an optional config file.
type Config struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	MaxClients int    `mapstructure:"max_clients"`
	UseThreads bool   `mapstructure:"use_threads"`
	Debug      bool   `mapstructure:"debug"`
	Errors     bool   `mapstructure:"errors"`
	LogFile    string `mapstructure:"log_file"`
}

func defaultConfig() *Config {
	return &Config{
		Host:       "127.0.0.1",
		Port:       8888,
		MaxClients: 1024,
		UseThreads: false,
		Debug:      false,
		Errors:     false,
		LogFile:    "",
	}
}

func loadConfig() (*Config, error) {
	cfg := defaultConfig()

	viper.SetConfigName("goradieschen")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/goradieschen/")
	viper.AddConfigPath("$HOME/.goradieschen")

	viper.SetEnvPrefix("GORADIESCHEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("max_clients", cfg.MaxClients)
	viper.SetDefault("use_threads", cfg.UseThreads)
	viper.SetDefault("debug", cfg.Debug)
	viper.SetDefault("errors", cfg.Errors)
	viper.SetDefault("log_file", cfg.LogFile)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}
	if c.MaxClients < 1 {
		return fmt.Errorf("max_clients must be at least 1")
	}
	return nil
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
