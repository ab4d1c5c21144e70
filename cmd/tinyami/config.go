package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	LogLevel   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.tinyami.com")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.max_retries", 2)
	v.SetDefault("log.level", "info")
}

// readConfig loads tinyami.toml from the given file, or from the working directory and
// $HOME/.config/tinyami. A missing file is fine; TINYAMI_* variables and flags override it.
func readConfig(v *viper.Viper, configFile string) (config, error) {
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("tinyami")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tinyami"))
		}
	}

	v.SetEnvPrefix("tinyami")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("read config file")
	case errors.As(err, &notFound):
		log.Debug().Msg("no config file, using environment and flags")
	default:
		return config{}, fmt.Errorf("could not read config file: %w", err)
	}

	timeout, err := time.ParseDuration(v.GetString("api.timeout"))
	if err != nil {
		return config{}, fmt.Errorf("invalid api.timeout: %w", err)
	}

	return config{
		APIKey:     v.GetString("api.key"),
		BaseURL:    v.GetString("api.base_url"),
		Timeout:    timeout,
		MaxRetries: v.GetInt("api.max_retries"),
		LogLevel:   v.GetString("log.level"),
	}, nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	var logLevel zerolog.Level

	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)
}
