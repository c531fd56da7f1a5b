package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AppConfig struct {
	Name    string
	Version string
}

type LogConfig struct {
	Enabled bool
}

// StoreConfig controls where cached credentials live on disk.
// A non-empty Secret switches the credential file to encrypted mode.
type StoreConfig struct {
	Dir    string
	Secret string
}

type Config struct {
	API   APIConfig
	App   AppConfig
	Logs  LogConfig
	Store StoreConfig
}

// Load reads configuration from config.yaml (working dir or ./config) and
// the CONFIANCE_* environment, applying defaults for anything unset.
// Configuration is read once at startup; there is no runtime reload.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CONFIANCE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.baseurl", "http://localhost:8080/api/v1")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("app.name", "Confiance Financial Platform")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("logs.enabled", false)

	v.SetDefault("store.dir", "./data")
	v.SetDefault("store.secret", "")
}
