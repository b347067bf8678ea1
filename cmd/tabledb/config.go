package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/robot-dreams/tabledb/logging"
)

type config struct {
	// Directory holding the databases; database names are relative to it.
	Dir      string `mapstructure:"dir"`
	LogLevel string `mapstructure:"log_level"`
	// Shell history file; empty disables history.
	History string `mapstructure:"history"`
}

// loadConfig layers defaults, the optional config file, TABLEDB_*
// environment variables and flags, in increasing order of precedence.
func loadConfig(v *viper.Viper, path string) (*config, error) {
	v.SetDefault("dir", ".")
	v.SetDefault("log_level", "warn")
	if home, err := os.UserHomeDir(); err == nil {
		v.SetDefault("history", filepath.Join(home, ".tabledb_history"))
	}
	v.SetEnvPrefix("TABLEDB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		if err != nil {
			return nil, err
		}
	}
	var cfg config
	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	logging.SetLogger(logging.New(os.Stderr, cfg.LogLevel))
	return &cfg, nil
}

func (cfg *config) databasePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cfg.Dir, name)
}
