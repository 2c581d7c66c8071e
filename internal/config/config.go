// Package config loads the service settings from a TOML file, with
// FILMS_-prefixed environment variables taking precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultPath   = "./config.toml"
	DefaultDBPort = 5432
	EnvPrefix     = "FILMS"
)

var ErrMissingField = errors.New("missing required config field")

type Config struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`

	Listen     string `mapstructure:"listen"`
	StaticDir  string `mapstructure:"static_dir"`
	CORSOrigin string `mapstructure:"cors_origin"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
}

func setDefaults(v *viper.Viper) {
	// Every key needs a default so AutomaticEnv can see it during Unmarshal.
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("host", "")
	v.SetDefault("port", DefaultDBPort)
	v.SetDefault("name", "")
	v.SetDefault("listen", "0.0.0.0:3000")
	v.SetDefault("static_dir", "./static")
	v.SetDefault("cors_origin", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Load reads the config file at path. It does not validate the result; call
// Validate before using the database settings.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultDBPort
	}
	return cfg, nil
}

// Validate reports every empty database field at once.
func (c Config) Validate() error {
	var missing []string
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}
