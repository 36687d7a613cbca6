// Package config loads application settings from flags, environment
// variables (prefix SHUHAN) and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyLogLevel      = "log.level"
	KeyChamber       = "chamber"
	KeyDataFile      = "data.file"
	KeyServerAddr    = "server.addr"
	KeyCanonicalHost = "server.canonical_host"
	KeyLegacyHosts   = "server.legacy_hosts"
	KeySiteURL       = "site.url"
)

// EnvPrefix is the prefix of environment overrides, e.g. SHUHAN_SERVER_ADDR.
const EnvPrefix = "SHUHAN"

// Config is the resolved application configuration.
type Config struct {
	LogLevel string
	Chamber  string
	DataFile string
	SiteURL  string
	Server   Server
}

// Server holds the HTTP settings.
type Server struct {
	Addr          string
	CanonicalHost string
	LegacyHosts   []string
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyChamber, "house")
	v.SetDefault(KeyDataFile, "")
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyCanonicalHost, "shuhan.rsasage.com")
	v.SetDefault(KeyLegacyHosts, []string{"shuhan-10n.pages.dev"})
	v.SetDefault(KeySiteURL, "https://shuhan.rsasage.com/")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads cfgFile, or searches ~/.config/shuhan and the working
// directory for config.yaml when cfgFile is empty. A missing default file is
// not an error.
func ReadFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "shuhan"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// FromViper resolves the typed configuration.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		LogLevel: v.GetString(KeyLogLevel),
		Chamber:  v.GetString(KeyChamber),
		DataFile: v.GetString(KeyDataFile),
		SiteURL:  v.GetString(KeySiteURL),
		Server: Server{
			Addr:          v.GetString(KeyServerAddr),
			CanonicalHost: v.GetString(KeyCanonicalHost),
			LegacyHosts:   v.GetStringSlice(KeyLegacyHosts),
		},
	}
}
