// Package config resolves the named environment profile into application settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Profile names a configuration set.
type Profile string

const (
	ProfileDevelopment Profile = "development"
	ProfileProduction  Profile = "production"
	ProfileTesting     Profile = "testing"
	ProfileDefault     Profile = "default"
)

// DefaultSecretKey is used when SECRET_KEY is not set.
const DefaultSecretKey = "dev-secret-key-change-in-production"

// Config holds all application, logging and database settings.
type Config struct {
	Profile Profile

	SecretKey string
	Debug     bool
	Testing   bool

	Host string
	Port int

	LogLevel  string
	LogFormat string

	DatabaseURL   string
	DBPoolSize    int
	DBMaxOverflow int
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// profiles maps every known profile to the overrides it applies.
var profiles = map[Profile]func(*Config){
	ProfileDevelopment: func(c *Config) { c.Debug = true },
	ProfileProduction:  func(c *Config) { c.Debug = false },
	ProfileTesting: func(c *Config) {
		c.Testing = true
		c.Debug = true
	},
}

// ResolveProfile maps a profile name to a known profile.
// Names match exactly; "default" and unknown names resolve to development.
func ResolveProfile(name string) Profile {
	p := Profile(name)
	if _, ok := profiles[p]; ok {
		return p
	}
	return ProfileDevelopment
}

// Load reads the profile selector (APP_ENV, then FLASK_ENV) and resolves it.
func Load() (*Config, error) {
	name := getEnv("APP_ENV", "")
	if name == "" {
		name = getEnv("FLASK_ENV", string(ProfileDevelopment))
	}
	return ForProfile(name)
}

// ForProfile reads the base settings from the environment
// and applies the overrides of the named profile.
func ForProfile(name string) (*Config, error) {
	cfg, err := base()
	if err != nil {
		return nil, err
	}

	cfg.Profile = ResolveProfile(name)
	profiles[cfg.Profile](cfg)
	return cfg, nil
}

func base() (*Config, error) {
	cfg := &Config{
		SecretKey:   getEnv("SECRET_KEY", DefaultSecretKey),
		Debug:       parseBool(getEnv("FLASK_DEBUG", "false")),
		Host:        getEnv("HOST", "0.0.0.0"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		DatabaseURL: getEnv("DATABASE_URL", "sqlite://bestellsystem.db"),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(getEnv("PORT", "8000")); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if cfg.DBPoolSize, err = strconv.Atoi(getEnv("DB_POOL_SIZE", "5")); err != nil {
		return nil, fmt.Errorf("invalid DB_POOL_SIZE: %w", err)
	}
	if cfg.DBMaxOverflow, err = strconv.Atoi(getEnv("DB_MAX_OVERFLOW", "10")); err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OVERFLOW: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultValue
}

// parseBool accepts "true", "1" and "yes" in any case.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
