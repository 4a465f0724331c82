// Package config loads runtime configuration from the environment.
//
// Values come from environment variables (optionally via a .env file loaded
// by the caller) with sensible defaults, so a bare `server` binary runs out
// of the box.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	SeedModeBlank  = "blank"
	SeedModeSample = "sample"
)

type Config struct {
	// HTTP server
	Port string

	// Storage
	DBPath string

	// First-run seeding
	SeedMode            string // blank or sample
	BlankBalance        int64
	SampleBalance       int64
	SampleBeneficiaries int

	// Account holder identity (seeded once, kept thereafter)
	UserFirstName string
	UserLastName  string
}

func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./account.db"),

		SeedMode:            getEnv("SEED_MODE", SeedModeBlank),
		BlankBalance:        getEnvInt64("BLANK_BALANCE", 10_000),
		SampleBalance:       getEnvInt64("SAMPLE_BALANCE", 1_000_000),
		SampleBeneficiaries: getEnvInt("SAMPLE_BENEFICIARIES", 10),

		UserFirstName: getEnv("USER_FIRST_NAME", "Nguyen"),
		UserLastName:  getEnv("USER_LAST_NAME", "Nam"),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	if c.SeedMode != SeedModeBlank && c.SeedMode != SeedModeSample {
		errs = append(errs, fmt.Sprintf("invalid seed mode '%s': must be '%s' or '%s'", c.SeedMode, SeedModeBlank, SeedModeSample))
	}

	if c.SampleBeneficiaries < 1 {
		errs = append(errs, fmt.Sprintf("invalid sample beneficiary count %d: must be at least 1", c.SampleBeneficiaries))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
