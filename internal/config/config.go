// Package config resolves runtime settings from an optional .env file and
// the process environment. Command-line flags are applied on top by the cli
// package.
package config

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Environment variables read by FromEnv.
const (
	EnvDB       = "XAPPAREL_DB"
	EnvCatalog  = "XAPPAREL_CATALOG"
	EnvLocale   = "XAPPAREL_LOCALE"
	EnvLogLevel = "XAPPAREL_LOG_LEVEL"
)

// DefaultDBPath is the database file used when XAPPAREL_DB is unset.
const DefaultDBPath = "xapparel.db"

// Config holds resolved settings.
type Config struct {
	// DBPath is the SQLite file holding the cart, view history and last
	// order. ":memory:" keeps nothing between runs.
	DBPath string
	// CatalogPath is an alternate catalog .cue file; empty means the
	// embedded catalog.
	CatalogPath string
	Locale      language.Tag
	LogLevel    slog.Level
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		DBPath:   DefaultDBPath,
		Locale:   language.English,
		LogLevel: slog.LevelInfo,
	}
}

// Load reads envFiles into the process environment, then resolves Config
// from it. Variables already set in the environment win over file values.
// Missing files are skipped; with no files given, ".env" is tried.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv resolves Config through lookup, applying defaults for unset or
// empty variables.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get(EnvDB); v != "" {
		cfg.DBPath = v
	}
	cfg.CatalogPath = get(EnvCatalog)

	if v := get(EnvLocale); v != "" {
		tag, err := ParseLocale(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Locale = tag
	}

	if v := get(EnvLogLevel); v != "" {
		level, err := ParseLogLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// ParseLocale parses a BCP 47 language tag such as "en" or "sv-SE".
func ParseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return tag, nil
}

// ParseLogLevel accepts debug, info, warn or error in any case.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
