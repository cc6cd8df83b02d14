package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment defaults for the global flags.
type Config struct {
	Ledger   string `env:"TILLBOOK_LEDGER"    envDefault:"sales.tsv"`
	Catalog  string `env:"TILLBOOK_CATALOG"`
	Database string `env:"TILLBOOK_DB"        envDefault:"tillbook.db"`
	LogLevel string `env:"TILLBOOK_LOG_LEVEL" envDefault:"info"`
	Timezone string `env:"TILLBOOK_TZ"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// parseLevel maps a level name onto slog.Level. The empty string is info.
func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// newLogger builds the stderr text logger. Verbose forces debug.
func newLogger(w io.Writer, levelName string, verbose bool) (*slog.Logger, error) {
	level, err := parseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// loadLocation resolves the ledger time zone. Empty means local time.
func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}
