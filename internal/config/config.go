// Package config resolves runtime configuration from defaults, environment
// variables and command-line flags, applied in that order.
package config

import (
	"flag"
	"os"
	"time"
)

// Config holds runtime settings for the Peoplebook server.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// SQLitePath is the embedded database file, used when DatabaseDSN is empty.
	SQLitePath string
	// DatabaseDSN is a PostgreSQL DSN. When non-empty the networked backend
	// is used instead of SQLite.
	DatabaseDSN string
	// UploadDir is where uploaded photos are stored and served from.
	UploadDir string
	// SessionTTL is the lifetime of a login session.
	SessionTTL time.Duration
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Addr:       ":8080",
		SQLitePath: "./data/peoplebook.db",
		UploadDir:  "./uploads",
		SessionTTL: 24 * time.Hour,
	}
}

// Load builds a Config by applying defaults, then environment variables,
// then command-line flags.
func Load(args []string) (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Addr = getEnv("ADDR", c.Addr)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.DatabaseDSN = getEnv("DATABASE_DSN", c.DatabaseDSN)
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			c.SessionTTL = d
		}
	}
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("peoplebook", flag.ContinueOnError)
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fs.StringVar(&c.SQLitePath, "sqlite", c.SQLitePath, "path to the embedded SQLite database")
	fs.StringVar(&c.DatabaseDSN, "dsn", c.DatabaseDSN, "PostgreSQL DSN; when set, the networked backend is used")
	fs.StringVar(&c.UploadDir, "uploads", c.UploadDir, "photo upload directory")
	fs.DurationVar(&c.SessionTTL, "session-ttl", c.SessionTTL, "session lifetime")
	return fs.Parse(args)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
