package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# QuantPricer Configuration

[server]
# Bind address for the HTTP API
host = "127.0.0.1"
port = 8080
# Allow cross-origin requests from dashboard frontends
cors_enabled = true

[solver]
# Implied-volatility solver: price tolerance and per-phase iteration budget
tolerance = 1e-8
max_iter = 100

[storage]
# SQLite database for logged scenarios
# db_path = "~/.config/quantpricer/quantpricer.db"

[ui]
# Enable colored output
color_enabled = true
# Date format for scenario listings
date_format = "02-Jan-2006 15:04"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Also write logs to a rotated file
file = true
# file_path = "~/.config/quantpricer/logs/quantpricer.log"
`

// createTemplateConfig writes the default config file on first run.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
