package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# volwatch configuration

# Underlying asset (one instrument per process)
asset = "BTC"

[server]
# HTTP listen address
addr = ":8080"
read_timeout = "10s"
write_timeout = "15s"
shutdown_timeout = "10s"

[refresh]
# How often the snapshot is rebuilt
interval = "15m"
# Retry attempts per refresh before giving up until the next tick
max_attempts = 3

[options_source]
# Deribit-style options market data API
base_url = "https://www.deribit.com/api/v2"
request_timeout = "5s"
requests_per_sec = 10.0
burst = 5

[price_source]
# Binance-style kline/spot API
base_url = "https://api.binance.com"
quote_currency = "USDT"
request_timeout = "5s"
requests_per_sec = 5.0
burst = 2

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
max_size = 100
max_backups = 7
max_age = 30
`

// createTemplateConfig writes a commented template config on first run.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
