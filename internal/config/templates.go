package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# dexwatch Configuration

[filters]
# Price-change percentage below which a token is classified as rugged
rug_threshold = -80.0
# Price-change percentage above which a token is classified as pumped
pump_threshold = 100.0
# Liquidity (USD) above which a token is classified as tier-1
tier1_liquidity = 1000000.0

# Symbols to skip entirely (case-insensitive)
coin_blacklist = []
# Developer addresses to skip entirely (case-insensitive)
dev_blacklist = []

[telegram]
# Leave either field empty to disable Telegram notifications
telegram_token = ""
telegram_chat_id = ""

[webhook]
enabled = false
url = ""

[email]
enabled = false
smtp_host = ""
smtp_port = 587
username = ""
password = ""
from = ""
to = ""

[api_endpoints]
# Token profile source
dexscreener = "https://api.dexscreener.com/token-profiles/latest/v1"
# Volume authenticity service. Empty selects the local fallback policy
# (volume must be present and positive).
pocket_universe = ""
# Contract safety service. Empty means contract checks pass open.
rugcheck = ""

[monitor]
# Pause between polling cycles
poll_interval = "60s"
# Timeout for every outbound HTTP request
request_timeout = "10s"
# Accept all tokens in volume fallback mode, for upstream schema variants
# that never report volume
assume_volume_authentic = false

[database]
# path = "~/.config/dexwatch/dexwatch.db"

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = false
# file_path = "~/.config/dexwatch/logs/dexwatch.log"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
