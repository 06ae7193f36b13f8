package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trip Monitor Configuration

[monitor]
# Enable background price alert monitoring
enable_price_alerts = true
# Seconds between price alert checks
price_check_interval = 3600
# Seconds to wait after a failed check before retrying
error_backoff = 60
# Hours before departure to send a flight reminder
flight_reminder_hours = 24
# Days before check-in to send a hotel reminder
hotel_reminder_days = 1

[currency]
# Exchange rate API base URL
api_url = "https://api.exchangerate.host"
# Fallback USD to ETB rate when the API is unavailable
fallback_usd_etb_rate = 55.5

[trip]
# Trip.com API credentials (or set TRIP_COM_API_KEY / TRIP_COM_API_SECRET)
api_key = ""
api_secret = ""
base_url = "https://api.trip.com"

[notifications.telegram]
# Telegram delivery (or set TELEGRAM_BOT_TOKEN)
enabled = false
bot_token = ""

[database]
# SQLite database path (defaults to the config directory)
# path = "/path/to/trip-monitor.db"
`

// createTemplateConfig writes a starter config file so a first run leaves
// something editable behind.
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
