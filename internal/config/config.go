package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time provides durations for intervals
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Only the HTTP port is strictly required; the
// Telegram token, SMTP credentials, Redis and RabbitMQ addresses are all
// optional and their absence disables the corresponding subsystem rather
// than failing startup.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	BotToken string // Telegram bot token; empty disables the confirm workflow

	SMTPHost string // SMTP relay host; empty disables guest mail
	SMTPPort int    // SMTP relay port
	SMTPUser string // SMTP username
	SMTPPass string // SMTP password
	SMTPFrom string // From address on guest notifications

	PropertiesFile string // path to the static property table (JSON)

	PropParallelLimit   int           // max concurrent property-level upstream calls
	DetailParallelLimit int           // max concurrent per-booking detail calls
	RefreshInterval     time.Duration // pause between snapshot refresh cycles
	UpstreamRPS         float64       // outbound pacing toward the upstream API
}

// Load reads configuration values from environment variables and returns a
// Config.  The port is enforced by must() and a missing value causes the
// program to exit with a fatal log message.  Everything else falls back to
// the defaults the service has always run with: five parallel property
// fetches, eight parallel booking-detail fetches, a three minute snapshot
// cycle.
func Load() Config {
	return Config{
		Env:      getenv("APP_ENV", "dev"),
		Port:     must("APP_PORT"),
		BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: atoi(getenv("SMTP_PORT", "587")),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		PropertiesFile: getenv("PROPERTIES_FILE", "properties.json"),

		PropParallelLimit:   atoi(getenv("PROP_PARALLEL_LIMIT", "5")),
		DetailParallelLimit: atoi(getenv("DETAIL_PARALLEL_LIMIT", "8")),
		RefreshInterval:     parseDur(getenv("SNAPSHOT_REFRESH_INTERVAL", "3m")),
		UpstreamRPS:         atof(getenv("UPSTREAM_RPS", "10")),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func atof(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
