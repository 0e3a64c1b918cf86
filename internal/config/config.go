package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Snapshot persistence
	SQLiteDBPath string
	DataBackend  string

	// AMQP (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Demo behaviour
	Period         string
	LatencyMin     time.Duration
	LatencyMax     time.Duration
	DemoResetCron  string
	DashboardDelay time.Duration

	// Remote mode: when set, the dashboard talks to this base URL over HTTP
	// instead of the in-process store.
	APIBaseURL string

	// Worker
	AuditLogPath string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/facturita.db"),
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "facturita"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "facturas_emitidas"),

		Period:         getEnv("DEMO_PERIOD", ""),
		LatencyMin:     getEnvDuration("API_LATENCY_MIN", 250*time.Millisecond),
		LatencyMax:     getEnvDuration("API_LATENCY_MAX", 800*time.Millisecond),
		DemoResetCron:  getEnv("DEMO_RESET_CRON", ""),
		DashboardDelay: getEnvDuration("DASHBOARD_START_DELAY", time.Second),

		APIBaseURL: getEnv("API_BASE_URL", ""),

		AuditLogPath: getEnv("AUDIT_LOG_PATH", "./data/facturas.jsonl"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Period != "" {
		if _, err := time.Parse("2006-01", c.Period); err != nil {
			errors = append(errors, fmt.Sprintf("invalid demo period '%s': must be YYYY-MM", c.Period))
		}
	}

	if c.LatencyMin < 0 {
		errors = append(errors, fmt.Sprintf("invalid latency minimum %v: must not be negative", c.LatencyMin))
	}
	if c.LatencyMax < c.LatencyMin {
		errors = append(errors, fmt.Sprintf("invalid latency window %v-%v: maximum must not be below minimum", c.LatencyMin, c.LatencyMax))
	}
	if c.LatencyMax > 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid latency maximum %v: must be at most 10 seconds", c.LatencyMax))
	}

	if c.APIBaseURL != "" {
		if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
