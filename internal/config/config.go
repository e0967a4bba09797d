package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kas/internal/report"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string
	PostgresDSN  string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Organization shown in report headers and footers
	OrganizationName     string
	OrganizationLocation string

	// Report locale ("id" or "en")
	Locale string

	// Money formatting overrides
	MoneyPrecision    int
	MoneyDecimalSep   string
	MoneyThousandsSep string
	MoneySymbol       string

	// WhatsApp gateway (empty means log-only delivery)
	WhatsAppGatewayURL  string
	WhatsAppGatewayAuth string
	WhatsAppRecipient   string

	// Google Sheets report archive (optional)
	GoogleSpreadsheetID string

	// Logging
	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend: getEnv("DATA_BACKEND", "sqlite"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/kas.db"),
		PostgresDSN:  getEnv("POSTGRES_DSN", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "kas"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "kas_notifications"),

		OrganizationName:     getEnv("ORGANIZATION_NAME", report.DefaultOrganizationName),
		OrganizationLocation: getEnv("ORGANIZATION_LOCATION", ""),

		Locale: getEnv("REPORT_LOCALE", "id"),

		MoneyPrecision:    getEnvInt("MONEY_PRECISION", 0),
		MoneyDecimalSep:   getEnv("MONEY_DECIMAL_SEP", ","),
		MoneyThousandsSep: getEnv("MONEY_THOUSANDS_SEP", "."),
		MoneySymbol:       getEnv("MONEY_SYMBOL", "Rp"),

		WhatsAppGatewayURL:  getEnv("WHATSAPP_GATEWAY_URL", ""),
		WhatsAppGatewayAuth: getEnv("WHATSAPP_GATEWAY_AUTH", ""),
		WhatsAppRecipient:   getEnv("WHATSAPP_RECIPIENT", ""),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// MoneyFormat builds the report money format from the configured overrides.
func (c *Config) MoneyFormat() report.MoneyFormat {
	return report.MoneyFormat{
		Precision:    c.MoneyPrecision,
		DecimalSep:   c.MoneyDecimalSep,
		ThousandsSep: c.MoneyThousandsSep,
		Symbol:       c.MoneySymbol,
	}
}

// Labels returns the report label set for the configured locale.
func (c *Config) Labels() report.Labels {
	return report.LabelsFor(c.Locale)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite", "postgres"}
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

	// Validate SQLite configuration if backend is sqlite
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

	// Validate Postgres configuration if backend is postgres
	if c.DataBackend == "postgres" && c.PostgresDSN == "" {
		errors = append(errors, "POSTGRES_DSN cannot be empty when using postgres backend")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
	}

	// Validate AMQP exchange and queue names if AMQP is configured
	if c.AMQPURL != "" {
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate locale
	if c.Locale != "id" && c.Locale != "en" {
		errors = append(errors, fmt.Sprintf("invalid report locale '%s': must be 'id' or 'en'", c.Locale))
	}

	// Validate money formatting
	if c.MoneyPrecision < 0 || c.MoneyPrecision > 4 {
		errors = append(errors, fmt.Sprintf("invalid money precision %d: must be between 0 and 4", c.MoneyPrecision))
	}
	if c.MoneyPrecision > 0 && c.MoneyDecimalSep == "" {
		errors = append(errors, "money decimal separator cannot be empty when precision is positive")
	}

	// Validate gateway URL if provided
	if c.WhatsAppGatewayURL != "" {
		if parsedURL, err := url.Parse(c.WhatsAppGatewayURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid WhatsApp gateway URL '%s': %v", c.WhatsAppGatewayURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid WhatsApp gateway URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if c.OrganizationName == "" {
		errors = append(errors, "organization name cannot be empty")
	}

	// Return combined errors
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
