package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=banking_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultDriver = "postgres"
const defaultHTTPAddr = ":8080"
const defaultLogLevel = "info"
const defaultMaxAccountsPerOwner = 3
const defaultTxMaxRetries = 3
const defaultShutdownTimeout = 10 * time.Second

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite3"
)

type Config struct {
	DatabaseDriver      string
	DatabaseDSN         string
	HTTPAddr            string
	LogLevel            string
	MaxAccountsPerOwner int
	TxMaxRetries        int
	ShutdownTimeout     time.Duration
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	driver := strings.ToLower(envOrDefault("DATABASE_DRIVER", defaultDriver))
	switch driver {
	case DriverMemory, DriverPostgres, DriverPgx, DriverSQLite:
	default:
		return Config{}, errors.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}

	conn := envOrDefault("DATABASE_DSN", defaultConnectionString)
	if driver == DriverPostgres || driver == DriverPgx {
		conn = normalizeConnectionString(conn)
	}

	maxAccounts, err := intOrDefault("MAX_ACCOUNTS_PER_OWNER", defaultMaxAccountsPerOwner)
	if err != nil {
		return Config{}, err
	}
	if maxAccounts <= 0 {
		return Config{}, errors.New("MAX_ACCOUNTS_PER_OWNER must be greater than zero")
	}

	retries, err := intOrDefault("TX_MAX_RETRIES", defaultTxMaxRetries)
	if err != nil {
		return Config{}, err
	}

	shutdownTimeout := defaultShutdownTimeout
	if raw := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT")); raw != "" {
		shutdownTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return Config{}, errors.Wrap(err, "parse SHUTDOWN_TIMEOUT")
		}
	}

	return Config{
		DatabaseDriver:      driver,
		DatabaseDSN:         conn,
		HTTPAddr:            envOrDefault("HTTP_ADDR", defaultHTTPAddr),
		LogLevel:            envOrDefault("LOG_LEVEL", defaultLogLevel),
		MaxAccountsPerOwner: maxAccounts,
		TxMaxRetries:        retries,
		ShutdownTimeout:     shutdownTimeout,
	}, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func intOrDefault(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return value, nil
}

// normalizeConnectionString turns "Key=Value;..." strings into libpq keyword
// form. URLs and strings already in keyword form pass through unchanged.
func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") || !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host", "server":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username", "user id":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
