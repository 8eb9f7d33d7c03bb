package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	StaffSecret     string
	StaffLogin      string
	StaffPassword   string
	TaxRate         float64
	ServiceFee      float64
	AllowStatusSkip bool
	TableCount      int
	CreateTimeout   time.Duration
	DeliveredGrace  time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultStaffSecret     = "change-me-in-production"
	defaultStaffLogin      = "admin"
	defaultTableCount      = 12
	defaultCreateTimeout   = 10 * time.Second
	defaultDeliveredGrace  = 2 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		StaffSecret:     getString(lookup, "STAFF_SECRET", defaultStaffSecret),
		StaffLogin:      getString(lookup, "STAFF_LOGIN", defaultStaffLogin),
		StaffPassword:   getString(lookup, "STAFF_PASSWORD", ""),
		TaxRate:         getFloat(lookup, "TAX_RATE", 0),
		ServiceFee:      getFloat(lookup, "SERVICE_FEE", 0),
		AllowStatusSkip: getBool(lookup, "ALLOW_STATUS_SKIP", false),
		TableCount:      getInt(lookup, "TABLE_COUNT", defaultTableCount),
		CreateTimeout:   getDuration(lookup, "CREATE_TIMEOUT", defaultCreateTimeout),
		DeliveredGrace:  getDuration(lookup, "DELIVERED_GRACE", defaultDeliveredGrace),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("comanda", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		createTimeoutStr   = cfg.CreateTimeout.String()
		deliveredGraceStr  = cfg.DeliveredGrace.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.StaffSecret, "staff-secret", cfg.StaffSecret, "Secret for signing staff tokens")
	fs.StringVar(&cfg.StaffLogin, "staff-login", cfg.StaffLogin, "Bootstrap staff account login")
	fs.StringVar(&cfg.StaffPassword, "staff-password", cfg.StaffPassword, "Bootstrap staff account password")
	fs.Float64Var(&cfg.TaxRate, "tax-rate", cfg.TaxRate, "Tax rate applied at checkout (e.g. 0.16)")
	fs.Float64Var(&cfg.ServiceFee, "service-fee", cfg.ServiceFee, "Service fee rate applied at checkout (e.g. 0.10)")
	fs.BoolVar(&cfg.AllowStatusSkip, "allow-skip", cfg.AllowStatusSkip, "Allow staff to skip intermediate order states")
	fs.IntVar(&cfg.TableCount, "tables", cfg.TableCount, "Number of tables in the room")
	fs.StringVar(&createTimeoutStr, "create-timeout", createTimeoutStr, "Client-side bound on order creation")
	fs.StringVar(&deliveredGraceStr, "delivered-grace", deliveredGraceStr, "Delay before a delivered order switches to invoice view")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.CreateTimeout, err = time.ParseDuration(createTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid create timeout: %w", err)
	}

	if cfg.DeliveredGrace, err = time.ParseDuration(deliveredGraceStr); err != nil {
		return nil, fmt.Errorf("invalid delivered grace: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("STAFF_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read staff secret file: %w", err)
		}
		cfg.StaffSecret = string(content)
	}

	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return nil, fmt.Errorf("tax rate must be within [0, 1)")
	}

	if cfg.ServiceFee < 0 || cfg.ServiceFee >= 1 {
		return nil, fmt.Errorf("service fee must be within [0, 1)")
	}

	if cfg.TableCount <= 0 {
		cfg.TableCount = defaultTableCount
	}

	if cfg.CreateTimeout <= 0 {
		cfg.CreateTimeout = defaultCreateTimeout
	}

	if cfg.DeliveredGrace < 0 {
		cfg.DeliveredGrace = defaultDeliveredGrace
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
