package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, lookupFrom(map[string]string{"DATABASE_URI": "postgres://localhost/comanda"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RunAddress != defaultRunAddress {
		t.Fatalf("unexpected run address %q", cfg.RunAddress)
	}
	if cfg.TaxRate != 0 || cfg.ServiceFee != 0 {
		t.Fatalf("expected zero surcharge defaults, got %v/%v", cfg.TaxRate, cfg.ServiceFee)
	}
	if cfg.AllowStatusSkip {
		t.Fatalf("expected no-skip default")
	}
	if cfg.CreateTimeout != defaultCreateTimeout {
		t.Fatalf("unexpected create timeout %v", cfg.CreateTimeout)
	}
	if cfg.TableCount != defaultTableCount {
		t.Fatalf("unexpected table count %d", cfg.TableCount)
	}
}

func TestLoadRequiresDatabaseURI(t *testing.T) {
	if _, err := load(nil, lookupFrom(nil)); err == nil {
		t.Fatalf("expected error without database URI")
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	env := map[string]string{
		"DATABASE_URI": "postgres://env/db",
		"TAX_RATE":     "0.16",
	}
	args := []string{"-d", "postgres://flag/db", "-service-fee", "0.10", "-allow-skip", "-tables", "20", "-create-timeout", "5s"}
	cfg, err := load(args, lookupFrom(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseURI != "postgres://flag/db" {
		t.Fatalf("expected flag to win, got %q", cfg.DatabaseURI)
	}
	if cfg.TaxRate != 0.16 || cfg.ServiceFee != 0.10 {
		t.Fatalf("unexpected surcharge %v/%v", cfg.TaxRate, cfg.ServiceFee)
	}
	if !cfg.AllowStatusSkip {
		t.Fatalf("expected allow-skip to be set")
	}
	if cfg.TableCount != 20 {
		t.Fatalf("unexpected table count %d", cfg.TableCount)
	}
	if cfg.CreateTimeout != 5*time.Second {
		t.Fatalf("unexpected create timeout %v", cfg.CreateTimeout)
	}
}

func TestLoadRejectsOutOfRangeRates(t *testing.T) {
	env := map[string]string{"DATABASE_URI": "postgres://localhost/comanda"}
	if _, err := load([]string{"-tax-rate", "1.5"}, lookupFrom(env)); err == nil {
		t.Fatalf("expected error for tax rate above 1")
	}
	if _, err := load([]string{"-service-fee", "-0.1"}, lookupFrom(env)); err == nil {
		t.Fatalf("expected error for negative service fee")
	}
}

func TestLoadSecretFile(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret")
	if err := os.WriteFile(secretPath, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("write secret file: %v", err)
	}
	env := map[string]string{
		"DATABASE_URI":      "postgres://localhost/comanda",
		"STAFF_SECRET_FILE": secretPath,
	}
	cfg, err := load(nil, lookupFrom(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StaffSecret != "from-file" {
		t.Fatalf("expected secret from file, got %q", cfg.StaffSecret)
	}
}

func TestLoadInvalidDurationFlag(t *testing.T) {
	env := map[string]string{"DATABASE_URI": "postgres://localhost/comanda"}
	if _, err := load([]string{"-create-timeout", "soon"}, lookupFrom(env)); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
