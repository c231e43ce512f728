package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

func TestGetEnvInt(t *testing.T) {
	t.Setenv("PLAN_HORIZON_DAYS", "60")
	if got := getEnvInt("PLAN_HORIZON_DAYS", DefaultHorizonDays); got != 60 {
		t.Errorf("Expected 60, got %d", got)
	}

	t.Setenv("PLAN_HORIZON_DAYS", "not-a-number")
	if got := getEnvInt("PLAN_HORIZON_DAYS", DefaultHorizonDays); got != DefaultHorizonDays {
		t.Errorf("Expected fallback %d for garbage, got %d", DefaultHorizonDays, got)
	}

	t.Setenv("PLAN_HORIZON_DAYS", "-5")
	if got := getEnvInt("PLAN_HORIZON_DAYS", DefaultHorizonDays); got != DefaultHorizonDays {
		t.Errorf("Expected fallback %d for non-positive value, got %d", DefaultHorizonDays, got)
	}
}

func TestLoadDerivesPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("SNAPSHOT_FILE", "")
	os.Unsetenv("SNAPSHOT_FILE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SnapshotPath != filepath.Join(dir, "snapshot.json") {
		t.Errorf("Unexpected snapshot path %q", cfg.SnapshotPath)
	}
	if cfg.LogDir != filepath.Join(dir, "logs") {
		t.Errorf("Unexpected log dir %q", cfg.LogDir)
	}
	if _, err := os.Stat(cfg.ExportDir); err != nil {
		t.Errorf("Expected export dir to be created: %v", err)
	}
	if cfg.HorizonDays != DefaultHorizonDays {
		t.Errorf("Expected default horizon, got %d", cfg.HorizonDays)
	}
}

// .env files written by ops tooling quote values; godotenv must unwrap them.
func TestGodotenvQuoting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `SNAPSHOT_FILE='/data/roll plan/"prod".json'`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}
	expected := `/data/roll plan/"prod".json`
	if env["SNAPSHOT_FILE"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["SNAPSHOT_FILE"])
	}
}
