package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"budgetdash/internal/config"
	"budgetdash/internal/core"
	applog "budgetdash/internal/log"
)

func testLogger() *applog.Logger {
	return applog.New(applog.Config{Output: &bytes.Buffer{}})
}

func TestOpenStoreMemorySeedsBudgets(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "seed_budgets.txt"), []byte("Food: 200\nTransport: 80\n"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s, err := OpenStore(&config.Config{DataBackend: config.BackendMemory, SeedDir: dir}, testLogger())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	if s.Ready != nil {
		t.Fatal("memory store should not expose a readiness probe")
	}
	budgets, err := s.ListBudgets(context.Background())
	if err != nil || len(budgets) != 2 || budgets[0].Category != "Food" || budgets[0].Limit != 200 {
		t.Fatalf("budgets = %+v err=%v", budgets, err)
	}
}

func TestOpenStoreSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "budget.db")
	s, err := OpenStore(&config.Config{DataBackend: config.BackendSQLite, SQLiteDBPath: path}, testLogger())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	if err := s.Ready(context.Background()); err != nil {
		t.Fatalf("Ready: %v", err)
	}
	if _, err := s.UpsertBudget(context.Background(), core.Budget{Category: "Food", Limit: 50}); err != nil {
		t.Fatalf("UpsertBudget: %v", err)
	}
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	if _, err := OpenStore(&config.Config{DataBackend: "sheets"}, testLogger()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestOpenSheetsDisabled(t *testing.T) {
	c, err := OpenSheets(context.Background(), &config.Config{})
	if err != nil || c != nil {
		t.Fatalf("OpenSheets = %v, %v; want nil, nil", c, err)
	}
}

func TestSetupLoggerInstallsDefault(t *testing.T) {
	l := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"}, applog.ComponentWorker)
	if l.Component() != applog.ComponentWorker {
		t.Fatalf("component = %q", l.Component())
	}
}
