package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
	"github.com/ginjaninja78/eco-consumption-analyzer/internal/types"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	ledger := writeLedger(t, "구매 품목,금액,수량\n친환경 세제,5000,1\n플라스틱 컵,1000,3\n")
	out := t.TempDir()
	metricsPath := filepath.Join(out, "ecoreport.prom")

	err := execute(t, "analyze", ledger, "--output-dir", out, "-f", "json", "--metrics-file", metricsPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	reports, err := filepath.Glob(filepath.Join(out, "ledger_*.json"))
	if err != nil || len(reports) != 1 {
		t.Fatalf("reports = %v, %v", reports, err)
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `ecoreport_runs_total{status="success"} 1`) {
		t.Errorf("metrics file:\n%s", data)
	}
}

func TestAnalyzeCommand_SchemaError(t *testing.T) {
	ledger := writeLedger(t, "구매 품목,비고\n컵,x\n")

	err := execute(t, "analyze", ledger, "--dry-run")

	var schemaErr *types.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err = %v, want *types.SchemaError", err)
	}
}

func TestAnalyzeCommand_NoLedger(t *testing.T) {
	if err := execute(t, "analyze"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestValidateCommand_MissingExplicitConfig(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = config.DefaultConfigPath
		rootCmd.PersistentFlags().Lookup("config").Changed = false
	})

	err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to load main config") {
		t.Fatalf("err = %v", err)
	}
}
