package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func newRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

// histogramCount reads the sample count of one stage from the registry.
func histogramCount(t *testing.T, r *Recorder, stage string) uint64 {
	t.Helper()

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "ecoreport_stage_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue(m, "stage") == stage {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestRecordSuccess(t *testing.T) {
	r := newRecorder(t)

	r.RecordSuccess(RunSummary{Rows: 10, EcoRows: 4, Warnings: 1, SavingsKg: 1.25, EcoRatio: 40})
	r.RecordSuccess(RunSummary{Rows: 5, EcoRows: 1})

	if got := testutil.ToFloat64(r.runs.WithLabelValues(StatusSuccess)); got != 2 {
		t.Errorf("successful runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.rows.WithLabelValues(RowsProcessed)); got != 15 {
		t.Errorf("processed rows = %v, want 15", got)
	}
	if got := testutil.ToFloat64(r.rows.WithLabelValues(RowsEco)); got != 5 {
		t.Errorf("eco rows = %v, want 5", got)
	}
	if got := testutil.ToFloat64(r.savingsKg); got != 0 {
		t.Errorf("last savings = %v, want the last run's 0", got)
	}
}

func TestRecordFailure(t *testing.T) {
	r := newRecorder(t)
	r.RecordFailure()

	if got := testutil.ToFloat64(r.runs.WithLabelValues(StatusFailure)); got != 1 {
		t.Errorf("failed runs = %v, want 1", got)
	}
}

func TestObserveStage(t *testing.T) {
	r := newRecorder(t)

	r.ObserveStage("normalize", 2*time.Millisecond)
	r.ObserveStage("normalize", 3*time.Millisecond)
	r.ObserveStage("report", time.Millisecond)

	if got := histogramCount(t, r, "normalize"); got != 2 {
		t.Errorf("normalize samples = %d, want 2", got)
	}
	if got := histogramCount(t, r, "report"); got != 1 {
		t.Errorf("report samples = %d, want 1", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder

	r.ObserveStage("normalize", time.Millisecond)
	r.RecordSuccess(RunSummary{Rows: 1})
	r.RecordFailure()
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")); err != nil {
		t.Errorf("WriteTextfile() error = %v", err)
	}
	if err := r.Push("http://127.0.0.1:1", "job"); err != nil {
		t.Errorf("Push() error = %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := newRecorder(t)
	r.RecordSuccess(RunSummary{Rows: 3, EcoRows: 2, SavingsKg: 0.5, EcoRatio: 66.5})

	path := filepath.Join(t.TempDir(), "ecoreport.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`ecoreport_runs_total{status="success"} 1`,
		`ecoreport_rows_total{kind="eco"} 2`,
		`ecoreport_last_run_eco_ratio_percent 66.5`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics file missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	if err := newRecorder(t).WriteTextfile(""); err != nil {
		t.Errorf("WriteTextfile(\"\") error = %v", err)
	}
}

func TestPush(t *testing.T) {
	type request struct {
		method string
		path   string
	}
	requests := make(chan request, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- request{method: r.Method, path: r.URL.Path}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := newRecorder(t)
	r.RecordSuccess(RunSummary{Rows: 1})

	if err := r.Push(server.URL, "ecoreport-test"); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	select {
	case got := <-requests:
		if got.method != http.MethodPut || got.path != "/metrics/job/ecoreport-test" {
			t.Errorf("request = %+v", got)
		}
	default:
		t.Fatal("Push() did not reach the gateway")
	}
}

func TestPush_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := newRecorder(t).Push(server.URL, ""); err == nil {
		t.Fatal("expected an error from a failing gateway")
	}
}
