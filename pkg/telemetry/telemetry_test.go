package telemetry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/param"
)

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestMetrics_CountsFormEvents(t *testing.T) {
	metrics := NewMetrics("")
	obj, err := param.New("Foo", []param.Descriptor{
		param.NewInteger("n", param.WithBounds(param.Float(0), param.Float(3))),
	})
	if err != nil {
		t.Fatalf("new object: %v", err)
	}
	f, err := form.New(obj, form.WithMetrics(metrics), form.WithOnInit(true))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	defer f.Close()

	ctrl, _ := f.Control("n")
	_ = ctrl.SetValue(2)
	_ = ctrl.SetValue(9)

	if got := testutil.ToFloat64(metrics.commits.WithLabelValues("init")); got != 1 {
		t.Fatalf("expected 1 init commit, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.commits.WithLabelValues("change")); got != 1 {
		t.Fatalf("expected 1 change commit, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.fieldUpdates.WithLabelValues("n", form.OutcomeRejected)); got != 1 {
		t.Fatalf("expected 1 rejected update, got %v", got)
	}
	count, err := testutil.GatherAndCount(metrics.Registry())
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 series, got %d", count)
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var metrics *Metrics
	metrics.RecordCommit("button")
	metrics.RecordFieldUpdate("n", "accepted")
	if metrics.Registry() != nil {
		t.Fatalf("nil metrics should have no registry")
	}
}
