package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
	"go.uber.org/zap"
)

func testCurve(t *testing.T) ([]position.CurvePoint, position.Position) {
	t.Helper()

	r := position.Range{Lower: 0.8, Upper: 1.2}
	pos, err := position.Open(position.Funding{Asset: position.AssetY, Amount: 1000}, 1.0, r)
	if err != nil {
		t.Fatalf("open position: %v", err)
	}

	points, err := position.Curve(pos.Liquidity, r, 1.0, position.Grid(0.5, 1.5, 21))
	if err != nil {
		t.Fatalf("compute curve: %v", err)
	}
	return points, pos
}

func TestCurveExportCSV(t *testing.T) {
	exporter := NewCurveExporter(zap.NewNop())
	dir := t.TempDir()

	points, pos := testCurve(t)

	path, err := exporter.ExportCurve(points, pos, 1.0, Options{Format: FormatCSV, OutputDir: dir})
	if err != nil {
		t.Fatalf("export curve: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != "price,lp_value,hold_value,loss" {
		t.Errorf("csv header = %q, want %q", lines[0], "price,lp_value,hold_value,loss")
	}
	if len(lines) != len(points)+1 {
		t.Errorf("csv lines = %d, want %d", len(lines), len(points)+1)
	}

	t.Logf("csv export: %s (%d bytes)", path, len(raw))
}

func TestCurveExportJSON(t *testing.T) {
	exporter := NewCurveExporter(zap.NewNop())
	dir := t.TempDir()

	points, pos := testCurve(t)

	opts := Options{Format: FormatJSON, Scenario: "base case", RunID: "run-123", OutputDir: dir}
	path, err := exporter.ExportCurve(points, pos, 1.0, opts)
	if err != nil {
		t.Fatalf("export curve: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var envelope struct {
		RunID        string                `json:"run_id"`
		Scenario     string                `json:"scenario"`
		Liquidity    float64               `json:"liquidity"`
		InitialPrice float64               `json:"initial_price"`
		PointCount   int                   `json:"point_count"`
		Summary      Summary               `json:"summary"`
		Points       []position.CurvePoint `json:"points"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode export: %v", err)
	}

	if envelope.RunID != "run-123" {
		t.Errorf("run_id = %q, want %q", envelope.RunID, "run-123")
	}
	if envelope.Scenario != "base case" {
		t.Errorf("scenario = %q, want %q", envelope.Scenario, "base case")
	}
	if envelope.PointCount != len(points) {
		t.Errorf("point_count = %d, want %d", envelope.PointCount, len(points))
	}
	if envelope.Liquidity != pos.Liquidity {
		t.Errorf("liquidity = %g, want %g", envelope.Liquidity, pos.Liquidity)
	}
	if envelope.Summary.MaxLoss < 0 {
		t.Errorf("summary.MaxLoss = %f, want >= 0", envelope.Summary.MaxLoss)
	}

	t.Logf("json export: %s (%d bytes)", path, len(raw))
}

func TestExportRejectsEmptyCurve(t *testing.T) {
	exporter := NewCurveExporter(zap.NewNop())

	_, pos := testCurve(t)
	_, err := exporter.ExportCurve(nil, pos, 1.0, Options{Format: FormatCSV, OutputDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for empty curve")
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	exporter := NewCurveExporter(zap.NewNop())

	points, pos := testCurve(t)
	_, err := exporter.ExportCurve(points, pos, 1.0, Options{Format: "xml", OutputDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestCurveSummary(t *testing.T) {
	exporter := NewCurveExporter(zap.NewNop())

	r := position.Range{Lower: 0.8, Upper: 1.2}
	points := []position.CurvePoint{
		{Price: 0.5, LP: 900, Hold: 1000, Loss: 0.10},
		{Price: 1.0, LP: 1000, Hold: 1000, Loss: 0.0},
		{Price: 1.5, LP: 1140, Hold: 1200, Loss: 0.05},
	}

	summary := exporter.calculateSummary(points, r)

	if summary.PointCount != 3 {
		t.Errorf("PointCount = %d, want 3", summary.PointCount)
	}
	if summary.PriceMin != 0.5 || summary.PriceMax != 1.5 {
		t.Errorf("price span = [%f, %f], want [0.5, 1.5]", summary.PriceMin, summary.PriceMax)
	}
	if summary.MaxLoss != 0.10 || summary.MaxLossPrice != 0.5 {
		t.Errorf("max loss = %f at %f, want 0.10 at 0.5", summary.MaxLoss, summary.MaxLossPrice)
	}
	if summary.InRangeCount != 1 {
		t.Errorf("InRangeCount = %d, want 1", summary.InRangeCount)
	}

	wantMean := (0.10 + 0.0 + 0.05) / 3
	if diff := summary.MeanLoss - wantMean; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("MeanLoss = %f, want %f", summary.MeanLoss, wantMean)
	}

	t.Logf("summary: %+v", summary)
}

func TestExportFilenames(t *testing.T) {
	exporter := NewCurveExporter(zap.NewNop())

	cases := []struct {
		name   string
		opts   Options
		prefix string
	}{
		{"bare", Options{Format: FormatCSV}, "curve_"},
		{"with scenario", Options{Format: FormatJSON, Scenario: "base"}, "curve_base_"},
		{"sanitized scenario", Options{Format: FormatCSV, Scenario: "My Scenario!"}, "curve_My-Scenario_"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := exporter.generateFilename(tc.opts)
			if !strings.HasPrefix(got, tc.prefix) {
				t.Errorf("filename = %q, want prefix %q", got, tc.prefix)
			}

			wantExt := "." + string(tc.opts.Format)
			if !strings.HasSuffix(got, wantExt) {
				t.Errorf("filename = %q, want suffix %q", got, wantExt)
			}
		})
	}
}
