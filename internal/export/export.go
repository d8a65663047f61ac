package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
	"go.uber.org/zap"
)

// Format selects the on-disk encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Options controls where and how a curve lands on disk.
type Options struct {
	Format    Format
	Scenario  string // Scenario label used in filename and envelope
	RunID     string // Correlation ID shared with other sinks; generated when empty
	OutputDir string
}

// CurveExporter writes computed loss curves to disk
type CurveExporter struct {
	logger *zap.Logger
}

// NewCurveExporter creates a new curve exporter
func NewCurveExporter(logger *zap.Logger) *CurveExporter {
	return &CurveExporter{logger: logger}
}

// ExportCurve writes the curve of the given position to a file and
// returns the path
func (ce *CurveExporter) ExportCurve(points []position.CurvePoint, pos position.Position, initialPrice float64, opts Options) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("no curve points to export")
	}

	sorted := make([]position.CurvePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %q: %w", opts.OutputDir, err)
	}
	path := filepath.Join(opts.OutputDir, ce.generateFilename(opts))

	var err error
	switch opts.Format {
	case FormatCSV:
		err = ce.writeCSV(sorted, path)
	case FormatJSON:
		err = ce.writeJSON(sorted, pos, initialPrice, runID, opts.Scenario, path)
	default:
		err = fmt.Errorf("unsupported format: %s", opts.Format)
	}
	if err != nil {
		return "", err
	}

	ce.logger.Info("Curve exported",
		zap.String("file", path),
		zap.Int("points", len(sorted)),
		zap.String("format", string(opts.Format)),
		zap.String("run_id", runID))

	return path, nil
}

// generateFilename stamps the scenario label and wall clock into the
// name.
func (ce *CurveExporter) generateFilename(opts Options) string {
	stamp := time.Now().Format("20060102_150405")

	prefix := "curve"
	if label := sanitizeLabel(opts.Scenario); label != "" {
		prefix += "_" + label
	}

	return fmt.Sprintf("%s_%s.%s", prefix, stamp, opts.Format)
}

// sanitizeLabel keeps scenario labels portable as filename parts
func sanitizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}

func csvHeaders() []string {
	return []string{"price", "lp_value", "hold_value", "loss"}
}

func pointToCSV(p position.CurvePoint) []string {
	return []string{
		formatFloat(p.Price),
		formatFloat(p.LP),
		formatFloat(p.Hold),
		formatFloat(p.Loss),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeCSV renders one row per curve point under a fixed header.
func (ce *CurveExporter) writeCSV(points []position.CurvePoint, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create curve file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(csvHeaders()); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	for _, p := range points {
		if err := cw.Write(pointToCSV(p)); err != nil {
			return fmt.Errorf("failed to write point: %w", err)
		}
	}

	return nil
}

// writeJSON wraps the points in an envelope carrying the position
// parameters and summary statistics.
func (ce *CurveExporter) writeJSON(points []position.CurvePoint, pos position.Position, initialPrice float64, runID, scenarioLabel, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create curve file: %w", err)
	}
	defer f.Close()

	envelope := struct {
		ExportTime   time.Time             `json:"export_time"`
		RunID        string                `json:"run_id"`
		Scenario     string                `json:"scenario,omitempty"`
		Liquidity    float64               `json:"liquidity"`
		LowerBound   float64               `json:"lower_bound"`
		UpperBound   float64               `json:"upper_bound"`
		InitialPrice float64               `json:"initial_price"`
		PointCount   int                   `json:"point_count"`
		Summary      Summary               `json:"summary"`
		Points       []position.CurvePoint `json:"points"`
	}{
		ExportTime:   time.Now(),
		RunID:        runID,
		Scenario:     scenarioLabel,
		Liquidity:    pos.Liquidity,
		LowerBound:   pos.Range.Lower,
		UpperBound:   pos.Range.Upper,
		InitialPrice: initialPrice,
		PointCount:   len(points),
		Summary:      ce.calculateSummary(points, pos.Range),
		Points:       points,
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope); err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	return nil
}

// calculateSummary folds the curve into the envelope statistics.
func (ce *CurveExporter) calculateSummary(points []position.CurvePoint, r position.Range) Summary {
	sum := Summary{PointCount: len(points)}
	if len(points) == 0 {
		return sum
	}

	sum.PriceMin = points[0].Price
	sum.PriceMax = points[len(points)-1].Price
	sum.MaxLoss = points[0].Loss
	sum.MaxLossPrice = points[0].Price

	var lossSum float64
	for _, p := range points {
		lossSum += p.Loss

		if p.Loss > sum.MaxLoss {
			sum.MaxLoss = p.Loss
			sum.MaxLossPrice = p.Price
		}
		if r.Contains(p.Price) {
			sum.InRangeCount++
		}
	}

	sum.MeanLoss = lossSum / float64(len(points))

	return sum
}

// Summary aggregates loss statistics over one exported curve
type Summary struct {
	PointCount   int     `json:"point_count"`
	PriceMin     float64 `json:"price_min"`
	PriceMax     float64 `json:"price_max"`
	MaxLoss      float64 `json:"max_loss"`
	MaxLossPrice float64 `json:"max_loss_price"`
	MeanLoss     float64 `json:"mean_loss"`
	InRangeCount int     `json:"in_range_count"`
}
