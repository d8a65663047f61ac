// Package publish streams computed curves into InfluxDB so losses can
// be charted next to live pool data.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dustin/go-humanize"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"

	"github.com/lars-fritz/InteractiveILcalculator/internal/config"
	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
)

// Publisher writes curve points through the async write API
type Publisher struct {
	client      influxdb2.Client
	outbound    api.WriteAPI
	url         string
	measurement string
	log         *zap.Logger
}

// NewPublisher connects to InfluxDB with the given settings
func NewPublisher(cfg config.InfluxConfig, logger *zap.Logger) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("influx is not configured")
	}

	measurement := cfg.Measurement
	if measurement == "" {
		measurement = config.DefaultMeasurement
	}

	cli := influxdb2.NewClient(cfg.URL, cfg.Token)
	outbound := cli.WriteAPI(cfg.Org, cfg.Bucket)

	p := &Publisher{
		client:      cli,
		outbound:    outbound,
		url:         cfg.URL,
		measurement: measurement,
		log:         logger,
	}

	// Async writes fail out of band, surface them in the log
	go func() {
		for err := range outbound.Errors() {
			logger.Error("Influx write failed", zap.Error(err))
		}
	}()

	return p, nil
}

// Ping verifies the target answers before a run commits points to it.
// Transient failures retry with exponential backoff up to tries.
func (p *Publisher) Ping(ctx context.Context, tries uint) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	onRetry := func(err error, duration time.Duration) {
		p.log.Info("Retrying Influx ping", zap.Error(err), zap.Duration("backoff", duration))
	}

	operation := func() (bool, error) {
		ok, err := p.client.Ping(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fmt.Errorf("influx at %s did not answer the ping", p.url)
		}
		return true, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(onRetry))
	return err
}

// Meta tags every published point
type Meta struct {
	RunID    string
	Scenario string
	Asset    string
	Amount   float64
}

func (m Meta) tags() map[string]string {
	number, suffix := humanize.ComputeSI(m.Amount)
	size := humanize.Ftoa(number) + suffix

	tags := map[string]string{
		"run_id": m.RunID,
		"asset":  m.Asset,
		"size":   size,
	}
	if m.Scenario != "" {
		tags["scenario"] = m.Scenario
	}
	return tags
}

// PublishPoint writes one curve sample
func (p *Publisher) PublishPoint(timestamp time.Time, meta Meta, cp position.CurvePoint) {
	fields := map[string]interface{}{
		"price":      cp.Price,
		"lp_value":   cp.LP,
		"hold_value": cp.Hold,
		"loss":       cp.Loss,
	}

	point := write.NewPoint(p.measurement, meta.tags(), fields, timestamp)
	p.outbound.WritePoint(point)
}

// PublishCurve writes a whole sweep. Points get distinct timestamps a
// millisecond apart, otherwise Influx would collapse the series.
func (p *Publisher) PublishCurve(meta Meta, points []position.CurvePoint) {
	base := time.Now()
	for i, cp := range points {
		p.PublishPoint(base.Add(time.Duration(i)*time.Millisecond), meta, cp)
	}

	p.log.Info("Curve published",
		zap.Int("points", len(points)),
		zap.String("run_id", meta.RunID),
		zap.String("measurement", p.measurement))
}

// Close flushes buffered points and shuts the client down
func (p *Publisher) Close() {
	p.outbound.Flush()
	p.client.Close()
}
