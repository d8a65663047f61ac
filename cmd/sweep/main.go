package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/lars-fritz/InteractiveILcalculator/internal/config"
	"github.com/lars-fritz/InteractiveILcalculator/internal/export"
	"github.com/lars-fritz/InteractiveILcalculator/internal/logger"
	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
	"github.com/lars-fritz/InteractiveILcalculator/internal/publish"
	"github.com/lars-fritz/InteractiveILcalculator/internal/scenario"
	"github.com/lars-fritz/InteractiveILcalculator/internal/sqrtprice"
)

func main() {

	var (
		configPath   string
		scenarioName string

		price     float64
		priceX96  string
		priceTick int
		lower     float64
		upper     float64
		asset     string
		amount    float64
		initial   float64

		samples int
		span    float64
		workers int

		format    string
		outDir    string
		doPublish bool
	)

	pflag.StringVarP(&configPath, "config", "c", "configs/config.json", "path to config file")
	pflag.StringVar(&scenarioName, "scenario", "", "load inputs from a saved scenario instead of flags")

	pflag.Float64VarP(&price, "price", "p", config.DefaultPrice, "pool price y per x at deposit")
	pflag.StringVar(&priceX96, "price-x96", "", "deposit price as sqrtPriceX96, decimal or 0x hex")
	pflag.IntVar(&priceTick, "price-tick", 0, "deposit price as a tick index")
	pflag.Float64VarP(&lower, "lower", "l", config.DefaultLower, "lower band bound")
	pflag.Float64VarP(&upper, "upper", "u", config.DefaultUpper, "upper band bound")
	pflag.StringVarP(&asset, "asset", "a", "y", "funding asset, x or y")
	pflag.Float64VarP(&amount, "amount", "m", config.DefaultAmount, "funding amount")
	pflag.Float64Var(&initial, "initial", 0, "valuation anchor price, defaults to the deposit price")

	pflag.IntVarP(&samples, "samples", "n", config.DefaultCurveSamples, "number of curve samples")
	pflag.Float64VarP(&span, "span", "s", config.DefaultCurveSpan, "relative half-width of the price grid")
	pflag.IntVarP(&workers, "workers", "w", config.DefaultSweepWorkers, "parallel sweep workers")

	pflag.StringVarP(&format, "format", "f", "csv", "export format, csv or json")
	pflag.StringVarP(&outDir, "out", "o", config.DefaultExportDir, "export directory")
	pflag.BoolVar(&doPublish, "publish", false, "publish the curve to the configured InfluxDB")

	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	log, err := logger.CreatePrettyLogger(cfg.DebugLogging)
	if err != nil {
		stdlog.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	// Config fills in whatever the command line left untouched.
	flags := pflag.CommandLine
	if !flags.Changed("price") {
		price = cfg.DefaultPrice
	}
	if !flags.Changed("lower") {
		lower = cfg.DefaultLower
	}
	if !flags.Changed("upper") {
		upper = cfg.DefaultUpper
	}
	if !flags.Changed("amount") {
		amount = cfg.DefaultAmount
	}
	if !flags.Changed("samples") {
		samples = cfg.CurveSamples
	}
	if !flags.Changed("span") {
		span = cfg.CurveSpan
	}
	if !flags.Changed("workers") {
		workers = cfg.SweepWorkers
	}
	if !flags.Changed("out") {
		outDir = cfg.ExportDir
	}

	encodings := 0
	for _, name := range []string{"price", "price-x96", "price-tick"} {
		if flags.Changed(name) {
			encodings++
		}
	}
	if encodings > 1 {
		log.Fatal("Flags --price, --price-x96 and --price-tick are mutually exclusive")
	}
	switch {
	case flags.Changed("price-x96"):
		price, err = sqrtprice.ParsePrice("x96:" + priceX96)
		if err != nil {
			log.Fatal("Bad sqrt price", zap.Error(err))
		}
	case flags.Changed("price-tick"):
		price = sqrtprice.PriceFromTick(priceTick)
	}

	label := ""
	if scenarioName != "" {
		scenarios, err := scenario.NewManager(log).Load(cfg.ScenariosFile)
		if err != nil {
			log.Fatal("Failed to load scenarios", zap.Error(err))
		}
		sc := scenario.Find(scenarios, scenarioName)
		if sc == nil {
			log.Fatal("Scenario not found",
				zap.String("name", scenarioName),
				zap.String("file", cfg.ScenariosFile))
		}
		price = sc.Price
		lower = sc.LowerBound
		upper = sc.UpperBound
		asset = sc.Asset
		amount = sc.Amount
		label = sc.Name
	}

	parsedAsset, err := position.ParseAsset(asset)
	if err != nil {
		log.Fatal("Bad asset", zap.Error(err))
	}
	f := position.Funding{Asset: parsedAsset, Amount: amount}

	r, err := position.NewRange(lower, upper)
	if err != nil {
		log.Fatal("Bad band", zap.Error(err))
	}

	pos, err := position.Open(f, price, r)
	if err != nil {
		log.Fatal("Cannot open position", zap.Error(err))
	}
	comp, err := pos.CompositionAt(price)
	if err != nil {
		log.Fatal("Cannot value position", zap.Error(err))
	}

	number, suffix := humanize.ComputeSI(pos.Liquidity)
	log.Info("Position opened",
		zap.String("liquidity", humanize.Ftoa(number)+suffix),
		zap.Float64("price", price),
		zap.String("band", fmt.Sprintf("[%g, %g]", r.Lower, r.Upper)),
		zap.Float64("holds_x", comp.X),
		zap.Float64("holds_y", comp.Y),
		zap.Float64("value_x", comp.Value(price)))

	anchor := price
	if initial > 0 {
		anchor = initial
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prices := position.SpanGrid(anchor, span, samples)
	points, err := position.CurveParallel(ctx, workers, pos.Liquidity, r, anchor, prices)
	if err != nil {
		log.Fatal("Curve sweep failed", zap.Error(err))
	}
	if len(points) == 0 {
		log.Fatal("Curve came back empty",
			zap.Float64("anchor", anchor),
			zap.Float64("span", span))
	}

	worst := points[0]
	for _, cp := range points[1:] {
		if cp.Loss > worst.Loss {
			worst = cp
		}
	}
	log.Info("Curve computed",
		zap.Int("points", len(points)),
		zap.Float64("worst_loss_pct", worst.Loss*100),
		zap.Float64("at_price", worst.Price))

	runID := uuid.NewString()

	path, err := export.NewCurveExporter(log).ExportCurve(points, pos, anchor, export.Options{
		Format:    export.Format(strings.ToLower(format)),
		Scenario:  label,
		RunID:     runID,
		OutputDir: outDir,
	})
	if err != nil {
		log.Fatal("Export failed", zap.Error(err))
	}
	log.Info("Curve written", zap.String("path", path))

	if doPublish {
		if !cfg.Influx.Enabled() {
			log.Fatal("Publishing requested but no InfluxDB URL is configured")
		}
		publisher, err := publish.NewPublisher(cfg.Influx, log)
		if err != nil {
			log.Fatal("Publisher unavailable", zap.Error(err))
		}
		if err := publisher.Ping(ctx, 3); err != nil {
			log.Fatal("InfluxDB is not reachable", zap.Error(err))
		}
		publisher.PublishCurve(publish.Meta{
			RunID:    runID,
			Scenario: label,
			Asset:    string(f.Asset),
			Amount:   amount,
		}, points)
		publisher.Close()
	}
}
