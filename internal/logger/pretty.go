package logger

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// levelTags maps severities to pre-colored console labels.
var levelTags = map[zapcore.Level]string{
	zapcore.DebugLevel: "\033[36m[DEBUG]\033[0m",
	zapcore.InfoLevel:  "\033[32m[INFO]\033[0m",
	zapcore.WarnLevel:  "\033[33m[WARN]\033[0m",
	zapcore.ErrorLevel: "\033[31m[ERROR]\033[0m",
	zapcore.FatalLevel: "\033[1;31m[FATAL]\033[0m",
}

func colorLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if tag, ok := levelTags[l]; ok {
		enc.AppendString(tag)
		return
	}
	enc.AppendString("[" + l.CapitalString() + "]")
}

func clockTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.TimeOnly))
}

func logLevel(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// consoleCore renders colored, wall-clock stamped lines to stdout.
func consoleCore(debug bool) zapcore.Core {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = colorLevel
	cfg.EncodeTime = clockTime
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stdout),
		logLevel(debug),
	)
}

// CreatePrettyLogger builds a console-only logger for plain CLI runs.
func CreatePrettyLogger(debug bool) (*zap.Logger, error) {
	return zap.New(consoleCore(debug)), nil
}

// FileConfig sizes the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// CreateFileLogger tees the console output into a rotating JSON file.
// Interactive runs stay readable while the file keeps the structured
// history.
func CreateFileLogger(debug bool, fc FileConfig) (*zap.Logger, error) {
	if fc.Path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}

	rotated := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    fc.MaxSizeMB,
		MaxBackups: fc.MaxBackups,
		MaxAge:     fc.MaxAgeDays,
		Compress:   true,
	})

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		rotated,
		logLevel(debug),
	)

	return zap.New(zapcore.NewTee(consoleCore(debug), fileCore)), nil
}

// CreateTUILogger writes only to the ring. Console output would tear
// the rendered frame, so the TUI reads its log tail from the ring
// instead.
func CreateTUILogger(debug bool, ring *Ring) (*zap.Logger, error) {
	if ring == nil {
		return nil, fmt.Errorf("ring is required for TUI logger")
	}

	// Ring.Write expects "time" stamps it can parse back.
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.AddSync(ring),
		logLevel(debug),
	)
	return zap.New(core), nil
}
