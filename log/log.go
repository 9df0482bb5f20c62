package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log file kinds. Everything from info up goes to stdlog, errors also go to
// their own file.
const (
	KindStd   = "stdlog"
	KindError = "errors"
)

// Config controls where log output goes.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Dir holds the rotated log files. Empty disables file output.
	Dir string
	// Console enables human readable output on stderr.
	Console bool
}

// New builds a logger that tees to the console and to the rotating files in
// cfg.Dir. The returned close func syncs and closes the files.
func New(cfg Config) (*zap.Logger, func() error, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var cores []zapcore.Core
	var files []*os.File
	closeAll := func() error {
		var errs []error
		for _, f := range files {
			errs = append(errs, f.Sync(), f.Close())
		}
		return errors.Join(errs...)
	}

	if cfg.Console {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	if cfg.Dir != "" {
		now := time.Now()
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir %s: %w", cfg.Dir, err)
		}
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder

		for _, kind := range []string{KindStd, KindError} {
			f, err := OpenFile(cfg.Dir, kind, now)
			if err != nil {
				_ = closeAll()
				return nil, nil, err
			}
			files = append(files, f)

			var enabler zapcore.LevelEnabler = level
			if kind == KindError {
				enabler = zapcore.ErrorLevel
			}
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(enc),
				zapcore.AddSync(f),
				enabler,
			))
		}
	}

	if len(cores) == 0 {
		return zap.NewNop(), closeAll, nil
	}
	return zap.New(zapcore.NewTee(cores...)), closeAll, nil
}

// NewWriter builds a JSON logger writing to w only.
func NewWriter(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), lvl)), nil
}

// Suffix maps the day of month onto one of three log files:
// 0 for days 1-9, 1 for 10-19 and 2 for the rest.
func Suffix(t time.Time) int {
	switch day := t.Day(); {
	case day <= 9:
		return 0
	case day <= 19:
		return 1
	default:
		return 2
	}
}

// FilePath returns the log file of the given kind for t.
func FilePath(dir, kind string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%d.log", kind, Suffix(t)))
}

// OpenFile rotates and opens the log file of the given kind for appending.
func OpenFile(dir, kind string, t time.Time) (*os.File, error) {
	if err := Rotate(dir, kind, Suffix(t)); err != nil {
		return nil, err
	}
	path := FilePath(dir, kind, t)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

// Rotate implements the circular rotation: while suffix n is in use the file
// that comes next, (n+1)%3, is stale from the previous month and is removed.
func Rotate(dir, kind string, current int) error {
	if current < 0 || current > 2 {
		return nil
	}
	stale := filepath.Join(dir, fmt.Sprintf("%s-%d.log", kind, (current+1)%3))
	if err := os.Remove(stale); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale log %s: %w", stale, err)
	}
	return nil
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
