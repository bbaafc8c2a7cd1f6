package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/tabula/internal/config"
)

// runtimeLog is the one logger a run writes to: a logfmt dev file in dev mode,
// styled stderr otherwise, and nothing while a quiet run has no dev file.
type runtimeLog struct {
	*charmLog.Logger
	path  string
	close func() error
}

// newRuntimeLog picks the run's log destination. dataDir anchors a relative
// logging.dev_file.dir.
func newRuntimeLog(stderr io.Writer, appName, dataDir string, devMode, quiet bool, cfg config.LoggingConfig, now func() time.Time) (*runtimeLog, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	opts := charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	}

	if devMode && cfg.DevFile.Enabled {
		if now == nil {
			now = time.Now
		}
		path := devLogFilePath(dataDir, cfg.DevFile.Dir, appName, now().UTC())
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create dev log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open dev log file: %w", err)
		}
		opts.Formatter = charmLog.LogfmtFormatter
		return &runtimeLog{Logger: charmLog.NewWithOptions(f, opts), path: path, close: f.Close}, nil
	}

	out := stderr
	if quiet || out == nil {
		out = io.Discard
	}
	return &runtimeLog{Logger: charmLog.NewWithOptions(out, opts)}, nil
}

// DevLogPath returns the dev log file path, or "" when logging elsewhere.
func (l *runtimeLog) DevLogPath() string {
	return l.path
}

// Close closes the dev log file when one is open.
func (l *runtimeLog) Close() error {
	if l.close == nil {
		return nil
	}
	return l.close()
}

// devLogFilePath returns <dir>/<app>-YYYYMMDD.log, with a relative dir taken
// under dataDir.
func devLogFilePath(dataDir, dir, appName string, day time.Time) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "log"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(dataDir, dir)
	}
	name := fmt.Sprintf("%s-%s.log", sanitizeLogFileStem(appName), day.Format("20060102"))
	return filepath.Join(filepath.Clean(dir), name)
}

// sanitizeLogFileStem turns an app name into a file-name segment.
func sanitizeLogFileStem(appName string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	stem := strings.Trim(replacer.Replace(strings.TrimSpace(appName)), "-")
	if stem == "" {
		return "tabula"
	}
	return stem
}
