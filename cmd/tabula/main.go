package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/tabula/internal/adapters/clipboard"
	"github.com/evanschultz/tabula/internal/adapters/storage/memory"
	"github.com/evanschultz/tabula/internal/adapters/storage/sqlite"
	"github.com/evanschultz/tabula/internal/app"
	"github.com/evanschultz/tabula/internal/cliptext"
	"github.com/evanschultz/tabula/internal/config"
	"github.com/evanschultz/tabula/internal/domain"
	"github.com/evanschultz/tabula/internal/platform"
	"github.com/evanschultz/tabula/internal/tui"
)

// version stores a package-level helper value.
var version = "dev"

// seedRows is the row count of a newly created sheet.
const seedRows = 20

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// clipboardFactory returns the clipboard handed to the TUI.
var clipboardFactory = clipboard.Fallback

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("tabula", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		dbPath     string
		appName    string
		sheetName  string
		devMode    bool
		showVer    bool
	)
	fs.StringVar(&configPath, "config", "", "path to config TOML")
	fs.StringVar(&dbPath, "db", "", "path to sqlite database")
	fs.StringVar(&appName, "app", "", "application name for config/data path resolution")
	fs.StringVar(&sheetName, "sheet", "", "sheet to open (defaults to grid.sheet)")
	fs.BoolVar(&devMode, "dev", false, "use dev mode paths (<app>-dev)")
	fs.BoolVar(&showVer, "version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVer {
		_, _ = fmt.Fprintf(stdout, "tabula %s\n", version)
		return nil
	}

	overrides := platform.Overrides{
		AppName:    appName,
		ConfigPath: configPath,
		DBPath:     dbPath,
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "dev" {
			overrides.DevMode = &devMode
		}
	})
	resolved, err := platform.Resolve(overrides, os.Getenv, version == "dev")
	if err != nil {
		return err
	}

	command := firstArg(fs.Args())
	switch command {
	case "paths":
		_, _ = fmt.Fprintf(stdout, "app: %s\n", resolved.AppName)
		_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", resolved.DevMode)
		_, _ = fmt.Fprintf(stdout, "config: %s\n", resolved.ConfigPath)
		_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", resolved.DataDir)
		_, _ = fmt.Fprintf(stdout, "db: %s\n", resolved.DBPath)
		_, _ = fmt.Fprintf(stdout, "exports: %s\n", resolved.ExportDir)
		return nil
	case "", "export", "import", "sheets":
		// Continue.
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	cfg, err := config.Load(resolved.ConfigPath, config.Default(resolved.DBPath))
	if err != nil {
		return fmt.Errorf("load config %q: %w", resolved.ConfigPath, err)
	}
	if resolved.DBOverridden {
		cfg.Database.Path = resolved.DBPath
	}
	if v := strings.TrimSpace(sheetName); v != "" {
		cfg.Grid.Sheet = v
	}
	policy, err := cfg.Policy()
	if err != nil {
		return fmt.Errorf("build grid policy: %w", err)
	}

	// The TUI owns the terminal, so a grid session only logs to the dev file.
	logger, err := newRuntimeLog(stderr, resolved.AppName, resolved.DataDir, resolved.DevMode, command == "", cfg.Logging, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close dev log: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", resolved.AppName, "dev_mode", resolved.DevMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", resolved.ConfigPath, "data_dir", resolved.DataDir, "db_path", cfg.Database.Path)
	logger.Info("configuration loaded", "config_path", resolved.ConfigPath, "sheet", cfg.Grid.Sheet, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open sqlite repository: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
	}()
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path, "migrations", "ensured")

	switch command {
	case "sheets":
		names, err := repo.ListSheets(ctx)
		if err != nil {
			return fmt.Errorf("list sheets: %w", err)
		}
		for _, name := range names {
			_, _ = fmt.Fprintln(stdout, name)
		}
		return nil
	case "export":
		logger.Info("command flow start", "command", "export")
		if err := runExport(ctx, repo, cfg, policy, fs.Args()[1:], stdout); err != nil {
			logger.Error("command flow failed", "command", "export", "err", err)
			return fmt.Errorf("run export command: %w", err)
		}
		logger.Info("command flow complete", "command", "export")
		return nil
	case "import":
		logger.Info("command flow start", "command", "import")
		if err := runImport(ctx, repo, cfg, policy, fs.Args()[1:]); err != nil {
			logger.Error("command flow failed", "command", "import", "err", err)
			return fmt.Errorf("run import command: %w", err)
		}
		logger.Info("command flow complete", "command", "import")
		return nil
	}

	logger.Info("command flow start", "command", "tui")
	tbl, err := loadOrSeedTable(ctx, repo, cfg, policy, time.Now())
	if err != nil {
		logger.Error("sheet load failed", "sheet", cfg.Grid.Sheet, "err", err)
		return fmt.Errorf("load sheet %q: %w", cfg.Grid.Sheet, err)
	}
	logger.Info("sheet ready", "sheet", cfg.Grid.Sheet, "columns", len(tbl.ColumnOrder()), "rows", tbl.RowCount())

	activity := tui.NewActivityLog()
	grid := app.NewGrid(tbl, policy,
		app.WithObserver(activity),
		app.WithLogger(logger.Logger),
	)
	sheet := cfg.Grid.Sheet
	m := tui.NewModel(
		grid,
		tui.WithSheetName(sheet),
		tui.WithActivityLog(activity),
		tui.WithClipboard(clipboardFactory()),
		tui.WithColumnWidth(cfg.Grid.ColumnWidth),
		tui.WithKeyConfig(toTUIKeyConfig(cfg.Keys)),
		tui.WithLogger(logger.Logger),
		tui.WithSaveFunc(func(ctx context.Context) error {
			logger.Info("sheet save requested", "sheet", sheet)
			if err := repo.SaveSheet(ctx, tbl.Sheet(sheet, time.Now())); err != nil {
				logger.Error("sheet save failed", "sheet", sheet, "err", err)
				return err
			}
			logger.Info("sheet save complete", "sheet", sheet, "rows", tbl.RowCount())
			return nil
		}),
	)
	logger.Info("starting tui program loop")
	_, err = programFactory(m).Run()
	if err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// loadOrSeedTable loads the configured sheet, creating and persisting a seeded one when missing.
func loadOrSeedTable(ctx context.Context, repo app.SheetRepository, cfg config.Config, policy domain.Policy, now time.Time) (*memory.Table, error) {
	sheet, err := repo.LoadSheet(ctx, cfg.Grid.Sheet)
	switch {
	case err == nil:
		return memory.FromSheet(sheet)
	case !errors.Is(err, app.ErrNotFound):
		return nil, err
	}

	keys := cfg.ColumnKeys()
	if len(keys) == 0 {
		keys = []string{"A", "B", "C", "D"}
	}
	columns := make(map[string][]any, len(keys))
	for _, key := range keys {
		values := make([]any, seedRows)
		for i := range values {
			values[i] = policy.DefaultFor(key)
		}
		columns[key] = values
	}
	tbl, err := memory.NewTable(keys, columns)
	if err != nil {
		return nil, fmt.Errorf("seed sheet: %w", err)
	}
	if err := repo.SaveSheet(ctx, tbl.Sheet(cfg.Grid.Sheet, now)); err != nil {
		return nil, fmt.Errorf("save seeded sheet: %w", err)
	}
	return tbl, nil
}

// runExport writes the whole sheet in clipboard text format.
func runExport(ctx context.Context, repo app.SheetRepository, cfg config.Config, policy domain.Policy, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tabula export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		outPath string
		header  bool
	)
	fs.StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	fs.BoolVar(&header, "header", false, "write column keys as the first row")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse export flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected export arguments: %v", fs.Args())
	}

	sheet, err := repo.LoadSheet(ctx, cfg.Grid.Sheet)
	if err != nil {
		return fmt.Errorf("load sheet %q: %w", cfg.Grid.Sheet, err)
	}
	encoded := []byte(encodeSheet(sheet, policy, header))

	if outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write sheet to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// encodeSheet formats every cell the way a full-grid copy does.
func encodeSheet(sheet domain.Sheet, policy domain.Policy, header bool) string {
	rows := make([][]string, 0, sheet.RowCount()+1)
	if header {
		rows = append(rows, sheet.ColumnOrder())
	}
	for row := range sheet.RowCount() {
		cells := make([]string, 0, len(sheet.Columns))
		for _, col := range sheet.Columns {
			cells = append(cells, domain.FormatCell(policy.TypeOf(col.Key), policy.PrecisionOf(col.Key), col.Values[row]))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}
	return cliptext.Encode(rows) + "\n"
}

// runImport replaces the sheet with clipboard-format text.
func runImport(ctx context.Context, repo app.SheetRepository, cfg config.Config, policy domain.Policy, args []string) error {
	fs := flag.NewFlagSet("tabula import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		inPath string
		header bool
	)
	fs.StringVar(&inPath, "in", "", "input file in clipboard text format")
	fs.BoolVar(&header, "header", false, "treat the first row as column keys")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse import flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected import arguments: %v", fs.Args())
	}
	if inPath == "" {
		return fmt.Errorf("--in is required")
	}

	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	rows := cliptext.Parse(string(content))

	var keys []string
	switch {
	case header && len(rows) > 0:
		keys = rows[0]
		rows = rows[1:]
	default:
		existing, err := repo.LoadSheet(ctx, cfg.Grid.Sheet)
		switch {
		case err == nil:
			keys = existing.ColumnOrder()
		case errors.Is(err, app.ErrNotFound):
			keys = cfg.ColumnKeys()
		default:
			return fmt.Errorf("load sheet %q: %w", cfg.Grid.Sheet, err)
		}
	}
	keys = importKeys(keys, max(len(keys), cliptext.Width(rows)))

	columns := make(map[string][]any, len(keys))
	for idx, key := range keys {
		values := make([]any, len(rows))
		for r, cells := range rows {
			if idx >= len(cells) {
				values[r] = policy.DefaultFor(key)
				continue
			}
			values[r] = domain.Coerce(policy.TypeOf(key), policy.PrecisionOf(key), cells[idx], policy.DefaultFor(key))
		}
		columns[key] = values
	}
	tbl, err := memory.NewTable(keys, columns)
	if err != nil {
		return fmt.Errorf("build imported sheet: %w", err)
	}
	if err := repo.SaveSheet(ctx, tbl.Sheet(cfg.Grid.Sheet, time.Now())); err != nil {
		return fmt.Errorf("save imported sheet: %w", err)
	}
	return nil
}

// importKeys returns width unique keys, keeping usable names from keys and
// generating col-N names for blanks, duplicates and extra columns.
func importKeys(keys []string, width int) []string {
	namer := app.DefaultKeyNamer{}
	out := make([]string, 0, width)
	taken := func(key string) bool {
		for _, k := range out {
			if k == key {
				return true
			}
		}
		return false
	}
	for i := range width {
		base := ""
		if i < len(keys) {
			base = keys[i]
		}
		out = append(out, namer.UniqueKey(base, taken))
	}
	return out
}

// firstArg handles first arg.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// toTUIKeyConfig maps persisted key overrides into model options.
func toTUIKeyConfig(keys config.KeyConfig) tui.KeyConfig {
	return tui.KeyConfig{
		Quit:  keys.Quit,
		Save:  keys.Save,
		Help:  keys.Help,
		Copy:  keys.Copy,
		Paste: keys.Paste,
	}
}
