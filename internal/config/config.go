package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/tabula/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Grid     GridConfig     `toml:"grid"`
	Keys     KeyConfig      `toml:"keys"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type GridConfig struct {
	Sheet                  string         `toml:"sheet"`
	Editable               bool           `toml:"editable"`
	AllowAddCols           bool           `toml:"allow_add_cols"`
	AllowAddRows           bool           `toml:"allow_add_rows"`
	DefaultColumnValue     any            `toml:"default_column_value"`
	DefaultColumnType      string         `toml:"default_column_type"`
	DefaultColumnPrecision int            `toml:"default_column_precision"`
	ReadonlyColumns        []string       `toml:"readonly_columns"`
	ColumnWidth            int            `toml:"column_width"`
	Columns                []ColumnConfig `toml:"columns"`
}

type ColumnConfig struct {
	Key       string `toml:"key"`
	Type      string `toml:"type"`
	Precision *int   `toml:"precision"`
	Default   any    `toml:"default"`
	Readonly  bool   `toml:"readonly"`
}

type KeyConfig struct {
	Copy  string `toml:"copy"`
	Paste string `toml:"paste"`
	Quit  string `toml:"quit"`
	Save  string `toml:"save"`
	Help  string `toml:"help"`
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     "log",
			},
		},
		Grid: GridConfig{
			Sheet:                  "default",
			Editable:               true,
			AllowAddCols:           true,
			AllowAddRows:           true,
			DefaultColumnValue:     "",
			DefaultColumnType:      "string",
			DefaultColumnPrecision: 2,
			ColumnWidth:            12,
		},
		Keys: KeyConfig{
			Copy:  "ctrl+c",
			Paste: "ctrl+v",
			Quit:  "ctrl+q",
			Save:  "ctrl+s",
			Help:  "?",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	// Columns replace rather than merge with the defaults.
	cfg.Grid.Columns = nil
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	c.Database.Path = strings.TrimSpace(c.Database.Path)
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if _, err := charmLog.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if strings.TrimSpace(c.Grid.Sheet) == "" {
		return errors.New("grid.sheet is required")
	}
	if _, err := domain.ParseColumnType(c.Grid.DefaultColumnType); err != nil {
		return fmt.Errorf("invalid grid.default_column_type: %w", err)
	}
	if c.Grid.ColumnWidth < 3 {
		return fmt.Errorf("grid.column_width must be >= 3, got %d", c.Grid.ColumnWidth)
	}
	for i, key := range c.Grid.ReadonlyColumns {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("grid.readonly_columns[%d] is empty", i)
		}
	}

	seen := map[string]struct{}{}
	for i, col := range c.Grid.Columns {
		key := strings.TrimSpace(col.Key)
		if key == "" {
			return fmt.Errorf("grid.columns[%d].key is required", i)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("grid.columns[%d].key is duplicated: %s", i, key)
		}
		seen[key] = struct{}{}
		if strings.TrimSpace(col.Type) != "" {
			if _, err := domain.ParseColumnType(col.Type); err != nil {
				return fmt.Errorf("invalid grid.columns[%d].type: %w", i, err)
			}
		}
	}

	bindings := []struct {
		name  string
		value string
	}{
		{"copy", c.Keys.Copy},
		{"paste", c.Keys.Paste},
		{"quit", c.Keys.Quit},
		{"save", c.Keys.Save},
		{"help", c.Keys.Help},
	}
	for _, binding := range bindings {
		if strings.TrimSpace(binding.value) == "" {
			return fmt.Errorf("keys.%s is required", binding.name)
		}
	}

	return nil
}

func (c Config) ColumnKeys() []string {
	out := make([]string, 0, len(c.Grid.Columns))
	for _, col := range c.Grid.Columns {
		out = append(out, strings.TrimSpace(col.Key))
	}
	return out
}

func (c Config) Policy() (domain.Policy, error) {
	policy := domain.DefaultPolicy()
	policy.Editable = c.Grid.Editable
	policy.AllowAddCols = c.Grid.AllowAddCols
	policy.AllowAddRows = c.Grid.AllowAddRows
	policy.DefaultPrecision = c.Grid.DefaultColumnPrecision

	defaultType, err := domain.ParseColumnType(c.Grid.DefaultColumnType)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("invalid grid.default_column_type: %w", err)
	}
	policy.DefaultType = defaultType
	policy.DefaultValue = domain.NormalizeValue(defaultType, c.Grid.DefaultColumnValue)
	if policy.DefaultValue == "" && defaultType.Basic() != domain.ColumnTypeString {
		// Let DefaultFor fall back to the type's zero value.
		policy.DefaultValue = nil
	}

	readonly := make([]string, 0, len(c.Grid.ReadonlyColumns))
	addReadonly := func(key string) {
		if !slices.Contains(readonly, key) {
			readonly = append(readonly, key)
		}
	}
	for _, key := range c.Grid.ReadonlyColumns {
		addReadonly(strings.TrimSpace(key))
	}

	for _, col := range c.Grid.Columns {
		key := strings.TrimSpace(col.Key)
		colType := defaultType
		if strings.TrimSpace(col.Type) != "" {
			colType, err = domain.ParseColumnType(col.Type)
			if err != nil {
				return domain.Policy{}, fmt.Errorf("invalid type for column %q: %w", key, err)
			}
			if policy.Types == nil {
				policy.Types = map[string]domain.ColumnType{}
			}
			policy.Types[key] = colType
		}
		if col.Precision != nil {
			if policy.Precisions == nil {
				policy.Precisions = map[string]int{}
			}
			policy.Precisions[key] = *col.Precision
		}
		if col.Default != nil {
			if policy.DefaultValues == nil {
				policy.DefaultValues = map[string]any{}
			}
			policy.DefaultValues[key] = domain.NormalizeValue(colType, col.Default)
		}
		if col.Readonly {
			addReadonly(key)
		}
	}
	if len(readonly) > 0 {
		policy.ReadonlyColumns = readonly
	}
	return policy, nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
