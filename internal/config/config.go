package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file looked up in the working directory.
const FileName = "fuelrecon.yaml"

// Config represents the top-level fuelrecon.yaml configuration.
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	Act      ActConfig      `yaml:"act"`
	Compare  CompareConfig  `yaml:"compare"`
	Export   ExportConfig   `yaml:"export"`
	Log      LogConfig      `yaml:"log"`
}

// RegistryConfig describes how to find columns in the internal registry.
type RegistryConfig struct {
	IDColumns     []string `yaml:"id_columns"`
	AmountColumns []string `yaml:"amount_columns"`
	HeaderRows    []int    `yaml:"header_rows"` // zero-based, tried in order
	Sheet         string   `yaml:"sheet,omitempty"`
	Encoding      string   `yaml:"encoding,omitempty"` // for registries exported as CSV
}

// ActConfig names the fixed columns of the counterparty act.
type ActConfig struct {
	IDColumn      string `yaml:"id_column"`
	IncomeColumn  string `yaml:"income_column"`
	ExpenseColumn string `yaml:"expense_column"`
	Encoding      string `yaml:"encoding"` // "utf-8" or "windows-1251"
}

// CompareConfig controls the reconciliation.
type CompareConfig struct {
	Tolerance decimal.Decimal `yaml:"tolerance"`
}

// ExportConfig controls the discrepancy export.
type ExportConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format,omitempty"` // "", "console" or "json"
	File   string `yaml:"file,omitempty"`
}

// Load reads a fuelrecon.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, falling back to Default when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the column names used by the fuel card registry and the
// counterparty act.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			IDColumns:     []string{"Идентификатор заказа", "ИД заказа", "ID заказа", "Номер заказа"},
			AmountColumns: []string{"Стоимость", "Сумма", "Стоимость заказа", "Сумма заказа"},
			HeaderRows:    []int{0, 6},
			Encoding:      "utf-8",
		},
		Act: ActConfig{
			IDColumn:      "Заказ",
			IncomeColumn:  "Приход (Клиент)",
			ExpenseColumn: "Расход (Клиент)",
			Encoding:      "utf-8",
		},
		Compare: CompareConfig{
			Tolerance: decimal.New(1, -2),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that every required setting is present.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Registry.IDColumns) == 0 {
		errs = append(errs, errors.New("registry.id_columns is empty"))
	}
	if len(c.Registry.AmountColumns) == 0 {
		errs = append(errs, errors.New("registry.amount_columns is empty"))
	}
	if len(c.Registry.HeaderRows) == 0 {
		errs = append(errs, errors.New("registry.header_rows is empty"))
	}
	for _, r := range c.Registry.HeaderRows {
		if r < 0 {
			errs = append(errs, fmt.Errorf("registry.header_rows: negative row %d", r))
		}
	}
	if c.Act.IDColumn == "" || c.Act.IncomeColumn == "" || c.Act.ExpenseColumn == "" {
		errs = append(errs, errors.New("act columns must all be set"))
	}
	if !c.Compare.Tolerance.IsPositive() {
		errs = append(errs, fmt.Errorf("compare.tolerance must be positive, got %s", c.Compare.Tolerance))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not console or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Environment variables that override file settings.
const (
	EnvTolerance  = "FUELRECON_TOLERANCE"
	EnvExportPath = "FUELRECON_EXPORT_PATH"
	EnvLogFile    = "FUELRECON_LOG_FILE"
	EnvLogLevel   = "LOG_LEVEL"
)

// ApplyEnv loads an optional .env file (envFile, or ./.env when empty) and
// applies the FUELRECON_* and LOG_LEVEL overrides.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// ./.env is optional but must parse when present.
		return fmt.Errorf("loading .env: %w", err)
	}

	if v := os.Getenv(EnvTolerance); v != "" {
		tol, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTolerance, v, err)
		}
		c.Compare.Tolerance = tol
	}
	if v := os.Getenv(EnvExportPath); v != "" {
		c.Export.Path = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return c.Validate()
}
