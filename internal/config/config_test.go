package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Registry.Sheet = "Реестр"
	cfg.Compare.Tolerance = decimal.RequireFromString("0.05")
	cfg.Export.Path = "out/расхождения.txt"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Registry.IDColumns, got.Registry.IDColumns)
	assert.Equal(t, cfg.Registry.AmountColumns, got.Registry.AmountColumns)
	assert.Equal(t, cfg.Registry.HeaderRows, got.Registry.HeaderRows)
	assert.Equal(t, "Реестр", got.Registry.Sheet)
	assert.Equal(t, cfg.Act, got.Act)
	assert.True(t, got.Compare.Tolerance.Equal(decimal.RequireFromString("0.05")), "tolerance: %s", got.Compare.Tolerance)
	assert.Equal(t, "out/расхождения.txt", got.Export.Path)
	assert.Equal(t, "info", got.Log.Level)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"Идентификатор заказа", "ИД заказа", "ID заказа", "Номер заказа"}, cfg.Registry.IDColumns)
	assert.Equal(t, []string{"Стоимость", "Сумма", "Стоимость заказа", "Сумма заказа"}, cfg.Registry.AmountColumns)
	assert.Equal(t, []int{0, 6}, cfg.Registry.HeaderRows)
	assert.Equal(t, "Заказ", cfg.Act.IDColumn)
	assert.Equal(t, "Приход (Клиент)", cfg.Act.IncomeColumn)
	assert.Equal(t, "Расход (Клиент)", cfg.Act.ExpenseColumn)
	assert.Equal(t, "0.01", cfg.Compare.Tolerance.StringFixed(2))
	assert.Empty(t, cfg.Export.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("compare:\n  tolerance: 0.5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.50", cfg.Compare.Tolerance.StringFixed(2))
	assert.Equal(t, []int{0, 6}, cfg.Registry.HeaderRows)
	assert.Equal(t, "Заказ", cfg.Act.IDColumn)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("registry:\n  id_columns: []\ncompare:\n  tolerance: 0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry.id_columns is empty")
	assert.Contains(t, err.Error(), "compare.tolerance must be positive")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "id_columns:")
	assert.Contains(t, contents, "- Идентификатор заказа")
	assert.Contains(t, contents, "id_column: Заказ")
	assert.Contains(t, contents, "header_rows:")
	assert.Contains(t, contents, "tolerance:")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvTolerance, "0.10")
	t.Setenv(EnvExportPath, "/tmp/diff.txt")
	t.Setenv(EnvLogFile, "")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(""))
	assert.Equal(t, "0.10", cfg.Compare.Tolerance.StringFixed(2))
	assert.Equal(t, "/tmp/diff.txt", cfg.Export.Path)
}

func TestApplyEnv_File(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvExportPath+"=from-dotenv.txt\n"), 0o644))
	t.Setenv(EnvTolerance, "")
	// godotenv never overrides variables that are already set.
	t.Setenv(EnvExportPath, "")
	require.NoError(t, os.Unsetenv(EnvExportPath))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envFile))
	assert.Equal(t, "from-dotenv.txt", cfg.Export.Path)
}

func TestApplyEnv_BadTolerance(t *testing.T) {
	t.Setenv(EnvTolerance, "lots")
	cfg := Default()
	err := cfg.ApplyEnv("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTolerance)
}

func TestApplyEnv_LogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(""))
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestApplyEnv_MissingDotEnvIgnored(t *testing.T) {
	chdir(t, t.TempDir())
	cfg := Default()
	assert.NoError(t, cfg.ApplyEnv(""))
}

func TestApplyEnv_MalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvExportPath+"=\"unterminated\n"), 0o644))
	chdir(t, dir)

	cfg := Default()
	err := cfg.ApplyEnv("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading .env")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
