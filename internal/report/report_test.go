package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanker-tools/fuelrecon/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sample() []model.Discrepancy {
	return []model.Discrepancy{
		{ID: "id", RegistryTotal: dec("100"), ActTotal: dec("90"), Diff: dec("10")},
		{ID: "заказ-2", RegistryTotal: dec("0"), ActTotal: dec("1234.5"), Diff: dec("-1234.5")},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample()[:1]))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID\tRegistry Total\tAct Total\tDiff", lines[0])
	assert.Equal(t, "id\t100.00\t90.00\t10.00", lines[1])
}

func TestWrite_NegativeAndUnicode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample()))
	assert.Contains(t, buf.String(), "заказ-2\t0.00\t1234.50\t-1234.50\n")
}

func TestWrite_QuotesKeptVerbatim(t *testing.T) {
	var buf bytes.Buffer
	rows := []model.Discrepancy{{ID: `заказ "7"`, RegistryTotal: dec("100"), ActTotal: dec("0"), Diff: dec("100")}}
	require.NoError(t, Write(&buf, rows))
	assert.Contains(t, buf.String(), "\nзаказ \"7\"\t100.00\t0.00\t100.00\n")
}

func TestWrite_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, "ID\tRegistry Total\tAct Total\tDiff\n", buf.String())
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "расхождения.txt")

	require.NoError(t, WriteFile(path, sample()))
	require.NoError(t, WriteFile(path, sample()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID\tRegistry Total\tAct Total\tDiff\nid\t100.00\t90.00\t10.00\n", string(data))
}

func TestWriteFile_BadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFile(filepath.Join(blocker, "out.txt"), sample())
	assert.Error(t, err)
}

func TestMarshalRow(t *testing.T) {
	row := MarshalRow(model.Discrepancy{ID: "a", RegistryTotal: dec("1.5"), ActTotal: dec("0"), Diff: dec("1.5")})
	assert.Equal(t, []string{"a", "1.50", "0.00", "1.50"}, row)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0.00"},
		{"12.5", "12.50"},
		{"999.99", "999.99"},
		{"1000", "1,000.00"},
		{"1234567.5", "1,234,567.50"},
		{"-1234.5", "-1,234.50"},
		{"-12", "-12.00"},
		{"100000", "100,000.00"},
		{"-0.004", "0.00"},
		{"0.005", "0.01"},
		{"-999999.995", "-1,000,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(dec(tt.input)), "FormatAmount(%s)", tt.input)
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, sample()))
	out := buf.String()

	assert.Contains(t, out, "заказ-2")
	assert.Contains(t, out, "-1,234.50")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "1,324.50", "act column total")
}

func TestRenderStatus(t *testing.T) {
	var buf bytes.Buffer
	st := model.Status{
		RegistryFile:  "/data/реестр.xlsx",
		RegistryRows:  3,
		RegistryTotal: dec("1500"),
		Compared:      true,
		Discrepancies: 2,
	}
	require.NoError(t, RenderStatus(&buf, st))
	out := buf.String()

	assert.Contains(t, out, "реестр.xlsx")
	assert.NotContains(t, out, "/data/")
	assert.Contains(t, out, "1,500.00")
	assert.Contains(t, out, "--", "act not loaded")
	assert.Contains(t, out, "Discrepancies")
}
