package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/tanker-tools/fuelrecon/internal/model"
)

// Header is the first line of an exported discrepancy file.
var Header = []string{"ID", "Registry Total", "Act Total", "Diff"}

const (
	numFields   = 4
	colID       = 0
	colRegistry = 1
	colAct      = 2
	colDiff     = 3
)

// Write writes rows as tab-separated text, header first. Fields are written
// verbatim, without CSV quoting.
func Write(w io.Writer, rows []model.Discrepancy) error {
	bw := bufio.NewWriter(w)
	if err := writeLine(bw, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		if err := writeLine(bw, MarshalRow(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, fields []string) error {
	if _, err := w.WriteString(strings.Join(fields, "\t")); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// WriteFile creates or truncates path and writes rows to it.
func WriteFile(path string, rows []model.Discrepancy) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}

// MarshalRow converts a Discrepancy to its exported fields.
func MarshalRow(d model.Discrepancy) []string {
	row := make([]string, numFields)
	row[colID] = d.ID
	row[colRegistry] = d.RegistryTotal.StringFixed(2)
	row[colAct] = d.ActTotal.StringFixed(2)
	row[colDiff] = d.Diff.StringFixed(2)
	return row
}

// FormatAmount renders d with two decimals and comma thousands grouping,
// e.g. 1234567.5 -> "1,234,567.50".
func FormatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	abs := d.Abs()
	_, frac, _ := strings.Cut(abs.StringFixed(2), ".")

	// Only the integer part goes through the printer so the cents never
	// pass through a float.
	whole := abs.Truncate(0)
	intText := whole.String()
	if whole.BigInt().IsInt64() {
		p := message.NewPrinter(language.English)
		intText = p.Sprint(number.Decimal(whole.IntPart()))
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + intText + "." + frac
}
