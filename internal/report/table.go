package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tanker-tools/fuelrecon/internal/model"
	"github.com/tanker-tools/fuelrecon/internal/reconcile"
)

var amountAlignment = []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight}

// RenderTable prints rows as a terminal table with grouped amounts and a
// totals footer.
func RenderTable(w io.Writer, rows []model.Discrepancy) error {
	cfg := tablewriter.Config{}
	cfg.Header.Alignment = tw.CellAlignment{PerColumn: amountAlignment}
	cfg.Row.Alignment = tw.CellAlignment{PerColumn: amountAlignment}
	cfg.Footer.Alignment = tw.CellAlignment{PerColumn: amountAlignment}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
	table.Header(toAny(Header)...)

	for _, r := range rows {
		if err := table.Append(toAny(displayRow(r))...); err != nil {
			return err
		}
	}

	tot := reconcile.Totals(rows)
	table.Footer("Total", FormatAmount(tot.RegistryTotal), FormatAmount(tot.ActTotal), FormatAmount(tot.Diff))

	return table.Render()
}

// RenderStatus prints the loaded-file summary as a two-column table.
func RenderStatus(w io.Writer, st model.Status) error {
	table := tablewriter.NewTable(w)
	table.Header("Field", "Value")

	lines := [][2]string{
		{"Registry", orDash(baseName(st.RegistryFile))},
		{"Registry rows", strconv.Itoa(st.RegistryRows)},
		{"Registry total", FormatAmount(st.RegistryTotal)},
		{"Act", orDash(baseName(st.ActFile))},
		{"Act rows", strconv.Itoa(st.ActRows)},
		{"Act income", FormatAmount(st.ActIncome)},
		{"Act expense", FormatAmount(st.ActExpense)},
		{"Act net (income - expense)", FormatAmount(st.ActNet)},
	}
	if st.Compared {
		lines = append(lines, [2]string{"Discrepancies", strconv.Itoa(st.Discrepancies)})
	}
	for _, l := range lines {
		if err := table.Append(l[0], l[1]); err != nil {
			return fmt.Errorf("rendering status: %w", err)
		}
	}
	return table.Render()
}

func displayRow(d model.Discrepancy) []string {
	return []string{d.ID, FormatAmount(d.RegistryTotal), FormatAmount(d.ActTotal), FormatAmount(d.Diff)}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}
