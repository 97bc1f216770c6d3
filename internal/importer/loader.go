package importer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tanker-tools/fuelrecon/internal/config"
	"github.com/tanker-tools/fuelrecon/internal/model"
	"github.com/tanker-tools/fuelrecon/internal/normalize"
	"github.com/tanker-tools/fuelrecon/internal/schema"
)

// Loader reads registry and act files into canonical tables.
type Loader struct {
	cfg     *config.Config
	readers *Registry
	log     zerolog.Logger
}

// NewLoader creates a Loader using the default readers.
func NewLoader(cfg *config.Config, log zerolog.Logger) *Loader {
	return &Loader{cfg: cfg, readers: DefaultRegistry(), log: log}
}

// LoadRegistry reads the internal registry at path. The id and amount
// columns are located by synonym on one of the configured header rows.
// Rows with an empty id are dropped.
func (l *Loader) LoadRegistry(path string) (*model.RegistryTable, error) {
	table, err := l.loadRegistry(path)
	if err != nil {
		l.log.Error().Err(err).Str("file", path).Msg("registry load failed")
		return nil, &LoadError{Path: path, Err: err}
	}
	return table, nil
}

func (l *Loader) loadRegistry(path string) (*model.RegistryTable, error) {
	rd, err := l.readers.ForPath(path)
	if err != nil {
		return nil, err
	}

	rows, err := readFile(path, rd, ReadOptions{
		Sheet:    l.cfg.Registry.Sheet,
		Encoding: l.cfg.Registry.Encoding,
	})
	if err != nil {
		return nil, err
	}

	rc := l.cfg.Registry
	res, err := schema.Resolve(rows, rc.HeaderRows, rc.IDColumns, rc.AmountColumns, l.log.With().Str("file", filepath.Base(path)).Logger())
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("id_column", res.IDName).
		Str("amount_column", res.AmountName).
		Int("header_row", res.HeaderRow).
		Msg("registry columns found")

	norm := normalize.New(l.fileLogger(path, res.AmountName))
	table := &model.RegistryTable{
		Source:       path,
		IDColumn:     res.IDName,
		AmountColumn: res.AmountName,
		HeaderRow:    res.HeaderRow,
		Total:        decimal.Zero,
	}

	seen := make(map[string]int)
	for _, row := range schema.Rows(rows, res) {
		id := normalize.ID(schema.Cell(row, res.IDIndex))
		if id == "" {
			continue
		}
		cost := norm.Value(schema.Cell(row, res.AmountIndex))
		table.Rows = append(table.Rows, model.RegistryRow{ID: id, Cost: cost})
		table.Total = table.Total.Add(cost)
		seen[id]++
	}

	dups := 0
	for _, n := range seen {
		if n > 1 {
			dups++
		}
	}
	if dups > 0 {
		l.log.Warn().Int("ids", dups).Msg("registry has repeated order ids; their costs are summed")
	}

	l.log.Info().
		Str("file", filepath.Base(path)).
		Int("rows", len(table.Rows)).
		Str("total", table.Total.StringFixed(2)).
		Msg("registry loaded")
	return table, nil
}

// LoadAct reads the counterparty act at path. The act is always delimited
// text with fixed column names.
func (l *Loader) LoadAct(path string) (*model.ActTable, error) {
	table, err := l.loadAct(path)
	if err != nil {
		l.log.Error().Err(err).Str("file", path).Msg("act load failed")
		return nil, &LoadError{Path: path, Err: err}
	}
	return table, nil
}

func (l *Loader) loadAct(path string) (*model.ActTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, delim, err := ReadDelimited(f, l.cfg.Act.Encoding)
	if err != nil {
		return nil, err
	}
	for len(rows) > 0 && len(rows[0]) == 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, ErrNoDelimiter
	}

	ac := l.cfg.Act
	header := rows[0]
	cols := make([]int, 3)
	for i, name := range []string{ac.IDColumn, ac.IncomeColumn, ac.ExpenseColumn} {
		cols[i] = schema.Lookup(header, name)
		if cols[i] < 0 {
			return nil, &MissingColumnError{Column: name, Available: header}
		}
	}
	idCol, incomeCol, expenseCol := cols[0], cols[1], cols[2]

	incomeNorm := normalize.New(l.fileLogger(path, ac.IncomeColumn))
	expenseNorm := normalize.New(l.fileLogger(path, ac.ExpenseColumn))

	table := &model.ActTable{
		Source:       path,
		Delimiter:    delim,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, row := range rows[1:] {
		id := normalize.ID(schema.Cell(row, idCol))
		if id == "" {
			continue
		}
		r := model.NewActRow(id,
			incomeNorm.Value(schema.Cell(row, incomeCol)),
			expenseNorm.Value(schema.Cell(row, expenseCol)),
		)
		table.Rows = append(table.Rows, r)
		table.TotalIncome = table.TotalIncome.Add(r.Income)
		table.TotalExpense = table.TotalExpense.Add(r.Expense)
	}
	table.Net = table.TotalIncome.Sub(table.TotalExpense)

	l.log.Info().
		Str("file", filepath.Base(path)).
		Int("rows", len(table.Rows)).
		Str("income", table.TotalIncome.StringFixed(2)).
		Str("expense", table.TotalExpense.StringFixed(2)).
		Str("net", table.Net.StringFixed(2)).
		Msg("act loaded")
	return table, nil
}

func (l *Loader) fileLogger(path, column string) zerolog.Logger {
	return l.log.With().Str("file", filepath.Base(path)).Str("column", column).Logger()
}

func readFile(path string, rd Reader, opts ReadOptions) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return rd.Read(f, opts)
}
