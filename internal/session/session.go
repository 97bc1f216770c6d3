// Package session holds the state of one reconciliation: the loaded
// registry and act, and the result of the last comparison.
package session

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tanker-tools/fuelrecon/internal/config"
	"github.com/tanker-tools/fuelrecon/internal/importer"
	"github.com/tanker-tools/fuelrecon/internal/model"
	"github.com/tanker-tools/fuelrecon/internal/reconcile"
	"github.com/tanker-tools/fuelrecon/internal/report"
)

// ErrNothingToExport is returned by Export when no comparison has run or
// the last one found no discrepancies.
var ErrNothingToExport = fmt.Errorf("nothing to export: %w", reconcile.ErrNotReady)

// Session is not safe for concurrent use.
type Session struct {
	loader    *importer.Loader
	tolerance decimal.Decimal
	log       zerolog.Logger

	registry *model.RegistryTable
	act      *model.ActTable
	result   []model.Discrepancy
	compared bool
}

// New creates an empty Session.
func New(cfg *config.Config, log zerolog.Logger) *Session {
	return &Session{
		loader:    importer.NewLoader(cfg, log),
		tolerance: cfg.Compare.Tolerance,
		log:       log,
	}
}

// LoadRegistry replaces the registry with the table read from path. On
// failure the previously loaded registry is kept.
func (s *Session) LoadRegistry(path string) (*model.RegistryTable, error) {
	table, err := s.loader.LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	s.registry = table
	s.clearResult()
	return table, nil
}

// LoadAct replaces the act with the table read from path. On failure the
// previously loaded act is kept.
func (s *Session) LoadAct(path string) (*model.ActTable, error) {
	table, err := s.loader.LoadAct(path)
	if err != nil {
		return nil, err
	}
	s.act = table
	s.clearResult()
	return table, nil
}

// Ready reports whether both tables are loaded.
func (s *Session) Ready() bool {
	return s.registry != nil && s.act != nil
}

// Compare reconciles the loaded tables and stores the result.
func (s *Session) Compare() ([]model.Discrepancy, error) {
	rows, err := reconcile.Compare(s.registry, s.act, s.tolerance)
	if err != nil {
		return nil, err
	}
	s.result = rows
	s.compared = true

	ev := s.log.Info().Int("discrepancies", len(rows))
	if len(rows) == 0 {
		ev.Msg("no discrepancies found")
	} else {
		ev.Msg("comparison complete")
	}
	return rows, nil
}

// Discrepancies returns the result of the last comparison.
func (s *Session) Discrepancies() []model.Discrepancy {
	return s.result
}

// Export writes the last comparison result to path, overwriting it.
func (s *Session) Export(path string) error {
	if len(s.result) == 0 {
		return ErrNothingToExport
	}
	if err := report.WriteFile(path, s.result); err != nil {
		s.log.Error().Err(err).Str("file", path).Msg("export failed")
		return fmt.Errorf("exporting to %s: %w", path, err)
	}
	s.log.Info().Str("file", path).Int("rows", len(s.result)).Msg("discrepancies exported")
	return nil
}

// Reset drops both tables and the last result.
func (s *Session) Reset() {
	s.registry = nil
	s.act = nil
	s.clearResult()
	s.log.Info().Msg("session reset")
}

// Status summarizes what is loaded.
func (s *Session) Status() model.Status {
	st := model.Status{
		RegistryTotal: decimal.Zero,
		ActIncome:     decimal.Zero,
		ActExpense:    decimal.Zero,
		ActNet:        decimal.Zero,
		Compared:      s.compared,
		Discrepancies: len(s.result),
	}
	if s.registry != nil {
		st.RegistryFile = s.registry.Source
		st.RegistryRows = len(s.registry.Rows)
		st.RegistryTotal = s.registry.Total
	}
	if s.act != nil {
		st.ActFile = s.act.Source
		st.ActRows = len(s.act.Rows)
		st.ActIncome = s.act.TotalIncome
		st.ActExpense = s.act.TotalExpense
		st.ActNet = s.act.Net
	}
	return st
}

func (s *Session) clearResult() {
	s.result = nil
	s.compared = false
}
