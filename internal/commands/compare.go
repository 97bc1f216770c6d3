package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tanker-tools/fuelrecon/internal/report"
	"github.com/tanker-tools/fuelrecon/internal/session"
)

func newCompareCommand(a *app) *cobra.Command {
	var registryPath, actPath, outPath, tolerance string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a registry against an act and list the discrepancies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tolerance != "" {
				tol, err := decimal.NewFromString(tolerance)
				if err != nil {
					return fmt.Errorf("invalid tolerance %q: %w", tolerance, err)
				}
				if !tol.IsPositive() {
					return fmt.Errorf("tolerance must be positive, got %s", tolerance)
				}
				a.cfg.Compare.Tolerance = tol
			}
			if outPath == "" {
				outPath = a.cfg.Export.Path
			}

			s := session.New(a.cfg, a.log)
			if _, err := s.LoadRegistry(registryPath); err != nil {
				return err
			}
			if _, err := s.LoadAct(actPath); err != nil {
				return err
			}
			rows, err := s.Compare()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.RenderStatus(out, s.Status()); err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No discrepancies found.")
				return nil
			}
			if err := report.RenderTable(out, rows); err != nil {
				return err
			}

			if outPath == "" {
				return nil
			}
			if err := s.Export(outPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported %d discrepancies to %s\n", len(rows), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&registryPath, "registry", "", "internal registry (.xlsx, .xlsm or .csv)")
	cmd.Flags().StringVar(&actPath, "act", "", "counterparty act (.csv or .txt)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write discrepancies to this tab-separated file")
	cmd.Flags().StringVar(&tolerance, "tolerance", "", "largest difference treated as a match (default from config)")
	_ = cmd.MarkFlagRequired("registry")
	_ = cmd.MarkFlagRequired("act")

	return cmd
}
