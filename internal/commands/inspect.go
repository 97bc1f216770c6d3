package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tanker-tools/fuelrecon/internal/report"
	"github.com/tanker-tools/fuelrecon/internal/session"
)

func newInspectCommand(a *app) *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load a single file and show what was read",
	}
	inspectCmd.AddCommand(newInspectRegistryCommand(a))
	inspectCmd.AddCommand(newInspectActCommand(a))
	return inspectCmd
}

func newInspectRegistryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "registry <path>",
		Short: "Show the columns, row count and total of a registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := session.New(a.cfg, a.log)
			table, err := s.LoadRegistry(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.RenderStatus(out, s.Status()); err != nil {
				return err
			}
			fmt.Fprintf(out, "ID column: %s\nAmount column: %s\nHeader row: %d\n",
				table.IDColumn, table.AmountColumn, table.HeaderRow)
			return nil
		},
	}
}

func newInspectActCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "act <path>",
		Short: "Show the row count and totals of an act",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := session.New(a.cfg, a.log)
			table, err := s.LoadAct(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.RenderStatus(out, s.Status()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Delimiter: %s\n", delimiterName(table.Delimiter))
			return nil
		},
	}
}

func delimiterName(r rune) string {
	switch r {
	case '\t':
		return "tab"
	case ';':
		return "semicolon"
	case ',':
		return "comma"
	case '|':
		return "pipe"
	default:
		return strconv.QuoteRune(r)
	}
}
