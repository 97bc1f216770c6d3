package commands

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tanker-tools/fuelrecon/internal/buildinfo"
	"github.com/tanker-tools/fuelrecon/internal/config"
	"github.com/tanker-tools/fuelrecon/internal/logging"
)

// app carries the settings shared by every subcommand. It is filled in by
// the root command's PersistentPreRunE.
type app struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	log    zerolog.Logger
	closer io.Closer
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "fuelrecon",
		Short:   "Reconcile a fuel card registry against a counterparty act",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.FileName, "config file")
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file with FUELRECON_* overrides (default ./.env if present)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.logFormat, "log-format", "", "log format (console or json)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newCompareCommand(a))
	rootCmd.AddCommand(newInspectCommand(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	// An explicitly named config must exist.
	if cmd.Flag("config").Changed {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadOrDefault(a.configPath)
	}
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(a.envFile); err != nil {
		return err
	}

	// Flags win over the environment and the file.
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	opts := logging.Options{
		Level:  cfg.Log.Level,
		Format: logging.Format(cfg.Log.Format),
		File:   cfg.Log.File,
	}
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		log, closer, err := logging.FromOptions(opts, f)
		if err != nil {
			return err
		}
		a.log, a.closer = log, closer
		return nil
	}

	// Captured output, as in tests.
	a.log = logging.New(cmd.ErrOrStderr(), logging.ParseLevel(opts.Level))
	return nil
}
