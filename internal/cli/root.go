// Package cli implements the kanzlei command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/kanzlei/internal/config"
	"github.com/mmynk/kanzlei/pkg/logging"
)

// options are shared by all subcommands.
type options struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

// NewRootCmd creates the root command with the serve, user and list subcommands.
func NewRootCmd(ver string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "kanzlei",
		Short:         "Document and client management for tax offices",
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	cmd.AddCommand(
		newServeCmd(opts),
		newUserCmd(opts),
		newListCmd(),
	)
	return cmd
}
