package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-assembler/config"
	"github.com/goliatone/go-assembler/logging"
)

type rootFlags struct {
	files    []string
	logLevel string
	human    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "assembler",
		Short:         "Compose class strings from component variant definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringSliceVarP(&flags.files, "file", "f", nil, "Definition file (YAML, TOML or JSON); repeat to layer overrides")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level for expression evaluation")
	cmd.PersistentFlags().BoolVar(&flags.human, "human", false, "Human readable log output")

	cmd.AddCommand(newResolveCmd(flags))
	cmd.AddCommand(newDescribeCmd(flags))
	cmd.AddCommand(newCheckCmd(flags))

	return cmd
}

func (f *rootFlags) logger(cmd *cobra.Command) (zerolog.Logger, error) {
	return logging.New(logging.Options{
		Level:         f.logLevel,
		HumanReadable: f.human,
		Writer:        cmd.ErrOrStderr(),
	})
}

func (f *rootFlags) catalog(cmd *cobra.Command) (*config.Catalog, error) {
	logger, err := f.logger(cmd)
	if err != nil {
		return nil, err
	}
	catalog, err := config.LoadCatalog(f.files, config.WithAssemblerOptions(
		logging.NewEvaluatorLogger(logger).Option(),
	))
	if err != nil {
		logger.Error().Err(err).Strs("files", f.files).Msg("failed to load definitions")
		return nil, err
	}
	logger.Debug().Strs("files", f.files).Strs("components", catalog.Names()).Msg("definitions loaded")
	return catalog, nil
}
