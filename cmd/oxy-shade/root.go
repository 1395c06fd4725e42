package main

import (
	"io"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	logLevel string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "oxy-shade",
		Short:         "WebGPU shader workers with CPU reference stages",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			installLogger(cmd.ErrOrStderr(), opts.logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newRunCommand(opts),
		newKernelCommand(),
		newMapCommand(),
		newValidateCommand(),
	)
	return cmd
}

// installLogger points common.Logger at a text handler on w.
func installLogger(w io.Writer, level string) {
	common.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: common.ParseLogLevel(level),
	})))
}
