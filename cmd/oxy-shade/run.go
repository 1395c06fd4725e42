package main

import (
	"github.com/Carmen-Shannon/oxy-shade/engine"
	"github.com/Carmen-Shannon/oxy-shade/engine/config"
	"github.com/spf13/cobra"
)

func newRunCommand(root *rootOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and run the configured worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			// the config's level applies unless --log-level was given
			if cfg.Logger != nil && !cmd.Flags().Changed("log-level") {
				installLogger(cmd.ErrOrStderr(), *cfg.Logger)
			}

			e, err := engine.FromConfig(cfg)
			if err != nil {
				return err
			}
			e.Run()
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML engine config (defaults apply when empty)")
	return cmd
}
