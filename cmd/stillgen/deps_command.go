package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stillgen/internal/config"
	"stillgen/internal/deps"
)

func newDepsCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external dependencies and static resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			statuses := deps.Check(deps.ForConfig(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = status.Detail
					if status.Optional {
						state += " (optional)"
					}
				}
				rows = append(rows, []string{status.Name, status.Description, state})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Purpose", "Status"}, rows, nil))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required dependencies missing", len(missing))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config-file", "", "Configuration file (TOML or JSON)")
	return cmd
}
