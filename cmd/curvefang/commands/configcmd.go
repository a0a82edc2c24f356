package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/curvefang/pkg/config"
)

// defaultConfigFile is where "config init" writes the starter file.
const defaultConfigFile = "curvefang.yaml"

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage engine configuration",
	}

	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file with the engine defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := config.Default().WriteFile(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "output", "o", defaultConfigFile, "Output path for the config file")

	return cmd
}
