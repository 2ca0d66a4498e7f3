package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"confprog/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if flagConfig != "" {
				path = flagConfig
			}
			if len(args) == 1 {
				path = args[0]
			}

			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Printf("Wrote sample config to %s\n", path)
			return nil
		},
	}
}
