package main

import (
	"github.com/spf13/cobra"
)

func (a *app) localCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "local <version>",
		Short: "Pin a version for the current directory",
		Long:  "Write the version to .nvmrc in the current directory. Alias names are written as the version they stand for.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			path, version, err := m.Local(args[0])
			if err != nil {
				return err
			}
			a.printf("Wrote %s to %s", version, path)
			return nil
		},
	}
}
