package main

import (
	"github.com/spf13/cobra"
)

func (a *app) uninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <version>",
		Short: "Remove an installed Node.js version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			version, err := m.Uninstall(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printf("Uninstalled Node.js v%s", version)
			return nil
		},
	}
}
