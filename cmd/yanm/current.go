package main

import (
	"github.com/spf13/cobra"
)

func (a *app) currentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the active Node.js version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			state := m.Current()
			if !state.Active() {
				a.printf("none")
				return nil
			}
			a.printf("v%s", state.Version)
			return nil
		},
	}
}
