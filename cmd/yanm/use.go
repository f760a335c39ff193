package main

import (
	"github.com/spf13/cobra"
)

func (a *app) useCmd() *cobra.Command {
	var makeDefault bool
	cmd := &cobra.Command{
		Use:   "use [version]",
		Short: "Switch to an installed Node.js version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			res, err := m.Use(cmd.Context(), firstArg(args), makeDefault)
			if err != nil {
				return err
			}

			if res.AlreadyActive {
				a.printf("Already using Node.js v%s", res.Version)
			} else {
				a.printf("Now using Node.js v%s", res.Version)
			}
			if res.Default {
				a.printf("Default alias set to %s", res.Version)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Also set as default alias")
	return cmd
}
