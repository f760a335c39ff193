package main

import (
	"github.com/spf13/cobra"
)

func (a *app) installCmd() *cobra.Command {
	var makeDefault bool
	cmd := &cobra.Command{
		Use:   "install [version]",
		Short: "Install a Node.js version",
		Long:  "Install the newest release matching the version specifier. Without a specifier the project file or the default alias decides.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			res, err := m.Install(cmd.Context(), firstArg(args), makeDefault)
			if err != nil {
				return err
			}

			if res.AlreadyInstalled {
				a.printf("Node.js v%s is already installed", res.Version)
			} else {
				a.printf("Installed Node.js v%s", res.Version)
			}
			if res.Default {
				a.printf("Default alias set to %s", res.Version)
			}
			if res.Activated {
				a.printf("Now using Node.js v%s", res.Version)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Set as default alias and activate")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
