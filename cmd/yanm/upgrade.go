package main

import (
	"github.com/spf13/cobra"
)

func (a *app) upgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade [version]",
		Short: "Install and switch to the newest release of a line",
		Long:  "Without a specifier, upgrade the active version to the newest release of its major line.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			res, err := m.Upgrade(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			if res.AlreadyLatest {
				a.printf("Already at latest: Node.js v%s", res.To)
				return nil
			}
			if res.From == "" {
				a.printf("Now using Node.js v%s", res.To)
				return nil
			}
			a.printf("Upgraded Node.js v%s -> v%s", res.From, res.To)
			return nil
		},
	}
}
