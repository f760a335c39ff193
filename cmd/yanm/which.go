package main

import (
	"github.com/spf13/cobra"

	"github.com/frederic-klein/yanm/internal/manager"
)

func (a *app) whichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "which",
		Short: "Show the version that applies in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			eff, err := m.Which(cmd.Context())
			if err != nil {
				return err
			}

			switch {
			case eff.Source == manager.SourceNone:
				a.printf("No version selected")
			case eff.Err != nil:
				a.printf("%s (from %s %s, unresolved: %v)", eff.Spec, eff.Source, eff.Path, eff.Err)
			case eff.Version == "":
				a.printf("%s (from %s %s, not installed)", eff.Spec, eff.Source, eff.Path)
			case eff.Source == manager.SourceCurrent:
				a.printf("v%s (current)", eff.Version)
			default:
				a.printf("v%s (from %s %s)", eff.Version, eff.Source, eff.Path)
			}
			return nil
		},
	}
}
