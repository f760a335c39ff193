package main

import (
	"github.com/spf13/cobra"

	"github.com/frederic-klein/yanm/internal/listing"
)

func (a *app) listCmd() *cobra.Command {
	var remote, ltsOnly bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed or available Node.js versions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			emitter := listing.NewEmitter(a.stdout, a.styled())

			if !remote {
				versions, err := m.ListInstalled()
				if err != nil {
					return err
				}
				return emitter.EmitInstalled(versions)
			}

			rl, err := m.ListRemote(cmd.Context(), ltsOnly)
			if err != nil {
				return err
			}
			return emitter.EmitRemote(rl.Releases, rl.Installed, rl.Current)
		},
	}
	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "List releases available for download")
	cmd.Flags().BoolVar(&ltsOnly, "lts", false, "Only LTS releases (with --remote)")
	return cmd
}
