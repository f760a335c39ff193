package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/frederic-klein/yanm/internal/dist"
)

func (a *app) aliasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alias [name] [version]",
		Short: "Show or set version aliases",
		Long:  "With no arguments, list all aliases. With a name, show that alias. With a name and a version, bind the name to the version; \"default\" names the default alias.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}

			if len(args) == 2 {
				if err := m.SetAlias(args[0], args[1]); err != nil {
					return err
				}
				a.printf("%s -> %s", args[0], args[1])
				return nil
			}

			aliases, err := m.Aliases()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				version, ok := aliases[args[0]]
				if !ok {
					return fmt.Errorf("%w: alias %q does not exist", dist.ErrAlias, args[0])
				}
				a.printf("%s -> %s", args[0], version)
				return nil
			}

			if len(aliases) == 0 {
				a.printf("No aliases defined.")
				return nil
			}
			names := make([]string, 0, len(aliases))
			for name := range aliases {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				a.printf("%s -> %s", name, aliases[name])
			}
			return nil
		},
	}
}

func (a *app) unaliasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unalias <name>",
		Short: "Remove an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			if err := m.RemoveAlias(args[0]); err != nil {
				return err
			}
			a.printf("Removed alias %s", args[0])
			return nil
		},
	}
}
