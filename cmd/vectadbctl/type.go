package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTypeCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type",
		Short: "Inspect entity types",
	}
	cmd.AddCommand(newTypeExpandCmd(state), newTypeCompatibleCmd(state))
	return cmd
}

func newTypeExpandCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "expand <entity-type-id>",
		Short: "Print the entity type and every descendant subtype",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expanded, err := state.core.Expand(args[0])
			if err != nil {
				return err
			}
			for _, id := range expanded.Expanded {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newTypeCompatibleCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "compatible-relations <source-type> <target-type>",
		Short: "List relation types whose domain/range accept the given source/target types",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rels, err := state.core.CompatibleRelations(args[0], args[1])
			if err != nil {
				return err
			}
			for _, id := range rels {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
