package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vectadb.dev/core/ontology"
)

func newEntityCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Create, read, update, and delete entities",
	}
	cmd.AddCommand(
		newEntityCreateCmd(state),
		newEntityGetCmd(state),
		newEntityUpdateCmd(state),
		newEntityDeleteCmd(state),
	)
	return cmd
}

func newEntityCreateCmd(state *cliState) *cobra.Command {
	var typeID string
	var propertiesJSON string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an entity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			et, err := state.core.GetType(typeID)
			if err != nil {
				return err
			}
			props, err := parseProperties(et.Properties, propertiesJSON)
			if err != nil {
				return err
			}
			entity, err := state.core.CreateEntity(cmd.Context(), typeID, props)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), entity.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&typeID, "type", "", "entity type id (required)")
	cmd.Flags().StringVar(&propertiesJSON, "properties", "", "properties as a JSON object, e.g. '{\"name\":\"planner\"}'")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newEntityGetCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print an entity by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := state.core.GetEntity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id=%s type=%s properties=%v\n", entity.ID, entity.Type, describeProperties(entity.Properties))
			return nil
		},
	}
}

func newEntityUpdateCmd(state *cliState) *cobra.Command {
	var propertiesJSON string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an entity's properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := state.core.GetEntity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			et, err := state.core.GetType(existing.Type)
			if err != nil {
				return err
			}
			props, err := parseProperties(et.Properties, propertiesJSON)
			if err != nil {
				return err
			}
			_, err = state.core.UpdateEntity(cmd.Context(), args[0], props)
			return err
		},
	}
	cmd.Flags().StringVar(&propertiesJSON, "properties", "", "the entity's full new property set as a JSON object (replaces, not merges)")
	_ = cmd.MarkFlagRequired("properties")
	return cmd
}

func newEntityDeleteCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.core.DeleteEntity(cmd.Context(), args[0])
		},
	}
}

func describeProperties(props map[string]ontology.PropertyValue) map[string]any {
	out := make(map[string]any, len(props))
	for name, v := range props {
		switch v.Kind {
		case ontology.KindString:
			out[name] = v.Str
		case ontology.KindInteger:
			out[name] = v.Int
		case ontology.KindFloat:
			out[name] = v.Flt
		case ontology.KindBoolean:
			out[name] = v.Bool
		case ontology.KindTimestamp:
			out[name] = v.Time
		case ontology.KindObject:
			out[name] = v.Object
		default:
			out[name] = v.List
		}
	}
	return out
}
