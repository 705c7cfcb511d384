package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vectadb.dev/core/ontology"
)

func newSchemaCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect or replace the active schema",
	}
	cmd.AddCommand(newSchemaUploadCmd(state), newSchemaCurrentCmd(state))
	return cmd
}

func newSchemaUploadCmd(state *cliState) *cobra.Command {
	var path string
	var format string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a schema file, subject to version monotonicity",
		RunE: func(_ *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			uploadFormat := ontology.FormatJSON
			if format == "yaml" {
				uploadFormat = ontology.FormatYAML
			}
			return state.core.Upload(raw, uploadFormat)
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "schema file path (required)")
	cmd.Flags().StringVar(&format, "format", "json", "schema file format: json or yaml")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSchemaCurrentCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the active schema as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema := state.core.Current()
			if schema == nil {
				return fmt.Errorf("no schema loaded")
			}
			raw, err := schema.Encode(ontology.FormatJSON)
			if err != nil {
				return err
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return nil
		},
	}
}
