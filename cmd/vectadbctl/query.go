package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vectadb.dev/core/graphstore"
	"vectadb.dev/core/query"
)

func newQueryCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run queries against the active core",
	}
	cmd.AddCommand(newQueryHybridCmd(state))
	return cmd
}

func newQueryHybridCmd(state *cliState) *cobra.Command {
	var (
		entityType    string
		queryText     string
		vectorLimit   int
		expandTypes   bool
		startEntityID string
		relationType  string
		direction     string
		maxDepth      int
		graphLimit    int
		strategy      string
	)

	cmd := &cobra.Command{
		Use:   "hybrid",
		Short: "Run a vector search, a graph traversal, or both, merged by the chosen strategy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			combined := query.CombinedQuery{Strategy: query.MergeStrategy(strategy)}

			if entityType != "" || queryText != "" {
				combined.Vector = &query.VectorQuery{
					EntityType:  entityType,
					QueryText:   queryText,
					Limit:       vectorLimit,
					ExpandTypes: expandTypes,
				}
			}
			if startEntityID != "" {
				combined.Graph = &query.GraphQuery{
					StartEntityID: startEntityID,
					RelationType:  relationType,
					Direction:     graphstore.Direction(direction),
					MaxDepth:      maxDepth,
					Limit:         graphLimit,
				}
			}

			resp, err := state.core.Hybrid(cmd.Context(), combined)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if resp.Partial {
				fmt.Fprintln(out, "# partial: a sub-query did not complete")
			}
			for _, result := range resp.Results {
				if result.Score != nil {
					fmt.Fprintf(out, "%s\tscore=%.4f\n", result.Entity.ID, *result.Score)
				} else {
					fmt.Fprintf(out, "%s\n", result.Entity.ID)
				}
			}
			for _, id := range resp.DanglingIDs {
				fmt.Fprintf(out, "# dangling: %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&entityType, "entity-type", "", "entity type id to search (enables the vector sub-query)")
	cmd.Flags().StringVar(&queryText, "text", "", "text to embed and search by similarity")
	cmd.Flags().IntVar(&vectorLimit, "vector-limit", 10, "max vector search results")
	cmd.Flags().BoolVar(&expandTypes, "expand-types", false, "include subtypes of entity-type in the search")
	cmd.Flags().StringVar(&startEntityID, "start", "", "starting entity id (enables the graph sub-query)")
	cmd.Flags().StringVar(&relationType, "relation-type", "", "relation type to traverse; empty means any")
	cmd.Flags().StringVar(&direction, "direction", string(graphstore.DirectionOutgoing), "traversal direction: outgoing, incoming, both")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 2, "max traversal depth")
	cmd.Flags().IntVar(&graphLimit, "graph-limit", 10, "max graph traversal results")
	cmd.Flags().StringVar(&strategy, "strategy", string(query.StrategyRankFusion), "merge strategy: union, intersection, vector_priority, graph_priority, rank_fusion")

	return cmd
}
