package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c4-modeller/engine/internal/graphdb"
)

var pushCmd = &cobra.Command{
	Use:   "push <model>",
	Short: "Replace the model's graph in Neo4j",
	Long: `Push writes every element and relationship of a model into Neo4j. Nodes of
an earlier push of the same model name are removed first. Connection settings
come from the neo4j section of the config or C4MODEL_NEO4J_* variables.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateNeo4j(); err != nil {
			return err
		}
		snap, _, err := readModel(cmd, args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		client, err := graphdb.NewClient(ctx, cfg.Graph(), log)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		stats, err := client.Sync(ctx, snap)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d element(s), %d parent link(s) and %d relationship(s).\n",
			stats.Elements, stats.Parents, stats.Relationships)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
