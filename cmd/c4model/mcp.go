package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c4-modeller/engine/internal/mcp"
	"github.com/c4-modeller/engine/internal/store"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve a model over MCP on stdio",
	Long: `Mcp starts a Model Context Protocol server on stdin/stdout so an assistant
can add, update and connect elements. --model preloads a file; --save writes
the model back to it when the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		path, _ := cmd.Flags().GetString("model")
		save, _ := cmd.Flags().GetBool("save")

		st := store.New(store.WithLogger(log), store.WithComplexityThreshold(cfg.ComplexityThreshold))
		if path != "" {
			snap, _, err := readModel(cmd, path)
			if err != nil {
				return err
			}
			st.ImportModel(snap)
		}

		if err := mcp.NewServer(st, log).Run(ctx); err != nil {
			return err
		}
		if save && path != "" {
			return writeModel(cmd, path, st.ExportModel())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("model", "m", "", "model file to load")
	mcpCmd.Flags().Bool("save", false, "write the model back to --model on exit")
}
