package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c4-modeller/engine/internal/mcp"
	"github.com/c4-modeller/engine/internal/metrics"
	"github.com/c4-modeller/engine/internal/persist"
	"github.com/c4-modeller/engine/internal/server"
	"github.com/c4-modeller/engine/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the model over HTTP and MCP with autosave",
	Long: `Serve keeps one model in memory and exposes it through the JSON API under
/api, the MCP endpoint on /mcp and Prometheus metrics on /metrics. The model
is saved to the configured store while it changes and once more on shutdown.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Duration("autosave", persist.DefaultInterval, "autosave interval")
	serveCmd.Flags().Bool("restore", false, "restore the autosaved model without asking")
	serveCmd.Flags().Bool("fresh", false, "start with an empty model without asking")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	restore, _ := cmd.Flags().GetBool("restore")
	fresh, _ := cmd.Flags().GetBool("fresh")
	if restore && fresh {
		return errors.New("--restore and --fresh are mutually exclusive")
	}

	st := store.New(store.WithLogger(log), store.WithComplexityThreshold(cfg.ComplexityThreshold))

	blobs, err := persist.NewBlobStore(cfg.BlobStore())
	if err != nil {
		return err
	}
	defer blobs.Close()

	saver := persist.NewAutoSaver(st, blobs, log)
	if !fresh {
		if err := offerRestore(ctx, saver, blobs, restore); err != nil {
			return err
		}
	}

	opts := []server.Option{server.WithLogger(log)}
	if cfg.Server.Metrics {
		m := metrics.New()
		saver.OnSave = m.ObserveAutosave
		snap := st.ExportModel()
		m.ObserveModel(&snap)
		opts = append(opts, server.WithMetrics(m))
	}
	opts = append(opts, server.WithMCP(mcp.NewServer(st, log).HTTPHandler()))
	srv := server.New(st, opts...)

	saved := make(chan error, 1)
	go func() { saved <- saver.Run(ctx, cfg.AutosaveInterval) }()

	serveErr := srv.ListenAndServe(ctx, cfg.Server.Addr)
	stop()
	if err := <-saved; err != nil {
		log.Error("final autosave failed", "error", err)
	}
	return serveErr
}

// offerRestore loads the autosaved model when there is one and the user
// agrees (or force is set).
func offerRestore(ctx context.Context, saver *persist.AutoSaver, blobs persist.BlobStore, force bool) error {
	_, ok, err := blobs.Get(ctx)
	if err != nil {
		return fmt.Errorf("read autosave: %w", err)
	}
	if !ok {
		return nil
	}
	if !force {
		answer, err := confirm("An autosaved model was found. Restore it?", true)
		if err != nil {
			// No terminal to ask on; start empty.
			log.Warn("restore prompt unavailable, starting with an empty model", "error", err)
			return nil
		}
		if !answer {
			return nil
		}
	}
	if _, err := saver.Restore(ctx); err != nil {
		log.Error("restore failed, starting with an empty model", "error", err)
	}
	return nil
}
