package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c4-modeller/engine/internal/codec"
	"github.com/c4-modeller/engine/internal/persist"
)

var autosaveCmd = &cobra.Command{
	Use:   "autosave",
	Short: "Inspect or remove the autosaved model",
}

var autosaveShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Write the autosaved model to stdout or a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		blobs, err := persist.NewBlobStore(cfg.BlobStore())
		if err != nil {
			return err
		}
		defer blobs.Close()

		data, ok, err := blobs.Get(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no autosaved model")
		}
		snap, err := codec.DeserializeString(data)
		if err != nil {
			return err
		}
		return writeModel(cmd, output, snap)
	},
}

var autosaveClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the autosaved model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		blobs, err := persist.NewBlobStore(cfg.BlobStore())
		if err != nil {
			return err
		}
		defer blobs.Close()

		if err := blobs.Remove(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Autosave cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(autosaveCmd)
	autosaveCmd.AddCommand(autosaveShowCmd)
	autosaveCmd.AddCommand(autosaveClearCmd)

	autosaveShowCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}
