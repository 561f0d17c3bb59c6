package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/c4-modeller/engine/internal/exchange"
	"github.com/c4-modeller/engine/internal/generate"
)

var importCmd = &cobra.Command{
	Use:   "import <structurizr.json>",
	Short: "Convert a Structurizr workspace to a native model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read workspace: %w", err)
		}
		snap, err := exchange.ImportAs(data, exchange.FormatStructurizr)
		if err != nil {
			return err
		}
		log.Info("workspace imported", "name", snap.Metadata.Name, "entities", snap.Len(), "relationships", len(snap.Relationships))
		return writeModel(cmd, output, snap)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <model>",
	Short: "Show the model documentation in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		raw, _ := cmd.Flags().GetBool("raw")

		snap, _, err := readModel(cmd, args[0])
		if err != nil {
			return err
		}
		md := generate.Markdown(snap)
		if raw {
			_, err := fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		out, err := renderer.Render(md)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(renderCmd)

	importCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	renderCmd.Flags().Int("width", 80, "word wrap width")
	renderCmd.Flags().Bool("raw", false, "print the Markdown source")
}
