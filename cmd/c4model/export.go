package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/exchange"
)

var exportCmd = &cobra.Command{
	Use:   "export <model>",
	Short: "Convert a model to other formats",
	Long: `Export reads a native or Structurizr JSON model and writes it in one or
more formats. With a single format and no --output the result goes to stdout.
With several formats (or "all") --output names a directory.

Formats: json, structurizr, plantuml, mermaid, markdown, html, hcl.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", exchange.FormatPlantUML, `comma separated formats, or "all"`)
	exportCmd.Flags().StringP("output", "o", "", "output file or directory")
	exportCmd.Flags().StringP("level", "l", string(diagram.LevelContext), "level used for validation")
	_ = exportCmd.RegisterFlagCompletionFunc("level", completeLevels)
	exportCmd.Flags().Bool("strict", false, "fail when the model has validation errors")
	exportCmd.Flags().Int("threshold", 15, "visible element count that triggers a complexity note")
	exportCmd.Flags().Int("parallel", 0, "max formats rendered at once (0 = number of CPUs)")
}

func runExport(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	level, _ := cmd.Flags().GetString("level")
	strict, _ := cmd.Flags().GetBool("strict")
	parallel, _ := cmd.Flags().GetInt("parallel")

	if _, err := diagram.ParseLevel(level); err != nil {
		return err
	}
	names := splitFormats(formatFlag)
	if len(names) == 0 {
		return errors.New("no format given")
	}

	snap, _, err := readModel(cmd, args[0])
	if err != nil {
		return err
	}

	opts := exchange.DefaultOptions()
	opts.Level = level
	opts.Strict = strict
	opts.ComplexityThreshold = cfg.ComplexityThreshold
	opts.MaxParallel = parallel
	res := exchange.Bundle(snap, names, opts)

	if len(res.Warnings) > 0 {
		printWarnings(cmd.ErrOrStderr(), res.Warnings)
	}
	if !res.Success {
		return fmt.Errorf("export failed: %s", strings.Join(res.Errors, "; "))
	}

	if len(res.Files) == 1 && !isDir(output) {
		for name, data := range res.Files {
			log.Info("model exported", "file", name, "output", output)
			return writeOutput(cmd, output, data)
		}
	}

	if output == "" || output == "-" {
		return errors.New("--output directory is required for more than one format")
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	files := make([]string, 0, len(res.Files))
	for name := range res.Files {
		files = append(files, name)
	}
	sort.Strings(files)
	for _, name := range files {
		path := filepath.Join(output, name)
		if err := os.WriteFile(path, res.Files[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	log.Info("model exported", "files", len(files), "output", output)
	return nil
}

// splitFormats expands "all" and splits a comma separated list.
func splitFormats(s string) []string {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return exchange.Names()
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isDir(path string) bool {
	if path == "" || path == "-" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
