package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/c4-modeller/engine/internal/codec"
	"github.com/c4-modeller/engine/internal/config"
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/exchange"
	"github.com/c4-modeller/engine/internal/logger"
)

var (
	exit       = os.Exit
	askOneFunc = survey.AskOne

	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "c4model",
	Short: "Edit, validate and convert C4 architecture models",
	Long: `c4model works with C4 models stored as native JSON or Structurizr JSON.
It converts them to PlantUML, Mermaid, Markdown, HTML and HCL, checks them
for problems, and serves them over HTTP and MCP for interactive editing.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(config.Options{ConfigFile: cfgFile, Flags: cmd.Flags()})
		if err != nil {
			return err
		}
		cfg = c
		log = logger.NewWithLevel(cfg.LogLevel, cmd.ErrOrStderr())
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./c4model.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("store-type", "file", "autosave store (file, sqlite, postgres)")
	rootCmd.PersistentFlags().String("store-dsn", "", "autosave store location or connection string")
}

// readModel loads a native or Structurizr model from path ("-" reads stdin).
func readModel(cmd *cobra.Command, path string) (diagram.Snapshot, string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return diagram.Snapshot{}, "", fmt.Errorf("read model: %w", err)
	}
	snap, format, err := exchange.Import(data)
	if err != nil {
		return diagram.Snapshot{}, "", fmt.Errorf("read model %s: %w", path, err)
	}
	log.Debug("model loaded", "path", path, "format", format, "entities", snap.Len())
	return snap, format, nil
}

// writeOutput writes data to path, or to the command output when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeModel(cmd *cobra.Command, path string, s diagram.Snapshot) error {
	data, err := codec.Serialize(s)
	if err != nil {
		return err
	}
	return writeOutput(cmd, path, data)
}

// confirm asks a yes/no question.
func confirm(msg string, def bool) (bool, error) {
	answer := def
	if err := askOneFunc(&survey.Confirm{Message: msg, Default: def}, &answer); err != nil {
		return false, err
	}
	return answer, nil
}
