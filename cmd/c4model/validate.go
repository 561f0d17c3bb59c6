package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/c4-modeller/engine/internal/validation"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

var validateCmd = &cobra.Command{
	Use:   "validate <model>",
	Short: "Check a model for dangling references, broken parents and complexity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levelFlag, _ := cmd.Flags().GetString("level")
		strict, _ := cmd.Flags().GetBool("strict")
		level, err := diagram.ParseLevel(levelFlag)
		if err != nil {
			return err
		}

		snap, _, err := readModel(cmd, args[0])
		if err != nil {
			return err
		}
		ws := validation.Validate(&snap, level, cfg.ComplexityThreshold)
		out := cmd.OutOrStdout()
		if len(ws) == 0 {
			fmt.Fprintln(out, "No issues found.")
			return nil
		}
		printWarnings(out, ws)
		c := result.Count(ws)
		fmt.Fprintf(out, "\n%d error(s), %d warning(s), %d info\n", c.Error, c.Warning, c.Info)
		if strict && c.Error > 0 {
			return errors.New("model has validation errors")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("level", "l", string(diagram.LevelContext), "level whose visible elements count towards complexity")
	_ = validateCmd.RegisterFlagCompletionFunc("level", completeLevels)
	validateCmd.Flags().Int("threshold", 15, "visible element count that triggers a complexity note")
	validateCmd.Flags().Bool("strict", false, "exit non-zero when errors are found")
}

func printWarnings(w io.Writer, ws []result.Warning) {
	for _, warn := range ws {
		var label string
		switch warn.Type {
		case result.SeverityError:
			label = errorStyle.Render("ERROR")
		case result.SeverityWarning:
			label = warningStyle.Render("WARN ")
		default:
			label = infoStyle.Render("INFO ")
		}
		line := label + " " + warn.Message
		if warn.ElementID != "" {
			line += hintStyle.Render(" [" + warn.ElementID + "]")
		}
		fmt.Fprintln(w, line)
		if warn.Suggestion != "" {
			fmt.Fprintln(w, hintStyle.Render("      "+warn.Suggestion))
		}
	}
}
