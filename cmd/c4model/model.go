package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/hierarchy"
	"github.com/c4-modeller/engine/internal/store"
	"github.com/c4-modeller/engine/internal/templates"
)

var viewCmd = &cobra.Command{
	Use:   "view <model>",
	Short: "List the elements visible at a level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levelFlag, _ := cmd.Flags().GetString("level")
		level, err := diagram.ParseLevel(levelFlag)
		if err != nil {
			return err
		}
		snap, _, err := readModel(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		visible := snap.Visible(level)
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s (%s level)", snap.Metadata.Name, level)))
		if len(visible) == 0 {
			fmt.Fprintln(out, "No visible elements.")
			return nil
		}
		shown := make(map[string]bool, len(visible))
		for _, e := range visible {
			shown[e.ID] = true
			fmt.Fprintf(out, "  %-15s %-28s %s\n", e.Type, e.ID, e.Name)
		}

		var rels []diagram.Relationship
		for _, r := range snap.Relationships {
			if shown[r.From] && shown[r.To] {
				rels = append(rels, r)
			}
		}
		if len(rels) > 0 {
			fmt.Fprintln(out)
			for _, r := range rels {
				from, to := snap.EntityByID(r.From), snap.EntityByID(r.To)
				fmt.Fprintf(out, "  %s -> %s", from.Name, to.Name)
				if r.Description != "" {
					fmt.Fprintf(out, ": %s", r.Description)
				}
				fmt.Fprintln(out)
			}
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <model> <id>",
	Short: "Show one element with its parent and relationships",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, _, err := readModel(cmd, args[0])
		if err != nil {
			return err
		}
		id := args[1]
		e := snap.EntityByID(id)
		if e == nil {
			return fmt.Errorf("element %q: %w", id, diagram.ErrNotFound)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headerStyle.Render(e.Name))
		fmt.Fprintf(out, "  %-12s %s\n", "id", e.ID)
		fmt.Fprintf(out, "  %-12s %s\n", "type", e.Type)
		if e.Description != "" {
			fmt.Fprintf(out, "  %-12s %s\n", "description", e.Description)
		}
		if e.Technology != "" {
			fmt.Fprintf(out, "  %-12s %s\n", "technology", e.Technology)
		}
		if len(e.Tags) > 0 {
			fmt.Fprintf(out, "  %-12s %s\n", "tags", strings.Join(e.Tags, ", "))
		}
		if parent := hierarchy.Build(&snap).ParentOf(id); parent != "" {
			fmt.Fprintf(out, "  %-12s %s\n", "parent", label(&snap, parent))
		}

		for _, r := range snap.RelationshipsFrom(id) {
			fmt.Fprintf(out, "  -> %s%s\n", label(&snap, r.To), relText(r))
		}
		for _, r := range snap.RelationshipsTo(id) {
			fmt.Fprintf(out, "  <- %s%s\n", label(&snap, r.From), relText(r))
		}
		return nil
	},
}

// label names an element by its display name, falling back to the id.
func label(s *diagram.Snapshot, id string) string {
	if e := s.EntityByID(id); e != nil {
		return e.Name + " (" + id + ")"
	}
	return id
}

func relText(r diagram.Relationship) string {
	if r.Description == "" {
		return ""
	}
	return ": " + r.Description
}

// completeLevels offers the level names for shell completion.
func completeLevels(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, l := range diagram.Levels() {
		if strings.HasPrefix(string(l), toComplete) {
			out = append(out, string(l))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

var levelCmd = &cobra.Command{
	Use:   "level <model> <level>",
	Short: "Switch the model to a level, optionally starting from an empty canvas",
	Long: `Level sets the abstraction level the model is viewed at. When the model has
elements you are asked whether to clear them first; --yes clears without
asking. A cleared model keeps its metadata and is written back to the file.`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 1 {
			return completeLevels(cmd, args, toComplete)
		}
		return nil, cobra.ShellCompDirectiveDefault
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		level, err := diagram.ParseLevel(args[1])
		if err != nil {
			return err
		}
		snap, format, err := readModel(cmd, args[0])
		if err != nil {
			return err
		}

		st := store.New(store.WithLogger(log), store.WithComplexityThreshold(cfg.ComplexityThreshold))
		st.ImportModel(snap)
		if err := st.SetCurrentLevel(level); err != nil {
			return err
		}

		wipe := yes
		if !wipe && snap.Len() > 0 {
			wipe, err = confirm(fmt.Sprintf("Clear all %d elements before switching to the %s level?", snap.Len(), level), false)
			if err != nil {
				return err
			}
		}
		if wipe {
			if format != "json" {
				return fmt.Errorf("cannot write back a %s model; convert it with import first", format)
			}
			st.ClearAll()
			if err := writeModel(cmd, args[0], st.ExportModel()); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Level set to %s: %d visible element(s).\n", level, len(st.VisibleEntities()))
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a model from a starter template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("template")
		output, _ := cmd.Flags().GetString("output")
		name, _ := cmd.Flags().GetString("name")
		force, _ := cmd.Flags().GetBool("force")

		if !templates.Has(key) {
			keys := make([]string, 0)
			for _, info := range templates.Names() {
				keys = append(keys, info.Key)
			}
			return fmt.Errorf("unknown template %q (available: %s)", key, strings.Join(keys, ", "))
		}
		snap := templates.Get(key)
		if strings.TrimSpace(name) != "" {
			snap.Metadata.Name = name
		}

		if output != "" && output != "-" && !force {
			if _, err := os.Stat(output); err == nil {
				overwrite, err := confirm(fmt.Sprintf("%s already exists. Overwrite?", output), false)
				if err != nil {
					return err
				}
				if !overwrite {
					return errors.New("aborted")
				}
			}
		}
		return writeModel(cmd, output, snap)
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the starter templates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, info := range templates.Names() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", info.Key, info.Name)
		}
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(templatesCmd)

	viewCmd.Flags().StringP("level", "l", string(diagram.LevelContext), "level to show")
	_ = viewCmd.RegisterFlagCompletionFunc("level", completeLevels)

	levelCmd.Flags().BoolP("yes", "y", false, "clear the model without asking")

	newCmd.Flags().StringP("template", "t", templates.Empty, "template key (see templates)")
	newCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	newCmd.Flags().String("name", "", "model name")
	newCmd.Flags().Bool("force", false, "overwrite an existing file")
}
