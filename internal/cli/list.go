package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/pal-labs/pal/internal/manifest"
	"github.com/pal-labs/pal/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	listTemplatesDir string
	listJSON         bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Long:  `List the template directories found under <repo root>/templates/.`,
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runList(s, listTemplatesDir, listJSON)
	},
}

func init() {
	listCmd.Flags().StringVar(&listTemplatesDir, "templates-dir", "", "Directory holding templates (default <repo root>/templates)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents an available template for display.
type listEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

var nameStyle = lipgloss.NewStyle().Bold(true)

func runList(s *session, dirFlag string, asJSON bool) error {
	dir := s.templatesDir(dirFlag)
	names, err := scaffold.ListTemplates(s.fs, dir)
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(names))
	for _, name := range names {
		root, err := scaffold.TemplateRootIn(s.fs, dir, name)
		if err != nil {
			continue
		}
		entry := listEntry{Name: name, Path: root}
		m, err := manifest.Load(s.fs, root)
		switch {
		case err != nil:
			entry.Error = err.Error()
		case m != nil:
			entry.Description = m.Description
		}
		entries = append(entries, entry)
	}

	if asJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling template list: %w", err)
		}
		fmt.Fprintln(s.out, string(out))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintf(s.out, "No templates found in %s\n", dir)
		return nil
	}
	printEntries(s.out, entries)
	return nil
}

func printEntries(w io.Writer, entries []listEntry) {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}
	col := lipgloss.NewStyle().Width(width + 2)
	for _, e := range entries {
		detail := e.Description
		if e.Error != "" {
			detail = "invalid manifest: " + e.Error
		}
		fmt.Fprintln(w, col.Render(nameStyle.Render(e.Name))+detail)
	}
}
