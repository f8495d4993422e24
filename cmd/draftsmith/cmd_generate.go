package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"draftsmith/internal/task"
)

var (
	generateFields []string
	generateRender bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [task]",
	Short: "Generate text for one task and print it",
	Long: `Runs a single task and prints the result.

Fields are given as key=value; a value of @path reads the file at path.

Example:
  draftsmith generate blog -f topic="Go generics" -f keywords=types,constraints
  draftsmith generate summary -f text=@notes.txt
  draftsmith generate email -f reason="medical leave" -f start_date=2024-03-01 -f duration_days=5`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringArrayVarP(&generateFields, "field", "f", nil, "Task field as key=value (repeatable)")
	generateCmd.Flags().BoolVar(&generateRender, "render", false, "Render the result as markdown in the terminal")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	fields, err := parseFields(generateFields)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetRequestTimeout())
	defer cancel()

	orch, err := buildOrchestrator(ctx)
	if err != nil {
		return err
	}
	res, err := orch.Generate(ctx, args[0], fields)
	if err != nil {
		return err
	}

	out := res.Text
	if generateRender {
		if out, err = renderMarkdown(res.Text); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// parseFields turns key=value pairs into task fields. Later pairs win.
func parseFields(pairs []string) (task.Fields, error) {
	fields := make(task.Fields, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid field %q (want key=value)", p)
		}
		if path, isFile := strings.CutPrefix(v, "@"); isFile {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", k, err)
			}
			v = string(data)
		}
		fields[k] = v
	}
	return fields, nil
}

func renderMarkdown(text string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return renderer.Render(text)
}
