package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-renderkit/pkg/vars"
)

const maxValueWidth = 80

// newContextCommand prints the fully merged and resolved variable context as
// a table, an inspection aid for debugging layering and special values.
func newContextCommand(flags *renderFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Show the resolved variable context",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := newOrchestrator(flags).Context(cmd.Context(), flags.request())
			if err != nil {
				return err
			}

			flat := vars.Flatten(resolved)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Key", "Value"})
			for _, key := range vars.SortedKeys(flat) {
				t.AppendRow(table.Row{key, displayValue(flat[key])})
			}
			t.Render()
			return nil
		},
	}
}

// displayValue keeps the table readable: first line only, truncated.
func displayValue(value any) string {
	s := fmt.Sprint(value)
	if value == nil {
		s = ""
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimRight(s[:i], "\r") + " ..."
	}
	if len(s) > maxValueWidth {
		s = s[:maxValueWidth] + "..."
	}
	return s
}
