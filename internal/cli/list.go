package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/vk/blocktest/internal/manifest"
)

// PrintManifest renders one table row per declared test, grouped by suite.
func PrintManifest(w io.Writer, m *manifest.Manifest) error {
	table := tablewriter.NewWriter(w)
	table.Header("Suite", "Test", "Correlation ID", "Skip", "Tags")

	for _, s := range m.Suites() {
		for _, t := range s.Tests() {
			skip := "-"
			if t.Skip {
				skip = "yes"
				if t.SkipReason != "" {
					skip = "yes (" + t.SkipReason + ")"
				}
			}
			row := []string{s.Name, t.Name, orDash(t.CorrelationID), skip, orDash(strings.Join(t.Tags, ","))}
			if err := table.Append(row); err != nil {
				return fmt.Errorf("failed to add row for test %q: %w", t.Name, err)
			}
		}
	}
	return table.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
