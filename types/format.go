package types

import (
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// FormatHistory renders the last n user/assistant messages as "Speaker: text" lines.
// It returns "None" when there is nothing to render.
func FormatHistory(history []*schema.Message, n int) string {
	lines := make([]string, 0, n)
	for _, m := range LastN(history, n) {
		switch m.Role {
		case schema.User:
			lines = append(lines, "User: "+m.Content)
		case schema.Assistant:
			lines = append(lines, "Assistant: "+m.Content)
		}
	}
	if len(lines) == 0 {
		return "None"
	}
	return strings.Join(lines, "\n")
}

// LastN returns the trailing n non-nil messages of history.
func LastN(history []*schema.Message, n int) []*schema.Message {
	out := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		if m != nil {
			out = append(out, m)
		}
	}
	if n >= 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// SummaryRow is one line of a confirmation summary.
type SummaryRow struct {
	Field string
	Value string
}

// FormatSummaryTable renders rows as a markdown table.
func FormatSummaryTable(rows []SummaryRow) string {
	if len(rows) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Value")
	for _, row := range rows {
		_ = table.Append(row.Field, row.Value)
	}
	_ = table.Render()
	return strings.TrimRight(buf.String(), "\n")
}
