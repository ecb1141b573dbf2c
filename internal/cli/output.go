package cli

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table renders rows below header as a bordered text table.
func table(w io.Writer, header []any, rows [][]any) error {
	tw := tablewriter.NewWriter(w)
	tw.Header(cells(header))
	for _, r := range rows {
		if err := tw.Append(cells(r)); err != nil {
			return err
		}
	}
	return tw.Render()
}

func cells(cols []any) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = fmt.Sprint(c)
	}
	return out
}
