package scrape

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteTable renders the summary as a table, one row per hymn, with the
// found/not-found totals in the footer.
func (s *Summary) WriteTable(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Hymn", "Outcome", "Title"})

	for _, r := range s.Results {
		detail := r.Title
		if r.Err != nil {
			detail = r.Err.Error()
		}
		tw.AppendRow(table.Row{int(r.Number), r.Outcome.String(), detail})
	}

	tw.AppendFooter(table.Row{"", "found", fmt.Sprintf("%d of %d", s.Found(), len(s.Results))})
	tw.Render()
}
