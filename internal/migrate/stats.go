package migrate

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Another0Noob/hearth-import/internal/match"
)

const maxReportedErrors = 10

// Stats summarizes a run. It is informational only.
type Stats struct {
	Items          int // source items listed
	WithImages     int // source items with a primary image
	Processed      int
	Exact          int
	Fuzzy          int
	NoMatch        int
	Compressed     int
	CompressFailed int
	Imported       int
	Errors         []string
}

// Record counts one resolution.
func (s *Stats) Record(m match.Method) {
	switch m {
	case match.MethodExact:
		s.Exact++
	case match.MethodFuzzy:
		s.Fuzzy++
	default:
		s.NoMatch++
	}
}

func (s *Stats) fail(item string, err error) {
	s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", item, err))
}

// Render writes a summary table followed by the first errors.
func (s Stats) Render(w io.Writer) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Count"})
	for _, r := range []struct {
		label string
		n     int
	}{
		{"Items listed", s.Items},
		{"Items with images", s.WithImages},
		{"Items processed", s.Processed},
		{"Exact matches", s.Exact},
		{"Fuzzy matches", s.Fuzzy},
		{"No matches", s.NoMatch},
		{"Images compressed", s.Compressed},
		{"Compression failures", s.CompressFailed},
		{"Images imported", s.Imported},
		{"Errors", len(s.Errors)},
	} {
		tw.AppendRow(table.Row{r.label, strconv.Itoa(r.n)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
		return err
	}

	if len(s.Errors) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nErrors:"); err != nil {
		return err
	}
	for i, e := range s.Errors {
		if i == maxReportedErrors {
			_, err := fmt.Fprintf(w, "  ... and %d more\n", len(s.Errors)-maxReportedErrors)
			return err
		}
		if _, err := fmt.Fprintf(w, "  • %s\n", e); err != nil {
			return err
		}
	}
	return nil
}
