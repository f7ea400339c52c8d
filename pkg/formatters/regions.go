package formatters

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"spotsieve/pkg/known"
	"spotsieve/pkg/models"
)

// RegionWriter renders the region listing in one output format. Regions
// are always ordered by name.
type RegionWriter struct {
	format string
	out    io.Writer
}

// NewRegionWriter returns a writer for the given format, or an error when
// the format is not supported.
func NewRegionWriter(format string, out io.Writer) (*RegionWriter, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	return &RegionWriter{format: format, out: out}, nil
}

// Write renders the region listing.
func (w *RegionWriter) Write(results map[string]models.RegionDetail) error {
	records := make([]models.RegionDetail, 0, len(results))
	for _, detail := range results {
		records = append(records, detail)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Region < records[j].Region
	})

	switch w.format {
	case known.FormatCSV:
		return w.writeCSV(records)
	case known.FormatJSON:
		return w.writeJSON(records)
	case known.FormatText:
		return w.writeText(records)
	case known.FormatTable:
		return w.writeTable(records)
	}

	return checkFormat(w.format)
}

func (w *RegionWriter) writeCSV(records []models.RegionDetail) error {
	cw := csv.NewWriter(w.out)
	if err := cw.Write([]string{"region", "operating_systems"}); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for _, detail := range records {
		row := []string{detail.Region, strings.Join(detail.OperatingSystems, ",")}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()

	return errors.Wrap(cw.Error(), "flush csv")
}

func (w *RegionWriter) writeJSON(records []models.RegionDetail) error {
	buf, err := sonic.MarshalIndent(records, "", "    ")
	if err != nil {
		return errors.Wrap(err, "marshal results")
	}
	if _, err := w.out.Write(buf); err != nil {
		return errors.Wrap(err, "write json")
	}

	return nil
}

func (w *RegionWriter) writeText(records []models.RegionDetail) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w.out)

		return errors.Wrap(err, "write text")
	}

	for _, detail := range records {
		_, err := fmt.Fprintf(w.out, "region=%s operating_systems=%s\n",
			detail.Region, strings.Join(detail.OperatingSystems, ","))
		if err != nil {
			return errors.Wrap(err, "write text")
		}
	}

	return nil
}

func (w *RegionWriter) writeTable(records []models.RegionDetail) error {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.AppendHeader(table.Row{regionColumn, osColumn})
	for _, detail := range records {
		t.AppendRow(table.Row{detail.Region, strings.Join(detail.OperatingSystems, ",")})
	}
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = true
	t.Render()

	return nil
}
