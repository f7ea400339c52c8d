package formatters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"

	"spotsieve/pkg/known"
	"spotsieve/pkg/models"
)

// AdviceWriter renders advice records in one output format, sorted by a
// user supplied sort order.
type AdviceWriter struct {
	format string
	out    io.Writer
	order  []SortKey
}

// NewAdviceWriter returns a writer for the given format, or an error when
// the format is not supported.
func NewAdviceWriter(format string, out io.Writer, order []SortKey) (*AdviceWriter, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	return &AdviceWriter{format: format, out: out, order: order}, nil
}

// Write renders the results. The map is flattened into a slice and sorted
// before rendering, so every format sees the same order.
func (w *AdviceWriter) Write(results map[string]models.Advice) error {
	records := make([]models.Advice, 0, len(results))
	for _, advice := range results {
		records = append(records, advice)
	}
	sortAdvice(records, w.order)

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

func (w *AdviceWriter) writeCSV(records []models.Advice) error {
	cw := csv.NewWriter(w.out)
	header := []string{"instance_type", "vcpus", "mem_gb", "emr", "savings", "interrupts"}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for _, advice := range records {
		row := []string{
			advice.InstanceType,
			strconv.Itoa(advice.VCPUs),
			strconv.FormatFloat(advice.MemGB, 'f', -1, 64),
			strconv.FormatBool(advice.Emr),
			strconv.Itoa(advice.Savings),
			advice.InterLabel,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()

	return errors.Wrap(cw.Error(), "flush csv")
}

func (w *AdviceWriter) writeJSON(records []models.Advice) error {
	buf, err := sonic.MarshalIndent(records, "", "    ")
	if err != nil {
		return errors.Wrap(err, "marshal results")
	}
	if _, err := w.out.Write(buf); err != nil {
		return errors.Wrap(err, "write json")
	}

	return nil
}

func (w *AdviceWriter) writeText(records []models.Advice) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w.out)

		return errors.Wrap(err, "write text")
	}

	for _, advice := range records {
		_, err := fmt.Fprintf(w.out, "instance_type=%s vcpus=%d mem_gb=%.1f savings=%d%% interrupts=%s\n",
			advice.InstanceType, advice.VCPUs, advice.MemGB, advice.Savings, advice.InterLabel)
		if err != nil {
			return errors.Wrap(err, "write text")
		}
	}

	return nil
}

func (w *AdviceWriter) writeTable(records []models.Advice) error {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.AppendHeader(table.Row{instanceTypeColumn, vCPUColumn, memoryColumn, emrColumn, savingsColumn, interruptionColumn})
	for _, advice := range records {
		t.AppendRow(table.Row{advice.InstanceType, advice.VCPUs, advice.MemGB, advice.Emr, advice.Savings, advice.InterLabel})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{
			Name:        savingsColumn,
			Transformer: text.NewNumberTransformer("%d%%"),
		},
	})
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = true
	t.Render()

	return nil
}
