// Package formatters renders selection results and region listings in the
// supported output formats: csv, json, text and a rendered table.
package formatters

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"spotsieve/pkg/known"
	"spotsieve/pkg/models"
)

const (
	instanceTypeColumn = "Instance Type"
	vCPUColumn         = "vCPU"
	memoryColumn       = "Memory GiB"
	emrColumn          = "EMR"
	savingsColumn      = "Savings over On-Demand"
	interruptionColumn = "Frequency of interruption"
	regionColumn       = "Region"
	osColumn           = "Operating Systems"
)

// SortKey is one column of a sort order, most significant first.
type SortKey struct {
	Column     string
	Descending bool
}

func checkFormat(format string) error {
	switch format {
	case known.FormatCSV, known.FormatJSON, known.FormatText, known.FormatTable:
		return nil
	}

	return errors.Errorf("output format '%s' is not supported", format)
}

// sortAdvice orders records by the given sort keys. The sort is stable, so
// records equal under every key keep their relative order.
func sortAdvice(records []models.Advice, order []SortKey) {
	if len(order) == 0 {
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		for _, key := range order {
			cmp := compareAdvice(records[i], records[j], key.Column)
			if cmp == 0 {
				continue
			}
			if key.Descending {
				return cmp > 0
			}

			return cmp < 0
		}

		return false
	})
}

func compareAdvice(a, b models.Advice, column string) int {
	switch column {
	case "instance_type":
		return strings.Compare(a.InstanceType, b.InstanceType)
	case "vcpus":
		return compareInt(a.VCPUs, b.VCPUs)
	case "mem_gb":
		return compareFloat(a.MemGB, b.MemGB)
	case "emr":
		return compareBool(a.Emr, b.Emr)
	case "savings":
		return compareInt(a.Savings, b.Savings)
	case "interrupts":
		return compareInt(a.InterMax, b.InterMax)
	}

	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case !a && b:
		return -1
	case a && !b:
		return 1
	}

	return 0
}
