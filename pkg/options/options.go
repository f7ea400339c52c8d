// Package options holds the CLI flag set and turns raw flag values into
// selection criteria, sort keys and compiled facet patterns.
package options

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"spotsieve/pkg/filters"
	"spotsieve/pkg/formatters"
	"spotsieve/pkg/instancetype"
	"spotsieve/pkg/known"
)

// UsageError marks command line input the user has to correct. The CLI
// exits with the usage exit code when it sees one.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }

// NewUsageError returns a UsageError with a formatted message.
func NewUsageError(format string, args ...interface{}) *UsageError {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// IsUsage reports whether err is, or wraps, a UsageError.
func IsUsage(err error) bool {
	var uerr *UsageError

	return errors.As(err, &uerr)
}

// Options carries every user tunable of a run.
type Options struct {
	Region       string
	OS           string
	OutputFormat string

	VCPUMin    int
	VCPUMax    int
	MemMin     float64
	MemMax     float64
	EMROnly    bool
	IntersMin  int
	IntersMax  int
	SavingsMin int
	SavingsMax int

	ExcludeMetal bool
	ExcludeVM    bool

	SortOrder string

	ExcludeInstanceSeries      []string
	IncludeInstanceSeries      []string
	ExcludeInstanceGenerations []string
	IncludeInstanceGenerations []string
	ExcludeInstanceOptions     []string
	IncludeInstanceOptions     []string

	DataDir    string
	DatasetURL string
	Verbose    int
}

func NewOptions() *Options {
	return &Options{}
}

// AddFlags registers the filter and selection flags.
func (o *Options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.Region, "region", "", "AWS region")
	flags.StringVar(&o.OS, "os", known.OSLinux, "operating system, Linux or Windows")
	flags.IntVar(&o.VCPUMin, "vcpu-min", -1, "minimum vCPUs")
	flags.IntVar(&o.VCPUMax, "vcpu-max", 65535, "maximum vCPUs")
	flags.Float64Var(&o.MemMin, "mem-min", -1, "minimum memory in GB")
	flags.Float64Var(&o.MemMax, "mem-max", 65535, "maximum memory in GB")
	flags.BoolVar(&o.EMROnly, "emr-only", false, "only instances supported by EMR")
	flags.IntVar(&o.IntersMin, "inters-min", -1, "minimum interruptions in percent")
	flags.IntVar(&o.IntersMax, "inters-max", 101, "maximum interruptions in percent")
	flags.IntVar(&o.SavingsMin, "savings-min", -1, "minimum savings in percent")
	flags.IntVar(&o.SavingsMax, "savings-max", 101, "maximum savings in percent")
	flags.BoolVar(&o.ExcludeMetal, "exclude-metal", false, "exclude bare metal instances")
	flags.BoolVar(&o.ExcludeVM, "exclude-vm", false, "exclude virtual machine instances")
	flags.StringVar(&o.SortOrder, "sort-order", known.DefaultSortOrder,
		"sort results as 'columnA:sort_order,columnB:sort_order,...' with columns "+
			"instance_type, vcpus, mem_gb, emr, savings, interrupts and orders asc or desc")
	flags.StringSliceVar(&o.ExcludeInstanceSeries, "exclude-instance-series", nil, "exclude instances of listed series")
	flags.StringSliceVar(&o.IncludeInstanceSeries, "include-instance-series", nil, "only instances of listed series will be included")
	flags.StringSliceVar(&o.ExcludeInstanceGenerations, "exclude-instance-generations", nil, "exclude listed instance generations")
	flags.StringSliceVar(&o.IncludeInstanceGenerations, "include-instance-generations", nil, "only listed instance generations will be included")
	flags.StringSliceVar(&o.ExcludeInstanceOptions, "exclude-instance-options", nil, "exclude instances with listed options")
	flags.StringSliceVar(&o.IncludeInstanceOptions, "include-instance-options", nil, "only instances with listed options will be included")
}

// AddGlobalFlags registers the flags shared by every command.
func (o *Options) AddGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.OutputFormat, "output-format", known.FormatText,
		"output format, one of csv, json, text or table")
	flags.StringVar(&o.DataDir, "data-dir", filepath.Join(os.TempDir(), known.DataDirName),
		"directory where the dataset and state file are stored")
	flags.StringVar(&o.DatasetURL, "dataset-url", known.SpotAdvisorJSONURL, "URL of the spot advisor dataset")
	flags.CountVarP(&o.Verbose, "verbose", "v", "increase log verbosity, can be passed multiple times")
}

// Validate checks the flag values that have a fixed set of legal inputs.
// Facet selections and the sort order are validated by parsing them.
func (o *Options) Validate() error {
	if o.OS != known.OSLinux && o.OS != known.OSWindows {
		return NewUsageError("operating system '%s' is invalid, valid values are '%s', '%s'",
			o.OS, known.OSLinux, known.OSWindows)
	}
	switch o.OutputFormat {
	case known.FormatCSV, known.FormatJSON, known.FormatText, known.FormatTable:
	default:
		return NewUsageError("output format '%s' is not supported", o.OutputFormat)
	}
	if o.ExcludeMetal && o.ExcludeVM {
		return NewUsageError("--exclude-metal and --exclude-vm are mutually exclusive")
	}
	if _, err := o.SortKeys(); err != nil {
		return err
	}
	if _, err := o.FacetPatterns(); err != nil {
		return err
	}

	return nil
}

// SortKeys parses the sort order flag. A column named twice keeps its
// first position and takes the direction named last.
func (o *Options) SortKeys() ([]formatters.SortKey, error) {
	return ParseSortOrder(o.SortOrder)
}

// FacetPatterns compiles the six facet selection flags.
func (o *Options) FacetPatterns() (filters.FacetPatterns, error) {
	var patterns filters.FacetPatterns
	var err error

	if patterns.ExcludeSeries, err = ParseInstanceSeries(o.ExcludeInstanceSeries); err != nil {
		return filters.FacetPatterns{}, err
	}
	if patterns.IncludeSeries, err = ParseInstanceSeries(o.IncludeInstanceSeries); err != nil {
		return filters.FacetPatterns{}, err
	}
	if patterns.ExcludeGenerations, err = ParseInstanceGenerations(o.ExcludeInstanceGenerations); err != nil {
		return filters.FacetPatterns{}, err
	}
	if patterns.IncludeGenerations, err = ParseInstanceGenerations(o.IncludeInstanceGenerations); err != nil {
		return filters.FacetPatterns{}, err
	}
	if patterns.ExcludeOptions, err = ParseInstanceOptions(o.ExcludeInstanceOptions); err != nil {
		return filters.FacetPatterns{}, err
	}
	if patterns.IncludeOptions, err = ParseInstanceOptions(o.IncludeInstanceOptions); err != nil {
		return filters.FacetPatterns{}, err
	}

	return patterns, nil
}

// Criteria builds the full filter criteria from the flag values.
func (o *Options) Criteria() (filters.Criteria, error) {
	facets, err := o.FacetPatterns()
	if err != nil {
		return filters.Criteria{}, err
	}

	return filters.Criteria{
		SavingsMin:   o.SavingsMin,
		SavingsMax:   o.SavingsMax,
		IntersMin:    o.IntersMin,
		IntersMax:    o.IntersMax,
		VCPUMin:      o.VCPUMin,
		VCPUMax:      o.VCPUMax,
		MemMin:       o.MemMin,
		MemMax:       o.MemMax,
		EMROnly:      o.EMROnly,
		ExcludeMetal: o.ExcludeMetal,
		ExcludeVM:    o.ExcludeVM,
		Facets:       facets,
	}, nil
}

var sortColumns = map[string]bool{
	"instance_type": true,
	"vcpus":         true,
	"mem_gb":        true,
	"emr":           true,
	"savings":       true,
	"interrupts":    true,
}

// ParseSortOrder parses 'column:sort_order' chunks separated by commas
// into sort keys, most significant first.
func ParseSortOrder(input string) ([]formatters.SortKey, error) {
	var keys []formatters.SortKey
	position := make(map[string]int)
	for _, chunk := range strings.Split(input, ",") {
		if !strings.Contains(chunk, ":") {
			return nil, NewUsageError("input format must be 'column:sort_order', not '%s'", chunk)
		}

		split := strings.SplitN(chunk, ":", 2)
		column := strings.ToLower(split[0])
		order := strings.ToLower(split[1])
		if !sortColumns[column] {
			return nil, NewUsageError("column '%s' is invalid, valid columns are "+
				"'instance_type', 'vcpus', 'mem_gb', 'emr', 'savings', 'interrupts'", column)
		}

		var descending bool
		switch order {
		case "asc":
			descending = false
		case "desc":
			descending = true
		default:
			return nil, NewUsageError("sort order '%s' is invalid, valid values are 'asc', 'desc'", order)
		}

		if at, seen := position[column]; seen {
			keys[at].Descending = descending

			continue
		}
		position[column] = len(keys)
		keys = append(keys, formatters.SortKey{Column: column, Descending: descending})
	}

	return keys, nil
}

// ParseInstanceSeries turns series labels into one compiled pattern
// matched against the series facet. Empty input compiles to nil.
func ParseInstanceSeries(values []string) (*regexp.Regexp, error) {
	labels, unknown := splitFacetValues(values, func(label string) bool {
		_, ok := instancetype.FindSeries(label)
		return ok
	})
	if len(unknown) > 0 {
		return nil, NewUsageError("unsupported EC2 instance series '%s'", strings.Join(unknown, ","))
	}
	if len(labels) == 0 {
		return nil, nil
	}

	patterns := make([]string, 0, len(labels))
	for _, label := range labels {
		facet, _ := instancetype.FindSeries(label)
		patterns = append(patterns, facet.Pattern)
	}

	return compileFacetPattern(patterns)
}

// ParseInstanceOptions turns option labels into one compiled pattern
// matched against the options facet. Empty input compiles to nil.
func ParseInstanceOptions(values []string) (*regexp.Regexp, error) {
	labels, unknown := splitFacetValues(values, func(label string) bool {
		_, ok := instancetype.FindOption(label)
		return ok
	})
	if len(unknown) > 0 {
		return nil, NewUsageError("unsupported EC2 instance options '%s'", strings.Join(unknown, ","))
	}
	if len(labels) == 0 {
		return nil, nil
	}

	patterns := make([]string, 0, len(labels))
	for _, label := range labels {
		facet, _ := instancetype.FindOption(label)
		patterns = append(patterns, facet.Pattern)
	}

	return compileFacetPattern(patterns)
}

// ParseInstanceGenerations turns generation numbers into one compiled
// pattern matched against the generation facet. Generations are positive
// integers. Empty input compiles to nil.
func ParseInstanceGenerations(values []string) (*regexp.Regexp, error) {
	generations, unknown := splitFacetValues(values, func(chunk string) bool {
		value, err := strconv.Atoi(chunk)
		return err == nil && value >= 1
	})
	if len(unknown) > 0 {
		return nil, NewUsageError("unsupported EC2 instance generations '%s'", strings.Join(unknown, ","))
	}
	if len(generations) == 0 {
		return nil, nil
	}

	return compileFacetPattern(generations)
}

// splitFacetValues splits comma separated, repeatable flag values into
// distinct lower-cased chunks, partitioned by the valid predicate. Both
// slices come back sorted.
func splitFacetValues(values []string, valid func(string) bool) (ok, bad []string) {
	seenOK := make(map[string]bool)
	seenBad := make(map[string]bool)
	for _, value := range values {
		for _, chunk := range strings.Split(value, ",") {
			chunk = strings.ToLower(chunk)
			if valid(chunk) {
				seenOK[chunk] = true
			} else {
				seenBad[chunk] = true
			}
		}
	}

	for chunk := range seenOK {
		ok = append(ok, chunk)
	}
	for chunk := range seenBad {
		bad = append(bad, chunk)
	}
	sort.Strings(ok)
	sort.Strings(bad)

	return ok, bad
}

// compileFacetPattern joins the sorted patterns into one case-insensitive
// alternation.
func compileFacetPattern(patterns []string) (*regexp.Regexp, error) {
	sorted := append([]string(nil), patterns...)
	sort.Strings(sorted)

	compiled, err := regexp.Compile(`(?i)` + strings.Join(sorted, "|"))
	if err != nil {
		return nil, errors.Wrap(err, "compile facet pattern")
	}

	return compiled, nil
}
