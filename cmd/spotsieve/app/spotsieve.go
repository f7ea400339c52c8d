package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"spotsieve/pkg/advisor"
	"spotsieve/pkg/conf"
	"spotsieve/pkg/dataset"
	"spotsieve/pkg/formatters"
	"spotsieve/pkg/instancetype"
	"spotsieve/pkg/known"
	"spotsieve/pkg/models"
	"spotsieve/pkg/options"
)

// NewSpotsieveCommand builds the root command. The root action filters
// spot instances of one region, subcommands list regions and the
// built-in facet catalogs.
func NewSpotsieveCommand(ctx context.Context) *cobra.Command {
	opts := options.NewOptions()
	cmd := &cobra.Command{
		Use:                   "spotsieve",
		Long:                  "filter AWS Spot Advisor data by savings, interruptions and instance type facets",
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		SilenceErrors:         true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.Verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(ctx, opts)
		},
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return options.NewUsageError("%v", err)
	})
	opts.AddGlobalFlags(cmd.PersistentFlags())
	opts.AddFlags(cmd.Flags())
	cmd.AddCommand(newRegionsCommand(ctx, opts))
	cmd.AddCommand(newSeriesCommand())
	cmd.AddCommand(newOptionsCommand())

	return cmd
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return known.ExitCodeOK
	}
	if options.IsUsage(err) {
		return known.ExitCodeUsage
	}

	return known.ExitCodeError
}

func runFilter(ctx context.Context, opts *options.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.Region == "" {
		return options.NewUsageError("required flag '--region' not set")
	}

	data, err := fetchDataset(ctx, opts)
	if err != nil {
		return err
	}
	if !data.HasRegion(opts.Region) {
		return errors.Errorf("region '%s' not found in data", opts.Region)
	}
	if !data.HasOS(opts.Region, opts.OS) {
		return errors.Errorf("OS '%s' is not available in region '%s'", opts.OS, opts.Region)
	}

	criteria, err := opts.Criteria()
	if err != nil {
		return err
	}
	results, err := advisor.Select(data, opts.Region, opts.OS, criteria)
	if err != nil {
		return err
	}

	keys, err := opts.SortKeys()
	if err != nil {
		return err
	}
	writer, err := formatters.NewAdviceWriter(opts.OutputFormat, os.Stdout, keys)
	if err != nil {
		return err
	}

	return writer.Write(results)
}

func newRegionsCommand(ctx context.Context, opts *options.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "list AWS regions and the operating systems available in them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			data, err := fetchDataset(ctx, opts)
			if err != nil {
				return err
			}
			writer, err := formatters.NewRegionWriter(opts.OutputFormat, os.Stdout)
			if err != nil {
				return err
			}

			return writer.Write(advisor.Regions(data))
		},
	}
}

func newSeriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "list the built-in EC2 instance series",
		Run: func(cmd *cobra.Command, args []string) {
			listFacets(os.Stdout, instancetype.Series())
		},
	}
}

func newOptionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "list the built-in EC2 instance options",
		Run: func(cmd *cobra.Command, args []string) {
			listFacets(os.Stdout, instancetype.Options())
		},
	}
}

func listFacets(out io.Writer, facets []instancetype.Facet) {
	for _, facet := range facets {
		fmt.Fprintf(out, "%s: %s\n", facet.Label, facet.Desc)
	}
}

// fetchDataset loads the cache state, synchronizes the dataset and
// persists the updated state.
func fetchDataset(ctx context.Context, opts *options.Options) (*models.AdvisorData, error) {
	if err := os.MkdirAll(opts.DataDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create data directory '%s'", opts.DataDir)
	}
	statePath := filepath.Join(opts.DataDir, known.StateFileName)
	dataPath := filepath.Join(opts.DataDir, known.DatasetFileName)
	hlog.Debugf("state file '%s'", statePath)
	hlog.Debugf("dataset file '%s'", dataPath)

	state, err := conf.LoadState(statePath)
	if err != nil {
		return nil, err
	}
	data, state, err := dataset.NewClient(known.HTTPTimeout).Synchronize(ctx, opts.DatasetURL, dataPath, state)
	if err != nil {
		return nil, err
	}
	if err := conf.SaveState(statePath, state); err != nil {
		return nil, err
	}

	return data, nil
}

// setupLogging maps the -v occurrence count to a hlog severity. Zero
// keeps errors only, every occurrence raises verbosity one step up to
// debug.
func setupLogging(verbose int) {
	hlog.SetOutput(os.Stderr)
	hlog.SetLevel(logLevel(verbose))
}

func logLevel(verbose int) hlog.Level {
	switch {
	case verbose <= 0:
		return hlog.LevelError
	case verbose == 1:
		return hlog.LevelWarn
	case verbose == 2:
		return hlog.LevelInfo
	default:
		return hlog.LevelDebug
	}
}
