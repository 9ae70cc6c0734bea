package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ethnicityfacts/adapters/tabular"
	"ethnicityfacts/app"
	"ethnicityfacts/internal/config"
	apperrors "ethnicityfacts/internal/errors"
	"ethnicityfacts/internal/ethnicity"
	"ethnicityfacts/internal/metrics"
)

type standardiseOptions struct {
	catalogue       string
	lookup          string
	reference       string
	defaults        []string
	wildcard        string
	ethnicityColumn string
	typeColumn      string
	outDir          string
	format          string
	concurrency     int
}

func newStandardiseCmd() *cobra.Command {
	var opts standardiseOptions

	cmd := &cobra.Command{
		Use:   "standardise [files...]",
		Short: "Append standard ethnicity columns to CSV or XLSX files",
		Long: `Standardise each file against a reference dictionary and write the result
to the output directory as <name>-standardised.<ext>.

Example: ethnicity-cli standardise survey.csv --lookup ethnicity-2011 --out-dir out
         ethnicity-cli standardise survey.xlsx --reference dict.csv --defaults "*,Other,98"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStandardise(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.catalogue, "lookups", "config/lookups.yaml", "Lookup catalogue file")
	f.StringVar(&opts.lookup, "lookup", "", "Lookup name from the catalogue")
	f.StringVar(&opts.reference, "reference", "", "Reference CSV to use instead of the catalogue")
	f.StringSliceVar(&opts.defaults, "defaults", nil, "Values for unmatched rows, one per output column (with --reference)")
	f.StringVar(&opts.wildcard, "wildcard", ethnicity.DefaultWildcard, "Token in defaults replaced by the raw ethnicity (with --reference)")
	f.StringVar(&opts.ethnicityColumn, "ethnicity-column", "", "Name of the ethnicity column")
	f.StringVar(&opts.typeColumn, "type-column", "", "Name of the ethnicity type column")
	f.StringVar(&opts.outDir, "out-dir", "standardised", "Directory for output files")
	f.StringVar(&opts.format, "format", "", "Output format, csv or xlsx (default: same as input)")
	f.IntVar(&opts.concurrency, "concurrency", 4, "Files processed at once")

	return cmd
}

func runStandardise(cmd *cobra.Command, opts standardiseOptions, files []string) error {
	registry, err := buildRegistry(opts)
	if err != nil {
		return err
	}

	var outFormat tabular.Format
	if opts.format != "" {
		if outFormat, err = tabular.ParseFormat(opts.format); err != nil {
			return err
		}
	}

	outputs, err := outputPaths(opts.outDir, files, outFormat)
	if err != nil {
		return err
	}

	svc := app.NewStandardiseService(registry, nil, metrics.New())
	results := make([]*app.StandardiseResult, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	if opts.concurrency > 0 {
		g.SetLimit(opts.concurrency)
	}
	for i, in := range files {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := svc.StandardiseFile(ctx, in, outputs[i], app.StandardiseRequest{
				Lookup:          opts.lookup,
				EthnicityColumn: opts.ethnicityColumn,
				TypeColumn:      opts.typeColumn,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for i, res := range results {
		r := res.Report
		if !r.Applied {
			fmt.Fprintf(w, "%s: no ethnicity column, copied unchanged\n", files[i])
			continue
		}
		fmt.Fprintf(w, "%s: %d rows, %d matched, %d fallback, %d unmatched, %d skipped\n",
			files[i], r.Processed, r.Matched, r.FallbackMatched, r.Unmatched, r.Skipped)
	}
	return nil
}

// buildRegistry loads the catalogue, or a single ad hoc lookup when a
// reference file is given on the command line
func buildRegistry(opts standardiseOptions) (*ethnicity.Registry, error) {
	if opts.reference == "" {
		lookups, err := config.LoadLookups(opts.catalogue)
		if err != nil {
			return nil, err
		}
		return ethnicity.BuildRegistry(lookups, filepath.Dir(opts.catalogue))
	}

	name := opts.lookup
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(opts.reference), filepath.Ext(opts.reference))
	}
	return ethnicity.BuildRegistry([]config.LookupConfig{{
		Name:      name,
		Reference: opts.reference,
		Wildcard:  opts.wildcard,
		Defaults:  opts.defaults,
	}}, ".")
}

// outputPaths maps each input to its output file. Two inputs with the same
// base name would write the same file, so they are rejected up front.
func outputPaths(outDir string, files []string, format tabular.Format) ([]string, error) {
	outputs := make([]string, len(files))
	seen := make(map[string]string, len(files))
	for i, in := range files {
		out, err := outputPath(outDir, in, format)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[out]; dup {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s and %s would both be written to %s", prev, in, out))
		}
		seen[out] = in
		outputs[i] = out
	}
	return outputs, nil
}

func outputPath(outDir, in string, format tabular.Format) (string, error) {
	if format == "" {
		detected, err := tabular.DetectFormat(in)
		if err != nil {
			return "", err
		}
		format = detected
	}
	return filepath.Join(outDir, app.OutputName(in, format)), nil
}
