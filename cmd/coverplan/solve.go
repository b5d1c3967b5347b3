package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CoverPlan/internal/engine"
	"github.com/piwi3910/CoverPlan/internal/export"
	"github.com/piwi3910/CoverPlan/internal/importer"
	"github.com/piwi3910/CoverPlan/internal/model"
)

const (
	defaultInput  = "strawberries.txt"
	defaultOutput = "optimal_covering.txt"
)

// Values of the solve flags.
var (
	outputPath    string
	maxRectangles int
	formats       []string
	appendOutput  bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [input]",
	Short: "Optimize every field of the input and write the coverings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSolveCmd,
}

func init() {
	addSolveFlags(solveCmd)
	rootCmd.AddCommand(solveCmd)
}

func addSolveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", defaultOutput, "output file; other formats swap its extension")
	cmd.Flags().IntVar(&maxRectangles, "max", 0, "rectangle bound for fields without a bound line (0 = unbounded)")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "output formats: "+strings.Join(export.Formats, ", "))
	cmd.Flags().BoolVar(&appendOutput, "append", false, "append the text report instead of truncating")
}

// solveOptions is everything a solve run needs, resolved from config and flags.
type solveOptions struct {
	Input         string
	Output        string
	MaxRectangles int
	Formats       []string
	Append        bool
}

func runSolveCmd(cmd *cobra.Command, args []string) error {
	opts := solveOptions{
		Input:         inputPath(args),
		Output:        outputPath,
		MaxRectangles: cfg.DefaultMaxRectangles,
		Formats:       cfg.Formats,
		Append:        cfg.AppendOutput,
	}
	if cmd.Flags().Changed("max") {
		opts.MaxRectangles = maxRectangles
	}
	if cmd.Flags().Changed("format") {
		opts.Formats = formats
	}
	if cmd.Flags().Changed("append") {
		opts.Append = appendOutput
	}
	_, err := runSolve(cmd.OutOrStdout(), opts)
	return err
}

// runSolve imports the input, optimizes each field and writes every
// requested format. It returns the files written.
func runSolve(out io.Writer, opts solveOptions) ([]string, error) {
	if opts.MaxRectangles < 0 {
		return nil, fmt.Errorf("--max must not be negative, got %d", opts.MaxRectangles)
	}
	selected, err := resolveFormats(opts.Formats)
	if err != nil {
		return nil, err
	}

	problems, err := loadProblems(out, opts.Input, opts.MaxRectangles)
	if err != nil {
		return nil, err
	}

	batch := newOptimizer().OptimizeAll(opts.Input, problems)
	for _, res := range batch.Results {
		fmt.Fprintf(out, "optimized %d X %d field of %d strawberries in %.3f seconds\n",
			res.Rows, res.Cols, res.Marked, res.Stats.Elapsed.Seconds())
	}

	var written []string
	for _, format := range selected {
		path := export.OutputPath(opts.Output, format)
		files, err := export.Write(format, path, batch, export.Options{AppendText: opts.Append})
		if err != nil {
			return written, err
		}
		written = append(written, files...)
	}

	fmt.Fprintf(out, "Total Cost: %d (%d rectangles in %d fields)\n",
		batch.TotalCost(), batch.TotalRectangles(), len(batch.Results))
	for _, f := range written {
		fmt.Fprintf(out, "wrote %s\n", f)
	}
	return written, nil
}

// resolveFormats validates and deduplicates format names; none means text.
func resolveFormats(names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{export.FormatText}, nil
	}
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		f, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// loadProblems imports the input and prints its warnings.
func loadProblems(out io.Writer, path string, defaultMax int) ([]model.Problem, error) {
	result := importer.Import(path, importer.Options{DefaultMaxRectangles: defaultMax})
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return result.Problems, nil
}

func newOptimizer() *engine.Optimizer {
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)
	opt := engine.New(settings)
	opt.Logger = logger
	return opt
}
