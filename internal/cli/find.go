package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
	cio "github.com/cyclefortytwo/iron-cuckatoo/pkg/io"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/pipeline"
)

// searchFlags are the search options shared by find and render.
type searchFlags struct {
	length  int
	order   string
	pop     bool
	format  string
	noCache bool
	refresh bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.length, "length", "l", 0, "cycle length in edges (default from config, 42)")
	cmd.Flags().StringVar(&f.order, "order", "", "root order: insertion or sorted (default from config)")
	cmd.Flags().BoolVar(&f.pop, "pop", false, "drop the closing node after a cycle found through a seen neighbor")
	cmd.Flags().StringVarP(&f.format, "format", "f", cio.FormatAuto, "input format: auto, bin or json")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results but store the new ones")
}

// pipelineOptions fills unset flags from the config.
func (c *CLI) pipelineOptions(f searchFlags) pipeline.Options {
	opts := pipeline.Options{
		Length:          f.length,
		Order:           cycle.Order(f.order),
		PopClosingEntry: f.pop,
		Refresh:         f.refresh,
	}
	if opts.Length == 0 {
		opts.Length = c.Config.CycleLength
	}
	if opts.Order == "" {
		opts.Order = cycle.Order(c.Config.RootOrder)
	}
	return opts
}

type findOptions struct {
	searchFlags
	hex    bool
	json   bool
	output string
}

// findCommand creates the find command.
func (c *CLI) findCommand() *cobra.Command {
	var opts findOptions

	cmd := &cobra.Command{
		Use:   "find <edges-file>...",
		Short: "Find cycles in residual edge files",
		Long: `Find cycles of a fixed length in one or more residual edge files.

An edge file is either a little-endian binary buffer (a two-word header
holding the edge count, then four words per edge: u, v, nonce, reserved)
or a JSON edge list ({"edges": [{"u": 0, "v": 2, "nonce": 5}, ...]}).
Use "-" to read from stdin; http(s) URLs are downloaded.`,
		Example: `  # Search for 42-cycles
  cuckatoo find edges.bin

  # Search several files for 8-cycles, print nonces in hex
  cuckatoo find -l 8 --hex a.bin b.bin

  # Write a JSON report
  cuckatoo find edges.json -o report.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFind(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.hex, "hex", false, "print nonces in hexadecimal")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print a JSON report to stdout")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write a JSON report to this file")

	return cmd
}

func (c *CLI) runFind(ctx context.Context, stdin io.Reader, stdout io.Writer, paths []string, opts findOptions) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	reports := make([]cio.Report, 0, len(paths))
	for _, path := range paths {
		words, err := readEdges(ctx, stdin, path, opts.format)
		if err != nil {
			return err
		}
		res, err := c.search(ctx, runner, path, words, opts.searchFlags)
		if err != nil {
			return err
		}
		if !opts.json {
			printResult(path, res, opts.hex)
		}
		reports = append(reports, report(path, res))
	}

	if opts.json {
		if err := writeReports(stdout, reports); err != nil {
			return err
		}
	}
	if opts.output != "" {
		if err := exportReports(opts.output, reports); err != nil {
			return err
		}
		if !opts.json {
			printFile(opts.output)
		}
	}
	return nil
}

// search runs the pipeline on words with a spinner on stderr.
func (c *CLI) search(ctx context.Context, runner *pipeline.Runner, path string, words []uint32, f searchFlags) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	opts := c.pipelineOptions(f)
	opts.Logger = logger

	msg := fmt.Sprintf("Searching %s for %d-cycles", displayName(path), opts.Length)
	found := 0
	sw := startStopwatch(logger)
	spinner := newSpinner(ctx, os.Stderr, msg+"...")
	opts.OnSolution = func(cycle.Solution) {
		found++
		spinner.SetMessage(fmt.Sprintf("%s (%d found)...", msg, found))
	}
	spinner.Start()
	res, err := runner.Execute(ctx, words, opts)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(path), err)
	}
	sw.done("Search finished",
		"input", displayName(path),
		"edges", res.Stats.EdgeCount,
		"solutions", len(res.Solutions))
	return res, nil
}

// readEdges loads an edge file, a URL, or stdin for "-".
func readEdges(ctx context.Context, stdin io.Reader, path, format string) ([]uint32, error) {
	if cio.IsURL(path) {
		return cio.FetchEdges(ctx, nil, path, format)
	}
	if path == "-" {
		if err := errors.ValidateFormat(format); err != nil {
			return nil, err
		}
		if strings.EqualFold(format, cio.FormatJSON) {
			return cio.ReadEdgesJSON(stdin)
		}
		return cio.ReadWords(stdin)
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	return cio.ImportEdges(path, format)
}

func report(path string, res *pipeline.Result) cio.Report {
	return cio.Report{
		Source:    displayName(path),
		RunID:     res.RunID,
		GraphHash: res.GraphHash,
		Length:    res.Length,
		Nodes:     res.Stats.NodeCount,
		Edges:     res.Stats.EdgeCount,
		Solutions: res.Solutions,
		Stats:     res.Stats.Search,
	}
}

// writeReports prints a single report as an object, several as an array.
func writeReports(w io.Writer, reports []cio.Report) error {
	if len(reports) == 1 {
		return cio.WriteReport(w, reports[0])
	}
	return cio.WriteReports(w, reports)
}

func exportReports(path string, reports []cio.Report) error {
	if len(reports) == 1 {
		return cio.ExportReport(reports[0], path)
	}
	return cio.ExportReports(reports, path)
}

func printResult(path string, res *pipeline.Result, hex bool) {
	noun := "cycles"
	if len(res.Solutions) == 1 {
		noun = "cycle"
	}
	printSuccess("%s: %d %d-%s", displayName(path), len(res.Solutions), res.Length, noun)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheHit)
	for _, sol := range res.Solutions {
		printSolution(formatNonces(sol, hex))
	}
	s := res.Stats.Search
	printDetail("visited %d · explored %d · max depth %d", s.NodesVisited, s.NodesExplored, s.MaxDepth)
	if !res.CacheHit {
		printDetail("build %s · search %s", res.Stats.BuildTime, res.Stats.SearchTime)
	}
}

func formatNonces(sol cycle.Solution, hex bool) string {
	if hex {
		return sol.Hex()
	}
	parts := make([]string, len(sol.Nonces))
	for i, n := range sol.Nonces {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " ")
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	if cio.IsURL(path) {
		if u, err := url.Parse(path); err == nil && u.Path != "" && u.Path != "/" {
			return filepath.Base(u.Path)
		}
		return path
	}
	return filepath.Base(path)
}
