package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/graph"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/render"
)

// Diagram formats accepted by render.
const (
	diagramSVG = "svg"
	diagramPNG = "png"
	diagramDOT = "dot"
)

type renderOptions struct {
	searchFlags
	output   string
	diagram  string
	full     bool
	maxEdges int
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <edges-file>",
		Short: "Draw the cycles of an edge file",
		Long: `Search an edge file and draw the cycles it contains with Graphviz.

Cycle edges are labelled with their nonce in hex; dotted edges join a node
to its companion. With --full every other edge is drawn in grey.`,
		Example: `  cuckatoo render -l 8 edges.bin -o cycles.svg
  cuckatoo render edges.bin -o cycles.dot --full`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>.<type>)")
	cmd.Flags().StringVarP(&opts.diagram, "type", "t", "", "diagram type: svg, png or dot (default from --output extension, else svg)")
	cmd.Flags().BoolVar(&opts.full, "full", false, "draw every graph edge behind the cycles")
	cmd.Flags().IntVar(&opts.maxEdges, "max-edges", render.DefaultMaxEdges, "cap on background edges with --full (-1 for none)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOptions) error {
	diagram, output, err := diagramTarget(path, opts.output, opts.diagram)
	if err != nil {
		return err
	}

	words, err := readEdges(ctx, os.Stdin, path, opts.format)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.search(ctx, runner, path, words, opts.searchFlags)
	if err != nil {
		return err
	}
	g, err := graph.Build(words)
	if err != nil {
		return err
	}

	dot, err := render.ToDOT(g, res.Solutions, render.Options{Full: opts.full, MaxEdges: opts.maxEdges})
	if err != nil {
		return err
	}
	data, err := renderDiagram(ctx, dot, diagram)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Drew %d %d-cycles", len(res.Solutions), res.Length)
	printFile(output)
	return nil
}

// diagramTarget resolves the diagram type and output path from the flags.
func diagramTarget(input, output, diagram string) (string, string, error) {
	diagram = strings.ToLower(diagram)
	if diagram == "" {
		diagram = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if diagram != diagramPNG && diagram != diagramDOT {
			diagram = diagramSVG
		}
	}
	switch diagram {
	case diagramSVG, diagramPNG, diagramDOT:
	default:
		return "", "", errors.New(errors.ErrCodeInvalidFormat,
			"unknown diagram type %q (want svg, png or dot)", diagram)
	}
	if output == "" {
		base := strings.TrimSuffix(displayName(input), filepath.Ext(input))
		output = base + "." + diagram
	}
	return diagram, output, nil
}

func renderDiagram(ctx context.Context, dot, diagram string) ([]byte, error) {
	switch diagram {
	case diagramDOT:
		return []byte(dot), nil
	case diagramPNG:
		return render.RenderPNG(ctx, dot)
	default:
		return render.RenderSVG(ctx, dot)
	}
}
