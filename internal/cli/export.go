package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/webring/pkg/errors"
	"github.com/matzehuels/webring/pkg/render"
	"github.com/matzehuels/webring/pkg/ring"
)

// exportCommand creates the export command for rendering snapshots to images.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output    string
		format    string
		highlight []string
		detailed  bool
	)

	cmd := &cobra.Command{
		Use:   "export [ring.json]",
		Short: "Render a ring snapshot to SVG or PNG",
		Long: `Render a ring snapshot to SVG or PNG.

The export command takes a ring.json snapshot (produced by 'layout') and draws
it with Graphviz, keeping the simulated positions. Sites named with --highlight
are filled with the accent color.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], output, format, highlight, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), png")
	cmd.Flags().StringSliceVar(&highlight, "highlight", nil, "site names to fill with the accent color")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include group and year in labels")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, output, format string, highlight []string, detailed bool) error {
	snap, err := ring.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	dot := render.ToDOT(snap, render.Options{
		Highlight: highlight,
		Detailed:  detailed,
	})

	var data []byte
	switch format {
	case "svg":
		data, err = render.RenderSVG(ctx, dot)
	case "png":
		data, err = render.RenderPNG(ctx, dot)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q (want svg or png)", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "." + format
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Exported %s", format)
	printFile(outputPath)
	printStats(len(snap.Nodes), len(snap.Edges), false)

	return nil
}
