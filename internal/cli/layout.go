package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/webring/pkg/layout"
	"github.com/matzehuels/webring/pkg/ring"
)

// layoutCommand creates the layout command for computing settled ring layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output        string
		width, height float64
		settleTimeout int
		flags         directoryFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [directory.toml]",
		Short: "Compute a settled ring layout from a directory",
		Long: `Compute a settled ring layout from a directory.

The layout command loads a ring directory (local file, --url, or --mongo-uri),
runs the force simulation headless until it settles, and writes the resulting
positions as a ring.json snapshot. The snapshot can be exported to SVG or PNG
with the 'export' command, or inspected directly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), flags, args, output, width, height, settleTimeout)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.ring.json)")
	flags.register(cmd)

	// Layout flags
	cmd.Flags().Float64Var(&width, "width", 800, "layout surface width")
	cmd.Flags().Float64Var(&height, "height", 600, "layout surface height")
	cmd.Flags().IntVar(&settleTimeout, "settle-timeout", defaultSettleTimeout, "timeout in seconds for the simulation to settle")

	return cmd
}

// runLayout loads the directory, settles the simulation, and writes output.
func (c *CLI) runLayout(ctx context.Context, flags directoryFlags, args []string, output string, width, height float64, settleTimeout int) error {
	doc, err := c.loadDirectory(ctx, flags, args)
	if err != nil {
		return err
	}
	if len(doc.Sites) == 0 {
		printWarning("Directory has no sites; writing an empty snapshot")
	}

	l := layout.New(doc.Sites, c.layoutOptions(doc, width, height, flags.seed))
	defer l.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Settling %d sites...", len(doc.Sites)))
	spinner.Start()

	settleCtx, cancel := context.WithTimeout(ctx, time.Duration(settleTimeout)*time.Second)
	defer cancel()

	if err := l.RunToSettled(settleCtx); err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("settle layout: %w", err)
	}
	spinner.StopWithSuccess("Layout settled")

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = snapshotPath(args)
	}

	if err := ring.WriteSnapshotFile(l.Ring.TakeSnapshot(), outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printFile(outputPath)
	printStats(l.Ring.NodeCount(), l.Ring.EdgeCount(), false)
	printNewline()
	printNextStep("Export", "webring export "+outputPath)

	return nil
}

// snapshotPath derives the default output path from the input file, or
// falls back to ring.json for remote sources.
func snapshotPath(args []string) string {
	if len(args) == 0 {
		return "ring.json"
	}
	base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	return base + ".ring.json"
}
