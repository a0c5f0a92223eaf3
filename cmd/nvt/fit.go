// cmd/nvt/fit.go
package main

import (
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shashank3959/NVTabular/pkg/workflow"
)

func newFitCmd() *cobra.Command {
	var src sourceFlags
	var workflowDir, outDir string

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a workflow's statistics on a dataset",
		Long: `Fit loads a workflow bundle, computes the statistics of every stateful
operator over the given dataset, and saves the fitted bundle. The dataset
is read once per fit phase in bounded chunks, so arbitrarily large inputs
fit in constant memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			g, err := workflow.Load(workflowDir,
				workflow.WithLogger(logger),
				workflow.WithWorkers(cfg.WorkerPoolSize))
			if err != nil {
				return err
			}

			ds, closeSrc, err := src.open(ctx)
			if err != nil {
				return err
			}
			defer closeSrc()

			if err := g.Fit(ctx, ds); err != nil {
				return err
			}

			if outDir == "" {
				outDir = workflowDir
			}
			if err := g.Save(outDir); err != nil {
				return err
			}

			renderEmbeddingSizes(cmd.OutOrStdout(), g)
			return nil
		},
	}

	cmd.Flags().StringVar(&workflowDir, "workflow", "", "workflow bundle directory")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for the fitted bundle (defaults to --workflow)")
	_ = cmd.MarkFlagRequired("workflow")
	src.register(cmd.Flags())
	return cmd
}

// renderEmbeddingSizes prints the per-column cardinalities and recommended
// embedding widths of every fitted Categorify node.
func renderEmbeddingSizes(out io.Writer, g *workflow.Graph) {
	sizes := g.EmbeddingSizes()
	if len(sizes) == 0 {
		return
	}

	cols := make([]string, 0, len(sizes))
	for col := range sizes {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Embedding Sizes")
	t.AppendHeader(table.Row{"Column", "Cardinality", "Width"})
	for _, col := range cols {
		size := sizes[col]
		t.AppendRow(table.Row{col, size.Cardinality, size.Width})
	}
	t.Render()
}
