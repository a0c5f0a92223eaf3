// cmd/nvt/transform.go
package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shashank3959/NVTabular/pkg/dataset"
	"github.com/shashank3959/NVTabular/pkg/ops"
	"github.com/shashank3959/NVTabular/pkg/workflow"
)

func newTransformCmd() *cobra.Command {
	var src sourceFlags
	var workflowDir, outDir, shuffleName string
	var outKinds []string
	var partRows int
	var seed int64

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply a fitted workflow to a dataset",
		Long: `Transform streams a dataset through a fitted workflow and writes the
result as partitioned CSV files. Chunks are processed one at a time, so
memory stays bounded regardless of dataset size. Every stateful operator
in the bundle must already be fitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			shuffle, err := dataset.ParseShuffleMode(shuffleName)
			if err != nil {
				return err
			}
			overrides, err := parseKinds(outKinds)
			if err != nil {
				return err
			}

			metrics := ops.NewMetrics(logger)
			g, err := workflow.Load(workflowDir,
				workflow.WithLogger(logger),
				workflow.WithMetrics(metrics))
			if err != nil {
				return err
			}

			ds, closeSrc, err := src.open(ctx)
			if err != nil {
				return err
			}
			defer closeSrc()

			writerOpts := []dataset.WriterOption{
				dataset.WithShuffle(shuffle),
				dataset.WithTypeOverrides(overrides),
				dataset.WithRowsPerPartition(partRows),
				dataset.WithWriterLogger(logger),
			}
			if cmd.Flags().Changed("seed") {
				writerOpts = append(writerOpts, dataset.WithSeed(seed))
			}
			writer, err := dataset.NewCSVWriter(outDir, writerOpts...)
			if err != nil {
				return err
			}

			it, err := g.Transform(ctx, ds)
			if err != nil {
				return err
			}
			defer it.Close()

			for {
				chunk, err := it.Next(ctx)
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				if err := writer.WriteChunk(ctx, chunk); err != nil {
					return err
				}
			}
			if err := writer.Close(); err != nil {
				return err
			}

			metrics.LogSummary()
			renderTransformSummary(cmd.OutOrStdout(), writer, metrics)
			return nil
		},
	}

	cmd.Flags().StringVar(&workflowDir, "workflow", "", "fitted workflow bundle directory")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for partitioned CSV files")
	cmd.Flags().StringVar(&shuffleName, "shuffle", "none", "output shuffle mode (none, worker, partition)")
	cmd.Flags().StringSliceVar(&outKinds, "out-kind", nil, "output formatting override as name:kind")
	cmd.Flags().IntVar(&partRows, "partition-rows", 1<<20, "rows per output partition file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed for reproducible output")
	_ = cmd.MarkFlagRequired("workflow")
	_ = cmd.MarkFlagRequired("out")
	src.register(cmd.Flags())
	return cmd
}

func renderTransformSummary(out io.Writer, w *dataset.CSVWriter, m *ops.Metrics) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Transform Summary")
	t.AppendRow(table.Row{"Rows written", w.RowsWritten()})
	t.AppendRow(table.Row{"Partitions", w.Partitions()})
	t.AppendRow(table.Row{"Chunks processed", m.ChunksProcessed()})
	if unknown := m.UnknownCategories(); unknown > 0 {
		t.AppendRow(table.Row{"Unknown categories", unknown})
	}
	t.Render()
}
