// cmd/nvt/show.go
package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shashank3959/NVTabular/pkg/ops"
	"github.com/shashank3959/NVTabular/pkg/workflow"
)

func newShowCmd() *cobra.Command {
	var workflowDir string
	var asDot bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Inspect a workflow bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := workflow.Load(workflowDir, workflow.WithLogger(logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asDot {
				fmt.Fprint(out, g.DOT())
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetTitle("Workflow Nodes")
			t.AppendHeader(table.Row{"ID", "Kind", "Label", "Columns", "Fitted"})
			for _, n := range g.Nodes() {
				t.AppendRow(table.Row{n.ID, n.Kind, n.Label, strings.Join(n.Columns, ", "), n.Fitted})
			}
			t.Render()

			edges := make([]string, 0, len(g.Edges()))
			for _, e := range g.Edges() {
				edges = append(edges, fmt.Sprintf("%s->%s", e.From, e.To))
			}
			fmt.Fprintf(out, "Edges: %s\n", strings.Join(edges, " "))

			renderEmbeddingSizes(out, g)
			return nil
		},
	}

	cmd.Flags().StringVar(&workflowDir, "workflow", "", "workflow bundle directory")
	cmd.Flags().BoolVar(&asDot, "dot", false, "print the graph in Graphviz dot syntax")
	_ = cmd.MarkFlagRequired("workflow")
	return cmd
}

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the registered operators",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range ops.RegisteredOperators() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
