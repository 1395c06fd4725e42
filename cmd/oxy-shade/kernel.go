package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/storage"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
)

func newKernelCommand() *cobra.Command {
	var (
		invocations int
		readback    bool
	)

	cmd := &cobra.Command{
		Use:   "kernel",
		Short: "Run the CPU storage kernel and print the records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if invocations < 0 {
				return fmt.Errorf("--invocations must not be negative, got %d", invocations)
			}
			return runKernel(cmd.OutOrStdout(), invocations, readback)
		},
	}
	cmd.Flags().IntVarP(&invocations, "invocations", "n", 1, "number of kernel invocations")
	cmd.Flags().BoolVar(&readback, "readback", false, "apply the per-frame readback scaling after each invocation")
	return cmd
}

// runKernel invokes the kernel once per vertex of the pass-through triangle, cycling
// through its vertices, and prints the final arena.
func runKernel(w io.Writer, invocations int, readback bool) error {
	k := storage.NewKernel(nil)
	triangle := model.ColorTriangle()
	var scaler storage.ReadbackScaler

	var acc float32
	for i := 0; i < invocations; i++ {
		v := triangle[i%len(triangle)]
		_, acc = k.Invoke(mgl32.Vec3(v.Position), mgl32.Vec3(v.Color))
		if readback {
			k.Update(scaler.Scale)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "invocations\t%d\n", k.Runs())
	fmt.Fprintf(tw, "accumulator\t%g\n\n", acc)
	fmt.Fprintln(tw, "#\tposition\tcolor")
	arena := k.Snapshot()
	for i, r := range arena {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, formatVec(r.Position[:]), formatVec(r.Color[:]))
	}
	return tw.Flush()
}

func formatVec(v []float32) string {
	s := "("
	for i, c := range v {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%g", c)
	}
	return s + ")"
}
