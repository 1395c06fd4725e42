package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-shade/engine/interact"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
)

func newMapCommand() *cobra.Command {
	var viewport string

	cmd := &cobra.Command{
		Use:   "map x y [z]",
		Short: "Print the clip-space position of a pixel",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parseViewport(viewport)
			if err != nil {
				return err
			}
			var p mgl32.Vec3
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 32)
				if err != nil {
					return fmt.Errorf("coordinate %d: %w", i, err)
				}
				p[i] = float32(v)
			}
			clip := interact.MapToClip(p, mgl32.Vec4{w, h, 0, 0})
			// adding zero turns -0 into 0
			fmt.Fprintf(cmd.OutOrStdout(), "%g %g %g\n", clip.X()+0, clip.Y()+0, clip.Z()+0)
			return nil
		},
	}
	cmd.Flags().StringVar(&viewport, "viewport", "800x600", "viewport size as WIDTHxHEIGHT")
	return cmd
}

// parseViewport parses a "WIDTHxHEIGHT" size. Both dimensions must be positive.
func parseViewport(s string) (float32, float32, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("viewport %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.ParseFloat(ws, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("viewport width: %w", err)
	}
	h, err := strconv.ParseFloat(hs, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("viewport height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("viewport %q: dimensions must be positive", s)
	}
	return float32(w), float32(h), nil
}
