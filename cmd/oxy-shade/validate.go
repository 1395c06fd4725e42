package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Compile every built-in shader with naga and list its entry points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipelines, err := presetPipelines()
			if err != nil {
				return err
			}
			return validatePipelines(cmd.OutOrStdout(), pipelines)
		},
	}
}

// presetPipelines builds every pipeline preset.
func presetPipelines() ([]pipeline.Pipeline, error) {
	var out []pipeline.Pipeline
	for _, build := range []func() (pipeline.Pipeline, error){
		pipeline.Interactive,
		pipeline.Model,
		pipeline.Simple,
		pipeline.Texture,
	} {
		p, err := build()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	storage, err := pipeline.Storage()
	if err != nil {
		return nil, err
	}
	return append(out, storage...), nil
}

// validatePipelines compiles each pipeline's shaders and prints one row per entry point.
// All shaders are checked before the joined failures are returned.
func validatePipelines(w io.Writer, pipelines []pipeline.Pipeline) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PIPELINE\tSHADER\tSTAGE\tENTRY POINT\tSTATUS")

	var errs []error
	for _, p := range pipelines {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, st := range []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment, shader.ShaderTypeCompute} {
			s := p.Shader(st)
			if s == nil {
				continue
			}
			status := "ok"
			if err := s.Validate(); err != nil {
				status = "FAIL"
				errs = append(errs, fmt.Errorf("%s/%s: %w", p.PipelineKey(), s.Key(), err))
			}
			eps, err := s.EntryPoints()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s/%s: %w", p.PipelineKey(), s.Key(), err))
				continue
			}
			for _, ep := range eps {
				if ep.Name != s.EntryPoint() {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.PipelineKey(), s.Key(), ep.Stage, ep.Name, status)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(errs) > 0 {
		common.Logger().Error("shader validation failed", "failures", len(errs))
	}
	return errors.Join(errs...)
}
