package shader

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/wgsl"
)

// EntryPoint is one entry point reflected from a WGSL module.
type EntryPoint struct {
	Name      string
	Stage     ShaderType
	Workgroup [3]uint32
}

func (s *shader) Validate() error {
	return ValidateSource(s.source)
}

func (s *shader) EntryPoints() ([]EntryPoint, error) {
	return ReflectEntryPoints(s.source)
}

// ValidateSource compiles processed WGSL to SPIR-V with naga and discards the output.
//
// Parameters:
//   - source: WGSL source without annotations
//
// Returns:
//   - error: the compiler error, or nil
func ValidateSource(source string) error {
	if _, err := naga.Compile(source); err != nil {
		return fmt.Errorf("naga compile: %w", err)
	}
	return nil
}

// ReflectEntryPoints lowers WGSL to naga IR and lists its entry points.
//
// Parameters:
//   - source: WGSL source without annotations
//
// Returns:
//   - []EntryPoint: the entry points in declaration order
//   - error: a tokenize, parse or lowering error
func ReflectEntryPoints(source string) ([]EntryPoint, error) {
	tokens, err := wgsl.NewLexer(source).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	ast, err := wgsl.NewParser(tokens).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	module, err := wgsl.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("lower: %w", err)
	}

	out := make([]EntryPoint, 0, len(module.EntryPoints))
	for _, ep := range module.EntryPoints {
		e := EntryPoint{Name: ep.Name}
		switch ep.Stage {
		case ir.StageVertex:
			e.Stage = ShaderTypeVertex
		case ir.StageFragment:
			e.Stage = ShaderTypeFragment
		case ir.StageCompute:
			e.Stage = ShaderTypeCompute
			e.Workgroup = [3]uint32{uint32(ep.Workgroup[0]), uint32(ep.Workgroup[1]), uint32(ep.Workgroup[2])}
		}
		out = append(out, e)
	}
	return out, nil
}
