package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
)

// pipelineRegistry maps pipeline keys to registered pipelines. The zero value is empty
// and ready to use.
type pipelineRegistry struct {
	mu    sync.RWMutex
	byKey map[string]pipeline.Pipeline
}

// register validates and creates every pipeline whose key is not yet taken, stopping at
// the first error. Pipelines before the failing one stay registered.
func (reg *pipelineRegistry) register(pipelines []pipeline.Pipeline, create func(pipeline.Pipeline) error) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.byKey == nil {
		reg.byKey = make(map[string]pipeline.Pipeline)
	}
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, taken := reg.byKey[key]; taken {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("pipeline %q: %w", key, err)
		}
		if err := create(p); err != nil {
			return fmt.Errorf("pipeline %q: %w", key, err)
		}
		reg.byKey[key] = p
		common.Logger().Debug("pipeline registered", "key", key)
	}
	return nil
}

func (reg *pipelineRegistry) get(key string) (pipeline.Pipeline, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	p, ok := reg.byKey[key]
	return p, ok
}

// lookup returns the pipeline under key if it has type want.
func (reg *pipelineRegistry) lookup(key string, want pipeline.PipelineType) (pipeline.Pipeline, error) {
	p, ok := reg.get(key)
	switch {
	case !ok:
		return nil, fmt.Errorf("pipeline %q not registered", key)
	case p.Type() != want:
		return nil, fmt.Errorf("pipeline %q is not a %s pipeline", key, kindName(want))
	}
	return p, nil
}

func kindName(t pipeline.PipelineType) string {
	if t == pipeline.PipelineTypeCompute {
		return "compute"
	}
	return "render"
}
