// Package config loads the engine's YAML configuration. String values may reference
// environment variables as ${VAR} or ${VAR:default}; they are expanded before decoding.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"gopkg.in/yaml.v3"
)

// ErrUnknownWorker is returned when the worker field names no known WorkerKind.
var ErrUnknownWorker = errors.New("config: unknown worker")

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid value")

// contextLines is the number of lines shown on each side of a failing line.
const contextLines = 5

// WorkerKind selects the scene worker the engine runs.
type WorkerKind string

const (
	WorkerSimple          WorkerKind = "Simple"
	WorkerCustom          WorkerKind = "Custom"
	WorkerModel           WorkerKind = "Model"
	WorkerRenderTexture   WorkerKind = "RenderTexture"
	WorkerRenderToTexture WorkerKind = "RenderToTexture"
)

// WorkerKinds lists every WorkerKind in declaration order.
var WorkerKinds = []WorkerKind{WorkerSimple, WorkerCustom, WorkerModel, WorkerRenderTexture, WorkerRenderToTexture}

// ParseWorkerKind returns the WorkerKind named s.
//
// Parameters:
//   - s: the worker name, case-sensitive
//
// Returns:
//   - WorkerKind: the kind
//   - error: ErrUnknownWorker wrapped with the name
func ParseWorkerKind(s string) (WorkerKind, error) {
	for _, k := range WorkerKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownWorker, s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *WorkerKind) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseWorkerKind(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*k = parsed
	return nil
}

// Present mode names accepted by the present_mode field.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// EngineConfig is the decoded engine configuration.
type EngineConfig struct {
	// Logger is the log level: debug, info, warn or error. Nil leaves logging to the caller.
	Logger *string `yaml:"logger"`

	Worker WorkerKind `yaml:"worker"`
	Width  uint32     `yaml:"width"`
	Height uint32     `yaml:"height"`
	Title  string     `yaml:"title"`

	// TickRate is the number of scene updates per second.
	TickRate int `yaml:"tick_rate"`

	// FrameLimit caps rendered frames per second, 0 for uncapped.
	FrameLimit int `yaml:"frame_limit"`

	PresentMode string `yaml:"present_mode"`
	MSAA        int    `yaml:"msaa"`

	// Texture is an image file for the RenderTexture and Model workers. Empty uses a checkerboard.
	Texture string `yaml:"texture"`

	Profiling bool `yaml:"profiling"`

	// SoftwareAdapter requests the fallback (CPU) adapter, e.g. lavapipe or SwiftShader.
	SoftwareAdapter bool `yaml:"software_adapter"`

	// ClearColor is the RGB or RGBA background in [0, 1]. Empty keeps the renderer default.
	ClearColor []float64 `yaml:"clear_color"`
}

// Default returns the configuration used for fields a document leaves out.
//
// Returns:
//   - EngineConfig: the defaults
func Default() EngineConfig {
	return EngineConfig{
		Worker:      WorkerSimple,
		Width:       800,
		Height:      600,
		Title:       "oxy-shade",
		TickRate:    60,
		PresentMode: PresentModeVSync,
		MSAA:        4,
	}
}

// Validate checks the ranges of the numeric and enumerated settings.
//
// Returns:
//   - error: ErrInvalid wrapped with the offending field, or nil
func (c EngineConfig) Validate() error {
	switch {
	case c.Width == 0 || c.Height == 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Width, c.Height)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate %d", ErrInvalid, c.TickRate)
	case c.FrameLimit < 0:
		return fmt.Errorf("%w: frame_limit %d", ErrInvalid, c.FrameLimit)
	case c.PresentMode != PresentModeVSync && c.PresentMode != PresentModeUncapped:
		return fmt.Errorf("%w: present_mode %q", ErrInvalid, c.PresentMode)
	}
	switch c.MSAA {
	case 1, 4, 8, 16:
	default:
		return fmt.Errorf("%w: msaa %d", ErrInvalid, c.MSAA)
	}
	if n := len(c.ClearColor); n != 0 && n != 3 && n != 4 {
		return fmt.Errorf("%w: clear_color needs 3 or 4 components, got %d", ErrInvalid, n)
	}
	for _, v := range c.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear_color component %g outside [0, 1]", ErrInvalid, v)
		}
	}
	if c.Logger != nil {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(*c.Logger)); err != nil {
			return fmt.Errorf("%w: logger: %v", ErrInvalid, err)
		}
	}
	return nil
}

// loader holds the options of one Load call.
type loader struct {
	lookup EnvLookup
}

// Load expands environment references in a YAML document and decodes it over Default.
// With DEBUG_CONFIG=1 the processed document is logged at debug level. A decode error
// carries the lines of the processed document around the failing line.
//
// Parameters:
//   - data: the YAML document
//   - opts: LoaderOption functions
//
// Returns:
//   - EngineConfig: the decoded and validated configuration
//   - error: a parse, decode or validation error
func Load(data []byte, opts ...LoaderOption) (EngineConfig, error) {
	l := &loader{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}

	cfg := Default()

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if len(root.Content) == 0 {
		return cfg, cfg.Validate()
	}
	expandNode(&root, l.lookup)

	processed, err := yaml.Marshal(&root)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if v, _ := l.lookup("DEBUG_CONFIG"); v == "1" {
		common.Logger().Debug("processed config", "config", string(processed))
	}

	if err := yaml.Unmarshal(processed, &cfg); err != nil {
		if line := errorLine(err); line > 0 {
			return cfg, fmt.Errorf("config: %w\nrelevant part of the config (set DEBUG_CONFIG=1 to log all of it):\n%s",
				err, excerpt(string(processed), line))
		}
		return cfg, fmt.Errorf("config: %w (set DEBUG_CONFIG=1 to log the processed config)", err)
	}
	return cfg, cfg.Validate()
}

// LoadFile reads and loads the YAML file at path.
//
// Parameters:
//   - path: the config file
//   - opts: LoaderOption functions
//
// Returns:
//   - EngineConfig: the decoded and validated configuration
//   - error: a read, parse, decode or validation error
func LoadFile(path string, opts ...LoaderOption) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}
	return Load(data, opts...)
}

var lineRe = regexp.MustCompile(`line (\d+):`)

// errorLine extracts the first 1-based line number named by a yaml error, or 0.
func errorLine(err error) int {
	m := lineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// excerpt renders the lines of doc within contextLines of line, numbered, with line marked.
func excerpt(doc string, line int) string {
	lines := strings.Split(doc, "\n")
	start := max(line-contextLines, 1)
	end := min(line+contextLines, len(lines))

	var b strings.Builder
	for i := start; i <= end; i++ {
		marker := "  "
		if i == line {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%3d: %s\n", marker, i, lines[i-1])
	}
	return b.String()
}
