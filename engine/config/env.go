package config

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvLookup resolves an environment variable. The boolean reports whether it is set.
type EnvLookup func(name string) (string, bool)

// SubstituteEnv replaces ${VAR} and ${VAR:default} references in value.
//
// An unset variable yields its default, or an empty string when no default is given.
// A reference prefixed by a backslash is kept literally without the backslash, and a
// doubled backslash collapses to one before the reference is substituted. A reference
// without a closing brace is copied as is.
//
// Parameters:
//   - value: the string to expand
//   - lookup: resolves variable names
//
// Returns:
//   - string: the expanded string
func SubstituteEnv(value string, lookup EnvLookup) string {
	parts := strings.Split(value, "${")
	acc := parts[0]

	// literal is the unsubstituted text before the next reference
	literal := parts[0]
	for _, part := range parts[1:] {
		switch {
		case strings.HasSuffix(literal, `\\`):
			acc = acc[:len(acc)-1]
		case strings.HasSuffix(literal, `\`):
			acc = acc[:len(acc)-1] + "${" + part
			literal = part
			continue
		}

		ref, tail, ok := strings.Cut(part, "}")
		if !ok {
			acc += "${" + part
			literal = part
			continue
		}
		name, def, _ := strings.Cut(ref, ":")
		if v, set := lookup(name); set {
			acc += v
		} else {
			acc += def
		}
		acc += tail
		literal = tail
	}
	return acc
}

// expandNode substitutes environment references in every string scalar under n. A scalar
// whose value changed is re-tagged as an int, float or bool when the new value reads as one.
func expandNode(n *yaml.Node, lookup EnvLookup) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			expandNode(c, lookup)
		}
	case yaml.MappingNode:
		// keys are left alone
		for i := 1; i < len(n.Content); i += 2 {
			expandNode(n.Content[i], lookup)
		}
	case yaml.ScalarNode:
		if n.ShortTag() != "!!str" {
			return
		}
		v := SubstituteEnv(n.Value, lookup)
		if v == n.Value {
			return
		}
		n.Value = v
		if tag := scalarTag(v); tag != "!!str" {
			n.Tag = tag
			n.Style = 0
		}
	}
}

// scalarTag returns the YAML tag a substituted value should carry.
func scalarTag(v string) string {
	if _, err := strconv.ParseUint(v, 10, 64); err == nil {
		return "!!int"
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return "!!float"
	}
	if v == "true" || v == "false" {
		return "!!bool"
	}
	return "!!str"
}
