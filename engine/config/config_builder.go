package config

// LoaderOption is a functional option applied to a Load call.
type LoaderOption func(*loader)

// WithEnvLookup replaces os.LookupEnv as the source of environment variables, including DEBUG_CONFIG.
//
// Parameters:
//   - lookup: the EnvLookup to resolve variables with
//
// Returns:
//   - LoaderOption: a function that applies the lookup to a loader
func WithEnvLookup(lookup EnvLookup) LoaderOption {
	return func(l *loader) {
		l.lookup = lookup
	}
}

// WithEnv resolves environment variables from a fixed map.
//
// Parameters:
//   - env: variable names to values
//
// Returns:
//   - LoaderOption: a function that applies the map lookup to a loader
func WithEnv(env map[string]string) LoaderOption {
	return WithEnvLookup(func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	})
}
