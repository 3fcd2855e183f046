package config

// Merge layers override on top of base. Only non-zero override values win;
// map entries are merged key by key.
func Merge(base, override *Config) *Config {
	merged := *base

	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.Title != "" {
		merged.Title = override.Title
	}
	if override.Debug {
		merged.Debug = true
	}
	if override.Polyfills != nil {
		merged.Polyfills = override.Polyfills
	}
	if len(override.AdapterDirs) > 0 {
		merged.AdapterDirs = append(append([]string(nil), base.AdapterDirs...), override.AdapterDirs...)
	}
	merged.URLParams = mergeMap(base.URLParams, override.URLParams)
	merged.Libraries = mergeMap(base.Libraries, override.Libraries)

	return &merged
}

func mergeMap[V any](base, override map[string]V) map[string]V {
	if len(override) == 0 {
		return base
	}
	out := make(map[string]V, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
