// Package config handles .ares.yaml configuration files.
package config

// Config represents the contents of a .ares.yaml file.
type Config struct {
	OutputFormat string            `yaml:"output_format,omitempty"`
	Title        string            `yaml:"title,omitempty"`
	Debug        bool              `yaml:"debug,omitempty"`
	Polyfills    *bool             `yaml:"polyfills,omitempty"`
	AdapterDirs  []string          `yaml:"adapter_dirs,omitempty"`
	URLParams    map[string]any    `yaml:"url_params,omitempty"`
	Libraries    map[string]string `yaml:"libraries,omitempty"`
}

// FileName is the expected config file name in a project root.
const FileName = ".ares.yaml"

// DefaultOutputFormat is used when neither flags nor config choose a format.
const DefaultOutputFormat = "html"

// PolyfillsEnabled reports whether framework polyfills should be emitted.
// They are on unless explicitly disabled.
func (c *Config) PolyfillsEnabled() bool {
	return c.Polyfills == nil || *c.Polyfills
}
