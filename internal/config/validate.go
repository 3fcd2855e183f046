package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/jeamick/ares-visual-sub001/internal/jsattr"
	"github.com/jeamick/ares-visual-sub001/internal/output"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.OutputFormat != "" {
		if _, err := output.GetFormatter(cfg.OutputFormat); err != nil {
			errs = append(errs, fmt.Sprintf("output_format: %v", err))
		}
	}

	for i, dir := range cfg.AdapterDirs {
		info, err := os.Stat(dir)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("adapter_dirs[%d]: %v", i, err))
		case !info.IsDir():
			errs = append(errs, fmt.Sprintf("adapter_dirs[%d]: %q is not a directory", i, dir))
		}
	}

	if len(cfg.URLParams) > 0 {
		if _, err := jsattr.Encode(cfg.URLParams); err != nil {
			errs = append(errs, fmt.Sprintf("url_params: %v", err))
		}
	}

	families := make([]string, 0, len(cfg.Libraries))
	for family := range cfg.Libraries {
		families = append(families, family)
	}
	sort.Strings(families)
	for _, family := range families {
		lib := cfg.Libraries[family]
		u, err := url.Parse(lib)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("libraries.%s: %q is not an absolute URL", family, lib))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
