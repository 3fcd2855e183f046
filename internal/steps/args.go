package steps

import (
	"fmt"

	"github.com/jeamick/ares-visual-sub001/internal/jsattr"
)

func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func stringArg(args []any, i int) string {
	if s, ok := arg(args, i).(string); ok {
		return s
	}
	return ""
}

// stringList coerces a string, []string or []any of strings into a slice.
func stringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			out = append(out, fmt.Sprint(x))
		}
		return out
	}
	return nil
}

func stringMap(v any) map[string]string {
	out := make(map[string]string)
	switch t := v.(type) {
	case map[string]string:
		for k, x := range t {
			out[k] = x
		}
	case map[string]any:
		for k, x := range t {
			out[k] = fmt.Sprint(x)
		}
	}
	return out
}

func stringKeys(v any) map[string]bool {
	out := make(map[string]bool)
	switch t := v.(type) {
	case jsattr.Object:
		for _, p := range t {
			out[p.Key] = true
		}
	case map[string]string:
		for k := range t {
			out[k] = true
		}
	case map[string]any:
		for k := range t {
			out[k] = true
		}
	}
	return out
}
