// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package docs

import (
	"fmt"
	"io"
	"strings"
)

// Generate writes the catalog reference to w.
func Generate(ref *Reference, w io.Writer) error {
	g := &genWriter{w: w}

	g.printf("# %s\n", ref.Title)
	g.print("\nSteps, output adapters and page mounts available to report definitions.\n")

	// Steps section (auto-generated)
	g.print("\n" + markerStart + "steps -->\n")
	g.print("## Transform steps\n\n")
	g.print("| Step | Signature |\n|------|-----------|\n")
	for _, s := range ref.Steps {
		g.printf("| `%s` | `%s` |\n", s.Name, s.Signature)
	}
	g.printf("\n%d steps. The `order` step ranks records at build time and emits no code.\n", len(ref.Steps))
	g.print(markerEnd + "steps -->\n")

	// Adapters section (auto-generated), grouped by family.
	g.print("\n" + markerStart + "adapters -->\n")
	g.print("## Output adapters\n")
	family := ""
	for _, a := range ref.Adapters {
		if a.Family != family {
			family = a.Family
			g.printf("\n### %s\n\n", family)
			g.print("| Type | Signature |\n|------|-----------|\n")
		}
		typ := a.Type
		if typ == "" {
			typ = "(default)"
		}
		g.printf("| %s | `%s` |\n", typ, a.Signature)
	}
	g.print(markerEnd + "adapters -->\n")

	// Mounts section (auto-generated)
	g.print("\n" + markerStart + "mounts -->\n")
	g.print("## Page mounts\n\n")
	for _, m := range ref.Mounts {
		g.printf("- **%s**", m.Family)
		if len(m.Libraries) > 0 {
			g.printf(": %s", strings.Join(m.Libraries, ", "))
		}
		g.print("\n")
	}
	g.print(markerEnd + "mounts -->\n")

	// Manual section
	g.print("\n## Notes\n\n")
	g.print("<!-- Content outside the generated sections is kept by 'ares docs --update'. -->\n")

	return g.err
}

// genWriter wraps an io.Writer and captures the first write error.
type genWriter struct {
	w   io.Writer
	err error
}

func (g *genWriter) print(s string) {
	if g.err != nil {
		return
	}
	_, g.err = io.WriteString(g.w, s)
}

func (g *genWriter) printf(format string, args ...any) {
	if g.err != nil {
		return
	}
	_, g.err = fmt.Fprintf(g.w, format, args...)
}
