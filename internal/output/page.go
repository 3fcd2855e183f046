// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"time"

	"github.com/zeebo/xxh3"
)

// Widget is one rendered container on the page.
type Widget struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Family string `json:"family"`
	Type   string `json:"type,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Page is a compiled report: the global script produced by the globals
// registry, the per-widget code run once the document is ready, and the
// containers and libraries the code needs.
type Page struct {
	Title       string
	Description string // Markdown
	GeneratedAt time.Time
	Widgets     []Widget
	Libraries   []string

	// Script is the rendered globals registry.
	Script string

	// OnReady is run after the DOM is loaded.
	OnReady string

	// Vars and Functions list what the globals registry declared.
	Vars      []string
	Functions []string
}

// Fingerprint returns a stable hash of the page's content. The generation
// time is not part of it.
func (p *Page) Fingerprint() string {
	h := xxh3.New()
	_, _ = h.WriteString(p.Script)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(p.OnReady)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(p.Title)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(p.Description)
	for _, w := range p.Widgets {
		_, _ = fmt.Fprintf(h, "\x00%s\x1f%s\x1f%s\x1f%s\x1f%d", w.ID, w.Title, w.Family, w.Type, w.Height)
	}
	for _, lib := range p.Libraries {
		_, _ = h.WriteString("\x00" + lib)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// readyBlock wraps the page's OnReady code in a DOMContentLoaded handler.
func (p *Page) readyBlock() string {
	return "document.addEventListener(\"DOMContentLoaded\", function() {\n" + p.OnReady + "});\n"
}

func (p *Page) timestamp() string {
	if p.GeneratedAt.IsZero() {
		return ""
	}
	return p.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")
}
