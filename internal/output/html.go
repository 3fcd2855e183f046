// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

func init() {
	RegisterFormatter(NewHTMLFormatter())
}

// HTMLFormatter writes a page as a self-contained HTML document.
type HTMLFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*HTMLFormatter)(nil)

// NewHTMLFormatter returns a new HTMLFormatter.
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

// Name returns the format name.
func (h *HTMLFormatter) Name() string {
	return "html"
}

var (
	htmlTmplOnce sync.Once
	htmlTmpl     *template.Template
)

// markdown renders page descriptions. Raw HTML in the source is dropped.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// htmlData holds all template data for the page.
type htmlData struct {
	Title       string
	Description template.HTML
	GeneratedAt string
	Fingerprint string
	Libraries   []string
	Widgets     []Widget
	Script      template.JS
	OnReady     template.JS
}

// Format writes p as an HTML document to w.
func (h *HTMLFormatter) Format(p *Page, w io.Writer) error {
	htmlTmplOnce.Do(func() {
		htmlTmpl = template.Must(template.New("page").Parse(htmlTemplate))
	})

	data := htmlData{
		Title:       p.Title,
		GeneratedAt: p.timestamp(),
		Fingerprint: p.Fingerprint(),
		Libraries:   p.Libraries,
		Widgets:     p.Widgets,
		Script:      template.JS(p.Script), //nolint:gosec // generated code is embedded verbatim
	}
	if p.Description != "" {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(p.Description), &buf); err != nil {
			return fmt.Errorf("render description: %w", err)
		}
		data.Description = template.HTML(buf.String()) //nolint:gosec // goldmark escapes raw HTML by default
	}
	if p.OnReady != "" {
		data.OnReady = template.JS(p.readyBlock()) //nolint:gosec // generated code is embedded verbatim
	}

	if err := htmlTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute html template: %w", err)
	}
	return nil
}
