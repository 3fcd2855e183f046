// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
)

func init() {
	RegisterFormatter(NewJSFormatter())
}

// JSFormatter writes only the page's JavaScript, for embedding into an
// existing HTML template.
type JSFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*JSFormatter)(nil)

// NewJSFormatter returns a new JSFormatter.
func NewJSFormatter() *JSFormatter {
	return &JSFormatter{}
}

// Name returns the format name.
func (f *JSFormatter) Name() string {
	return "js"
}

// Format writes the global script followed by the ready handler.
func (f *JSFormatter) Format(p *Page, w io.Writer) error {
	if _, err := io.WriteString(w, p.Script); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	if p.OnReady == "" {
		return nil
	}
	if _, err := io.WriteString(w, p.readyBlock()); err != nil {
		return fmt.Errorf("write ready block: %w", err)
	}
	return nil
}
