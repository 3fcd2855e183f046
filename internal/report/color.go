// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"

	"github.com/fatih/color"
)

// Shared color printers for listings and build summaries.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorCyan   = color.New(color.FgCyan)
	colorBold   = color.New(color.Bold)
)

// ColorStatus colors build status labels.
func ColorStatus(val string) string {
	switch val {
	case "failed":
		return colorRed.Sprint(val)
	case "skipped":
		return colorYellow.Sprint(val)
	case "ok":
		return colorGreen.Sprint(val)
	default:
		return val
	}
}

// ColorOrigin colors where a catalog entry came from: built in or loaded
// from an adapter pack.
func ColorOrigin(val string) string {
	if val == "builtin" {
		return val
	}
	return colorCyan.Sprint(val)
}

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}

// ColorCount colors a count: 0 is yellow, >0 is green.
func ColorCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if n == 0 {
		return colorYellow.Sprint(s)
	}
	return colorGreen.Sprint(s)
}
