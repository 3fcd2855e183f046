package docs

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// markerStart is the prefix for auto-section start markers.
const markerStart = "<!-- ares:auto:start:"

// markerEnd is the prefix for auto-section end markers.
const markerEnd = "<!-- ares:auto:end:"

// Update regenerates auto-sections in an existing reference while preserving
// manual content, and writes the result to w.
func Update(existingPath string, ref *Reference, w io.Writer) error {
	var freshBuf strings.Builder
	if err := Generate(ref, &freshBuf); err != nil {
		return fmt.Errorf("generate fresh content: %w", err)
	}
	freshSections := parseAutoSections(freshBuf.String())

	existingContent, err := FS.ReadFile(existingPath)
	if err != nil {
		return fmt.Errorf("read existing file: %w", err)
	}

	result := replaceAutoSections(string(existingContent), freshSections)

	_, err = io.WriteString(w, result)
	return err
}

// sectionName returns the auto-section name if line is a marker with the
// given prefix.
func sectionName(line, prefix string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(line, prefix), " -->"), true
}

// parseAutoSections extracts auto-generated sections from content.
// Returns a map of section name -> content (including markers).
func parseAutoSections(content string) map[string]string {
	sections := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(content))

	var currentSection string
	var sectionContent strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if name, ok := sectionName(line, markerStart); ok {
			currentSection = name
			sectionContent.Reset()
			sectionContent.WriteString(line + "\n")
			continue
		}

		if _, ok := sectionName(line, markerEnd); ok && currentSection != "" {
			sectionContent.WriteString(line + "\n")
			sections[currentSection] = sectionContent.String()
			currentSection = ""
			sectionContent.Reset()
			continue
		}

		if currentSection != "" {
			sectionContent.WriteString(line + "\n")
		}
	}

	return sections
}

// replaceAutoSections replaces auto-generated sections in existing content
// with fresh versions, preserving everything else. Sections the existing
// content lacks are appended.
func replaceAutoSections(existing string, freshSections map[string]string) string {
	var result strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(existing))

	var skipSection bool
	used := make(map[string]bool)

	for scanner.Scan() {
		line := scanner.Text()

		if name, ok := sectionName(line, markerStart); ok {
			if fresh, ok := freshSections[name]; ok {
				result.WriteString(fresh)
				used[name] = true
				skipSection = true
				continue
			}
		}

		if _, ok := sectionName(line, markerEnd); ok && skipSection {
			skipSection = false
			continue
		}

		if !skipSection {
			result.WriteString(line + "\n")
		}
	}

	for _, name := range []string{"steps", "adapters", "mounts"} {
		if fresh, ok := freshSections[name]; ok && !used[name] {
			result.WriteString("\n" + fresh)
		}
	}

	return result.String()
}
