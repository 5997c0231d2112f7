// Package markdown derives document structure from assembled Markdown text.
package markdown

import (
	"strings"
)

// TOCEntry is one table-of-contents entry derived from a Markdown heading.
// Line is 1-based.
type TOCEntry struct {
	Level int
	Title string
	Line  int
}

// ExtractTOC scans the Markdown line by line and returns the ordered heading
// entries. A line whose trimmed form starts with '#' is treated as a heading;
// the leading '#' run is the level and the trimmed remainder the title. Empty
// titles are skipped. Headings inside fenced code blocks are not recognized as
// such and will be picked up too; callers accept that limitation.
func ExtractTOC(content string) []TOCEntry {
	var toc []TOCEntry

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}

		level := 0
		for _, ch := range line {
			if ch != '#' {
				break
			}
			level++
		}

		title := strings.TrimSpace(strings.TrimLeft(line, "#"))
		if title == "" {
			continue
		}

		toc = append(toc, TOCEntry{
			Level: level,
			Title: title,
			Line:  i + 1,
		})
	}

	return toc
}

// RenderTOC formats the entries as the body of a table-of-contents document,
// one bullet per heading, indented two spaces per nesting level.
func RenderTOC(entries []TOCEntry) string {
	var b strings.Builder
	b.WriteString("# Table of Contents\n\n")
	for _, e := range entries {
		if indent := e.Level - 1; indent > 0 {
			b.WriteString(strings.Repeat("  ", indent))
		}
		b.WriteString("- ")
		b.WriteString(e.Title)
		b.WriteString("\n")
	}
	return b.String()
}
