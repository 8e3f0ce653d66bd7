package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LexLubbers/soev.ai/pkg/tools/resultfmt"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const renderWidth = 100

// Centralized style definitions for terminal output.
var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	blockTagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
	sourceStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
)

// Tree-drawing characters for hierarchical display.
const treeCorner = "└ "

// mdRenderer renders markdown to terminal-formatted output.
var mdRenderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(renderWidth),
	)
	if err == nil {
		mdRenderer = r
	}
}

// renderMarkdown converts markdown text to terminal-formatted output.
func renderMarkdown(text string) string {
	if mdRenderer == nil {
		return text
	}
	out, err := mdRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// truncate shortens s to at most n display cells, appending "..." when it
// does not fit. Newlines are replaced with spaces for single-line display.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) <= n {
		return s
	}
	return runewidth.Truncate(s, n, "...")
}

// renderToolLine formats a single tool listing entry.
func renderToolLine(name, description string) string {
	line := sourceStyle.Render(name)
	if description != "" {
		line += "  " + dimStyle.Render(truncate(description, renderWidth-runewidth.StringWidth(name)-2))
	}
	return line
}

// renderOutput formats a tool result for the terminal. String results render
// as markdown; block arrays render block by block with a kind tag.
func renderOutput(out resultfmt.Output) string {
	if !out.IsArray() {
		return renderMarkdown(out.Text)
	}

	var sb strings.Builder
	for i, b := range out.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch b.Kind {
		case resultfmt.BlockImageURL:
			sb.WriteString(blockTagStyle.Render("[image] "))
			sb.WriteString(dimStyle.Render(truncate(b.URL, renderWidth-8)))
		default:
			sb.WriteString(renderMarkdown(b.Text))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderArtifacts formats the extracted side artifacts below the main output.
func renderArtifacts(arts *resultfmt.Artifacts) string {
	var sections []string

	if fs := arts.FileSearch; fs != nil && len(fs.Sources) > 0 {
		var sb strings.Builder
		sb.WriteString(headingStyle.Render("Sources"))
		for _, src := range fs.Sources {
			sb.WriteString("\n" + treeCorner + sourceStyle.Render(sourceLabel(src)))
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (relevance %.2f%s)", src.Relevance, pagesSuffix(src.Pages))))
		}
		sections = append(sections, sb.String())
	}

	if len(arts.UIResources) > 0 {
		var sb strings.Builder
		sb.WriteString(headingStyle.Render("UI resources"))
		for _, res := range arts.UIResources {
			label := res.URI
			if res.Name != "" {
				label += "  " + res.Name
			}
			sb.WriteString("\n" + treeCorner + truncate(label, renderWidth-2))
		}
		sections = append(sections, sb.String())
	}

	if len(arts.Images) > 0 {
		var sb strings.Builder
		sb.WriteString(headingStyle.Render("Images"))
		for _, img := range arts.Images {
			sb.WriteString("\n" + treeCorner + dimStyle.Render(truncate(img.URL, renderWidth-2)))
		}
		sections = append(sections, sb.String())
	}

	return strings.Join(sections, "\n\n")
}

func sourceLabel(src resultfmt.FileSearchSource) string {
	if src.FileName != "" {
		return src.FileName
	}
	return src.FileID
}

func pagesSuffix(pages []int) string {
	if len(pages) == 0 {
		return ""
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return ", pages " + strings.Join(parts, ", ")
}
