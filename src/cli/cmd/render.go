package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kalexmills/refrain/src/analysis"
)

// renderText draws an analysis for a terminal. Colors are only emitted when w supports them.
func renderText(w io.Writer, a analysis.Analysis) string {
	r := lipgloss.NewRenderer(w)
	gutter := r.NewStyle().Width(3).Align(lipgloss.Right).Foreground(lipgloss.Color("245"))
	annotation := r.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	footer := r.NewStyle().Faint(true)

	shared := sharedGroups(a.RhymeGroups)

	var sb strings.Builder
	for _, line := range a.Lines {
		if t, ok := a.SectionTypes[line.Index]; ok {
			accent, tint := t.Colors()
			badge := r.NewStyle().Bold(true).Padding(0, 1).
				Foreground(lipgloss.Color(tint)).
				Background(lipgloss.Color(accent))
			sb.WriteString(badge.Render(t.Label()))
			sb.WriteByte('\n')
		}

		count := ""
		if n, ok := line.SyllableCount(); ok {
			count = fmt.Sprint(n)
		}
		text := line.Text
		switch {
		case line.Type == analysis.LineAnnotation:
			text = annotation.Render(line.Text)
		case shared[line.Index]:
			group := a.RhymeGroups[line.Index]
			text = highlightEndWord(r, line.Text, analysis.RhymeColor(group.GroupID))
		}
		sb.WriteString(strings.TrimRight(gutter.Render(count)+"  "+text, " "))
		sb.WriteByte('\n')
	}
	sb.WriteString(footer.Render(fmt.Sprintf("%d lines · %d sections · %d syllables",
		len(a.Lines), len(a.SectionStarts), a.TotalSyllables())))
	sb.WriteByte('\n')
	return sb.String()
}

// highlightEndWord colors the last whitespace-separated token of text.
func highlightEndWord(r *lipgloss.Renderer, text, color string) string {
	idx := strings.LastIndexAny(text, " \t")
	style := r.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	return text[:idx+1] + style.Render(text[idx+1:])
}

// sharedGroups reports the lines whose end word appears on more than one line.
func sharedGroups(groups map[int]analysis.RhymeGroup) map[int]bool {
	sizes := make(map[int]int)
	for _, g := range groups {
		sizes[g.GroupID]++
	}
	result := make(map[int]bool)
	for idx, g := range groups {
		result[idx] = sizes[g.GroupID] > 1
	}
	return result
}
