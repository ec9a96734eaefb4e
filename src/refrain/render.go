package refrain

import (
	"fmt"
	"github.com/kalexmills/refrain/src/analysis"
	"strings"
)

// maxMessageLength stays under Discord's 2000 character limit with room for a trailing note.
const maxMessageLength = 1900

type RenderOptions struct {
	Title        string
	ShowSections bool
	// MaxLines limits the number of lyric lines shown; zero means no limit.
	MaxLines int
}

// RenderAnalysis draws an analysis as a code block with a syllable gutter and a rhyme letter for every
// line whose end word is shared with another line.
func RenderAnalysis(a analysis.Analysis, opts RenderOptions) string {
	var sb strings.Builder
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("**%s**\n", opts.Title))
	}
	sb.WriteString("```\n")

	letters := rhymeLetters(a.RhymeGroups)
	shown := a.Lines
	if opts.MaxLines > 0 && len(shown) > opts.MaxLines {
		shown = shown[:opts.MaxLines]
	}
	for _, line := range shown {
		if t, ok := a.SectionTypes[line.Index]; ok && opts.ShowSections {
			sb.WriteString(fmt.Sprintf("[%s]\n", t.Label()))
		}
		sb.WriteString(renderLine(line, letters[line.Index]))
		sb.WriteByte('\n')
	}
	sb.WriteString("```")

	var notes []string
	if hidden := len(a.Lines) - len(shown); hidden > 0 {
		notes = append(notes, fmt.Sprintf("%d more lines not shown", hidden))
	}
	notes = append(notes, fmt.Sprintf("%d syllables total", a.TotalSyllables()))
	return truncate(sb.String()) + "\n" + strings.Join(notes, " · ")
}

// RenderSyllables lists the syllable count of every lyric line.
func RenderSyllables(lines []analysis.ParsedLine) string {
	var sb strings.Builder
	sb.WriteString("```\n")
	for _, line := range lines {
		sb.WriteString(renderLine(line, ""))
		sb.WriteByte('\n')
	}
	sb.WriteString("```")
	return truncate(sb.String())
}

func RenderRhymes(word string, rhymes []string) string {
	if len(rhymes) == 0 {
		return fmt.Sprintf("no rhymes found for %s", word)
	}
	return fmt.Sprintf("rhymes for **%s**: %s", word, strings.Join(rhymes, ", "))
}

func RenderSheetList(sheets []LyricSheet) string {
	if len(sheets) == 0 {
		return "no sheets saved yet"
	}
	var sb strings.Builder
	sb.WriteString("saved sheets:")
	for _, sheet := range sheets {
		sb.WriteString(fmt.Sprintf("\n - %s (%s)", sheet.Title, sheet.UpdatedAt.UTC().Format("2006-01-02")))
	}
	return truncate(sb.String())
}

func renderLine(line analysis.ParsedLine, letter string) string {
	gutter := "  "
	if count, ok := line.SyllableCount(); ok {
		gutter = fmt.Sprintf("%2d", count)
	}
	return strings.TrimRight(fmt.Sprintf("%s %-2s %s", gutter, letter, line.Text), " ")
}

// rhymeLetters assigns A, B, C... to the rhyme groups that hold more than one line, in group order.
func rhymeLetters(groups map[int]analysis.RhymeGroup) map[int]string {
	sizes := make(map[int]int)
	maxGroup := -1
	for _, g := range groups {
		sizes[g.GroupID]++
		if g.GroupID > maxGroup {
			maxGroup = g.GroupID
		}
	}
	byGroup := make(map[int]string)
	next := 0
	for id := 0; id <= maxGroup; id++ {
		if sizes[id] > 1 {
			byGroup[id] = rhymeLetter(next)
			next++
		}
	}
	result := make(map[int]string)
	for idx, g := range groups {
		if letter, ok := byGroup[g.GroupID]; ok {
			result[idx] = letter
		}
	}
	return result
}

// rhymeLetter names the n-th rhyme: A..Z, then AA, AB...
func rhymeLetter(n int) string {
	var result []byte
	for n >= 0 {
		result = append([]byte{byte('A' + n%26)}, result...)
		n = n/26 - 1
	}
	return string(result)
}

func truncate(msg string) string {
	if len(msg) <= maxMessageLength {
		return msg
	}
	cut := strings.LastIndexByte(msg[:maxMessageLength], '\n')
	if cut < 0 {
		cut = maxMessageLength
	}
	msg = msg[:cut]
	if strings.Count(msg, "```")%2 == 1 {
		msg += "\n```"
	}
	return msg + "\n(truncated)"
}
