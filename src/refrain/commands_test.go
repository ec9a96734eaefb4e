package refrain_test

import (
	"github.com/kalexmills/refrain/src/analysis"
	"github.com/kalexmills/refrain/src/refrain"
	"github.com/kalexmills/refrain/src/refrain/db"
	"github.com/stretchr/testify/assert"
	"testing"
)

const prefix = "!refrain"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		content  string
		expected refrain.Command
	}{
		{"!refrain help", refrain.Command{Operation: refrain.OpHelp}},
		{"  !refrain help  ", refrain.Command{Operation: refrain.OpHelp}},
		{"!refrain rhyme time", refrain.Command{Operation: refrain.OpRhyme, Word: "time"}},
		{"!refrain RHYMES time", refrain.Command{Operation: refrain.OpRhyme, Word: "time"}},
		{"!refrain analyze roses are red", refrain.Command{Operation: refrain.OpAnalyze, Body: "roses are red"}},
		{"!refrain analyze\nroses are red\nviolets are blue", refrain.Command{Operation: refrain.OpAnalyze, Body: "roses are red\nviolets are blue"}},
		{"!refrain syllables\n```\nroses are red\n```", refrain.Command{Operation: refrain.OpSyllables, Body: "roses are red"}},
		{"!refrain save My Song\nline one\nline two", refrain.Command{Operation: refrain.OpSave, Title: "My Song", Body: "line one\nline two"}},
		{"!refrain save My Song\n```text\nline one\n\nline two\n```", refrain.Command{Operation: refrain.OpSave, Title: "My Song", Body: "line one\n\nline two"}},
		{"!refrain show My Song", refrain.Command{Operation: refrain.OpShow, Title: "My Song"}},
		{"!refrain list", refrain.Command{Operation: refrain.OpList}},
		{"!refrain section My Song 4 chorus", refrain.Command{Operation: refrain.OpSection, Title: "My Song", Line: 3, SectionType: analysis.Chorus}},
		{"!refrain repeat song 10 prechorus", refrain.Command{Operation: refrain.OpRepeat, Title: "song", Line: 9, SectionType: analysis.PreChorus}},
		{"!refrain feature on <#123> AnalyzeLyrics suggestrhymes", refrain.Command{Operation: refrain.OpFeatureOn, Target: "123", Features: db.ConfigAnalyzeLyrics | db.ConfigSuggestRhymes}},
		{"!refrain feature off global ShowSections", refrain.Command{Operation: refrain.OpFeatureOff, Target: "global", Features: db.ConfigShowSections}},
		{"!refrain feature list global", refrain.Command{Operation: refrain.OpFeatureList, Target: "global"}},
	}
	for _, tt := range tests {
		cmd, ok, err := refrain.ParseCommand(prefix, tt.content)
		assert.True(t, ok, tt.content)
		if assert.NoError(t, err, tt.content) {
			assert.Equal(t, tt.expected, cmd, tt.content)
		}
	}
}

func TestParseCommand_Errors(t *testing.T) {
	tests := []string{
		"!refrain",
		"!refrain dance",
		"!refrain rhyme",
		"!refrain rhyme two words",
		"!refrain analyze",
		"!refrain save My Song",
		"!refrain save\nline one",
		"!refrain show",
		"!refrain section song chorus",
		"!refrain section song 0 chorus",
		"!refrain section song x chorus",
		"!refrain section song 2 hook",
		"!refrain feature",
		"!refrain feature on global",
		"!refrain feature on #general AnalyzeLyrics",
		"!refrain feature on global RhymeEverything",
		"!refrain feature list",
		"!refrain feature toggle global",
	}
	for _, tt := range tests {
		_, ok, err := refrain.ParseCommand(prefix, tt)
		assert.True(t, ok, tt)
		assert.Error(t, err, tt)
	}
}

func TestParseCommand_NotACommand(t *testing.T) {
	tests := []string{
		"",
		"hello there",
		"!refrainer help",
		"help !refrain",
	}
	for _, tt := range tests {
		_, ok, err := refrain.ParseCommand(prefix, tt)
		assert.False(t, ok, tt)
		assert.NoError(t, err, tt)
	}
}

func TestOperation_IsAdmin(t *testing.T) {
	assert.True(t, refrain.OpFeatureOn.IsAdmin())
	assert.True(t, refrain.OpFeatureList.IsAdmin())
	assert.False(t, refrain.OpSave.IsAdmin())
	assert.False(t, refrain.OpHelp.IsAdmin())
}

func TestCommand_MentionTarget(t *testing.T) {
	assert.Equal(t, "global", refrain.Command{Target: "global"}.MentionTarget())
	assert.Equal(t, "<#123>", refrain.Command{Target: "123"}.MentionTarget())
}

func TestHelpText(t *testing.T) {
	help := refrain.HelpText("!song", false)
	assert.Contains(t, help, "`!song rhyme [word]`")
	assert.NotContains(t, help, "~~~")
	assert.NotContains(t, help, "feature on")

	assert.Contains(t, refrain.HelpText("!song", true), "`!song feature on [target] [feature feature...]`")
}
