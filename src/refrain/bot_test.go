package refrain_test

import (
	"context"
	"github.com/kalexmills/refrain/src/refrain"
	"github.com/kalexmills/refrain/src/refrain/db"
	"github.com/kalexmills/refrain/src/rhyme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

const corpus = `DIME  D AY1 M
RHYME  R AY1 M
TIME  T AY1 M
SUN  S AH1 N
RUN  R AH1 N
`

func newBot(t *testing.T, defaults db.ConfigFlag) *refrain.Refrain {
	c, err := rhyme.Build(strings.NewReader(corpus))
	require.NoError(t, err)
	return refrain.NewRefrain(refrain.Config{MaxReplyLines: 60, DefaultFeatures: defaults}, DB, rhyme.StaticHandle(rhyme.NewDictionary(c)))
}

func parse(t *testing.T, content string) refrain.Command {
	cmd, ok, err := refrain.ParseCommand(refrain.DefaultCommandPrefix, content)
	require.True(t, ok)
	require.NoError(t, err)
	return cmd
}

func TestRespond_Rhyme(t *testing.T) {
	bot := newBot(t, 0)
	resp, err := bot.Respond(context.Background(), refrain.Request{Command: parse(t, "!refrain rhyme Time!")})
	require.NoError(t, err)
	assert.Equal(t, "rhymes for **time**: dime, rhyme", resp)

	resp, err = bot.Respond(context.Background(), refrain.Request{Command: parse(t, "!refrain rhyme orange")})
	require.NoError(t, err)
	assert.Equal(t, "no rhymes found for orange", resp)
}

func TestRespond_RhymesUnavailable(t *testing.T) {
	bot := refrain.NewRefrain(refrain.Config{}, DB, rhyme.NewHandle("/does/not/exist.json"))
	_, err := bot.Respond(context.Background(), refrain.Request{Command: parse(t, "!refrain rhyme time")})
	assert.EqualError(t, err, "rhyme suggestions are unavailable")

	// analysis keeps working without a dictionary.
	resp, err := bot.Respond(context.Background(), refrain.Request{Command: parse(t, "!refrain syllables here comes the sun")})
	require.NoError(t, err)
	assert.Contains(t, resp, " 5    here comes the sun")
}

func TestRespond_Analyze(t *testing.T) {
	bot := newBot(t, db.ConfigSuggestRhymes)
	resp, err := bot.Respond(context.Background(), refrain.Request{
		GuildID:   200,
		ChannelID: 201,
		Command:   parse(t, "!refrain analyze\nwe run\nin the sun"),
	})
	require.NoError(t, err)
	assert.Contains(t, resp, "[Verse]\n 2    we run\n 3    in the sun\n")
	assert.Contains(t, resp, "rhymes for **sun**: run")
}

func TestRespond_Sheets(t *testing.T) {
	ctx := context.Background()
	bot := newBot(t, 0)
	req := func(content string) refrain.Request {
		return refrain.Request{GuildID: 210, ChannelID: 211, AuthorID: "author", Command: parse(t, content)}
	}

	resp, err := bot.Respond(ctx, req("!refrain save Night Song\nwe run\n\nin the sun"))
	require.NoError(t, err)
	assert.Equal(t, "saved `night song` with 2 sections", resp)

	resp, err = bot.Respond(ctx, req("!refrain save night song\nwe run\n\nin the sun"))
	require.NoError(t, err)
	assert.Equal(t, "`night song` is already up to date", resp)

	resp, err = bot.Respond(ctx, req("!refrain section night song 3 chorus"))
	require.NoError(t, err)
	assert.Contains(t, resp, "[Chorus]\n 3    in the sun")

	resp, err = bot.Respond(ctx, req("!refrain repeat night song 4 chorus"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp, "copied lines 3-4 to line 5\n**night song**"), resp)

	resp, err = bot.Respond(ctx, req("!refrain show Night Song"))
	require.NoError(t, err)
	assert.Contains(t, resp, "[Chorus]\n 3 A  in the sun\n\n[Chorus]\n 3 A  in the sun\n")

	resp, err = bot.Respond(ctx, req("!refrain list"))
	require.NoError(t, err)
	assert.Contains(t, resp, " - night song (")

	_, err = bot.Respond(ctx, req("!refrain show nothing"))
	assert.ErrorIs(t, err, refrain.ErrSheetNotFound)

	_, err = bot.Respond(ctx, refrain.Request{Command: parse(t, "!refrain show night song")})
	assert.EqualError(t, err, "sheets can only be used in a server")
}

func TestAdminRespond(t *testing.T) {
	ctx := context.Background()
	bot := newBot(t, db.ConfigAnalyzeLyrics)

	resp, err := bot.AdminRespond(ctx, 300, parse(t, "!refrain feature list global"))
	require.NoError(t, err)
	assert.Equal(t, "Features enabled for target global: AnalyzeLyrics", resp)

	resp, err = bot.AdminRespond(ctx, 300, parse(t, "!refrain feature on global SuggestRhymes"))
	require.NoError(t, err)
	assert.Equal(t, "Enabled features SuggestRhymes for target global", resp)

	resp, err = bot.AdminRespond(ctx, 300, parse(t, "!refrain feature list global"))
	require.NoError(t, err)
	assert.Equal(t, "Features enabled for target global: AnalyzeLyrics, SuggestRhymes", resp)

	resp, err = bot.AdminRespond(ctx, 300, parse(t, "!refrain feature off global AnalyzeLyrics"))
	require.NoError(t, err)
	assert.Equal(t, "Disabled features AnalyzeLyrics for target global", resp)

	_, err = bot.AdminRespond(ctx, 300, parse(t, "!refrain feature on <#301> ShowSections"))
	require.NoError(t, err)
	resp, err = bot.AdminRespond(ctx, 300, parse(t, "!refrain feature list <#301>"))
	require.NoError(t, err)
	assert.Equal(t, "Features enabled for target <#301>: ShowSections", resp)

	flags, err := db.LookupFlagsOrDefault(ctx, DB, 300, 301, db.ConfigAnalyzeLyrics)
	require.NoError(t, err)
	assert.Equal(t, db.ConfigSuggestRhymes|db.ConfigShowSections, flags)
}
