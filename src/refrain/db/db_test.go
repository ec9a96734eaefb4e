package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/kalexmills/refrain/src/refrain/db"
	"github.com/stretchr/testify/assert"
	"log"
	"os"
	"path"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

func TestMain(m *testing.M) {
	dbPath := fmt.Sprintf(path.Join("%s", "refrain-test.db"), os.TempDir())

	// delete any existing database
	err := os.Truncate(dbPath, 0)

	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("could not truncate database file %s: %v", dbPath, err)
	}

	DB, err = db.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatalf("could not open database %s: %v", dbPath, err)
	}

	code := m.Run()

	DB.Close()
	os.Remove(dbPath)
	os.Exit(code)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := db.Open("postgres", "whatever")
	assert.Error(t, err)
}

func TestBootstrapDB_Idempotent(t *testing.T) {
	assert.NoError(t, db.BootstrapDB(DB))
}

func TestSheetDAO_Upsert(t *testing.T) {
	ctx := context.Background()

	rows, err := db.SheetDAO.Upsert(ctx, DB, db.Sheet{
		GuildID: 1, Title: "sunrise", AuthorID: "author#1", Body: "Here comes the sun", SectionTypes: `{"0":"verse"}`, UpdatedAt: 10,
	})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	sheet, err := db.SheetDAO.FindByTitle(ctx, DB, 1, "sunrise")
	assert.NoError(t, err)
	assert.Equal(t, "Here comes the sun", sheet.Body)
	assert.Equal(t, `{"0":"verse"}`, sheet.SectionTypes)
	assert.Empty(t, sheet.BodyHash)

	_, err = db.SheetDAO.Upsert(ctx, DB, db.Sheet{
		GuildID: 1, Title: "sunrise", AuthorID: "someone-else", Body: "Here comes the moon", SectionTypes: `{}`,
		BodyHash: []byte{1, 2, 3}, UpdatedAt: 20,
	})
	assert.NoError(t, err)

	sheet, err = db.SheetDAO.FindByTitle(ctx, DB, 1, "sunrise")
	assert.NoError(t, err)
	assert.Equal(t, "Here comes the moon", sheet.Body)
	assert.Equal(t, "author#1", sheet.AuthorID)
	assert.Equal(t, []byte{1, 2, 3}, sheet.BodyHash)
	assert.EqualValues(t, 20, sheet.UpdatedAt)

	missing, err := db.SheetDAO.FindByTitle(ctx, DB, 2, "sunrise")
	assert.NoError(t, err)
	assert.Empty(t, missing.Title)
}

func TestSheetDAO_ListByGuild(t *testing.T) {
	ctx := context.Background()

	db.SheetDAO.Upsert(ctx, DB, db.Sheet{GuildID: 5, Title: "old", AuthorID: "a", Body: "x", SectionTypes: "{}", UpdatedAt: 1})
	db.SheetDAO.Upsert(ctx, DB, db.Sheet{GuildID: 5, Title: "new", AuthorID: "a", Body: "y", SectionTypes: "{}", UpdatedAt: 2})
	db.SheetDAO.Upsert(ctx, DB, db.Sheet{GuildID: 6, Title: "elsewhere", AuthorID: "a", Body: "z", SectionTypes: "{}", UpdatedAt: 3})

	sheets, err := db.SheetDAO.ListByGuild(ctx, DB, 5)
	assert.NoError(t, err)
	if assert.Len(t, sheets, 2) {
		assert.Equal(t, "new", sheets[0].Title)
		assert.Equal(t, "old", sheets[1].Title)
	}
}

func TestSheetDAO_Hashes(t *testing.T) {
	ctx := context.Background()

	db.SheetDAO.Upsert(ctx, DB, db.Sheet{GuildID: 9, Title: "unhashed", AuthorID: "a", Body: "x", SectionTypes: "{}"})

	sheets, err := db.SheetDAO.MissingHash(ctx, DB)
	assert.NoError(t, err)
	found := false
	for _, s := range sheets {
		found = found || (s.GuildID == 9 && s.Title == "unhashed")
	}
	assert.True(t, found)

	count, err := db.SheetDAO.UpdateHash(ctx, DB, 9, "unhashed", []byte{9})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)

	sheet, err := db.SheetDAO.FindByTitle(ctx, DB, 9, "unhashed")
	assert.NoError(t, err)
	assert.Equal(t, []byte{9}, sheet.BodyHash)

	sheets, err = db.SheetDAO.MissingHash(ctx, DB)
	assert.NoError(t, err)
	for _, s := range sheets {
		assert.False(t, s.GuildID == 9 && s.Title == "unhashed", "hashed sheet still reported as missing")
	}
}

func TestSheetDAO_RowWithoutHash(t *testing.T) {
	ctx := context.Background()

	_, err := DB.Exec(`INSERT INTO lyric_sheet (guild_id, title, author_id, body) VALUES (10, 'legacy', 'a', 'old words')`)
	assert.NoError(t, err)

	sheet, err := db.SheetDAO.FindByTitle(ctx, DB, 10, "legacy")
	assert.NoError(t, err)
	assert.Equal(t, "old words", sheet.Body)
	assert.Empty(t, sheet.BodyHash)

	sheets, err := db.SheetDAO.ListByGuild(ctx, DB, 10)
	assert.NoError(t, err)
	assert.Len(t, sheets, 1)

	// the single sqlite connection must still be usable.
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	assert.NoError(t, DB.PingContext(ctx))
}

func TestGuildConfigDAO_Upsert(t *testing.T) {
	ctx := context.Background()

	_, err := db.GuildConfigDAO.Upsert(ctx, DB, db.GuildConfig{GuildID: 1, Flags: 5})
	assert.NoError(t, err)

	conf, err := db.GuildConfigDAO.FindByID(ctx, DB, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, db.GuildConfig{GuildID: 1, Flags: 5}, conf)

	_, err = db.GuildConfigDAO.Upsert(ctx, DB, db.GuildConfig{GuildID: 1, Flags: 2})
	assert.NoError(t, err)

	conf, err = db.GuildConfigDAO.FindByID(ctx, DB, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, db.GuildConfig{GuildID: 1, Flags: 2}, conf)
}

func TestChannelConfigDAO_Upsert(t *testing.T) {
	ctx := context.Background()

	_, err := db.ChannelConfigDAO.Upsert(ctx, DB, 1, 3)
	assert.NoError(t, err)

	conf, err := db.ChannelConfigDAO.FindByID(ctx, DB, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, db.ChannelConfig{ChannelID: 1, Flags: 3}, conf)

	_, err = db.ChannelConfigDAO.Upsert(ctx, DB, 1, 4)
	assert.NoError(t, err)

	conf, err = db.ChannelConfigDAO.FindByID(ctx, DB, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, db.ChannelConfig{ChannelID: 1, Flags: 4}, conf)

	_, err = db.ChannelConfigDAO.FindByID(ctx, DB, 2)
	assert.NoError(t, err)
}

func TestLookupFlags(t *testing.T) {
	ctx := context.Background()

	_, err := db.ChannelConfigDAO.Upsert(ctx, DB, 11, int64(db.ConfigAnalyzeLyrics))
	assert.NoError(t, err)
	_, err = db.GuildConfigDAO.Upsert(ctx, DB, db.GuildConfig{GuildID: 12, Flags: db.ConfigSuggestRhymes})
	assert.NoError(t, err)

	flags, err := db.LookupFlags(ctx, DB, 12, 11)
	assert.NoError(t, err)

	assert.EqualValues(t, 3, flags)
	assert.True(t, flags.AnalyzeLyrics())
	assert.True(t, flags.SuggestRhymes())
	assert.False(t, flags.ShowSections())
}

func TestConfigFlag_String(t *testing.T) {
	assert.Equal(t, "none", db.ConfigFlag(0).String())
	assert.Equal(t, "AnalyzeLyrics, ShowSections", (db.ConfigAnalyzeLyrics | db.ConfigShowSections).String())
}

func TestParseFlag(t *testing.T) {
	f, err := db.ParseFlag("suggestrhymes")
	assert.NoError(t, err)
	assert.Equal(t, db.ConfigSuggestRhymes, f)

	_, err = db.ParseFlag("DeleteMessages")
	assert.Error(t, err)
}

func TestLookupFlagsOrDefault(t *testing.T) {
	ctx := context.Background()

	flags, err := db.LookupFlagsOrDefault(ctx, DB, 404, 405, db.ConfigShowSections)
	assert.NoError(t, err)
	assert.Equal(t, db.ConfigShowSections, flags)

	_, err = db.GuildConfigDAO.Upsert(ctx, DB, db.GuildConfig{GuildID: 404, Flags: 0})
	assert.NoError(t, err)

	flags, err = db.LookupFlagsOrDefault(ctx, DB, 404, 405, db.ConfigShowSections)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, flags)
}
