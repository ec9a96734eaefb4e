package db

import (
	"context"
	"github.com/jonbodner/proteus"
)

// Sheet is a stored lyric sheet. SectionTypes holds the JSON encoding of the sheet's section map.
type Sheet struct {
	GuildID      int    `prof:"guild_id"`
	Title        string `prof:"title"`
	AuthorID     string `prof:"author_id"`
	Body         string `prof:"body"`
	SectionTypes string `prof:"section_types"`
	BodyHash     []byte `prof:"body_hash"`
	UpdatedAt    int64  `prof:"updated_at"`
}

var SheetDAO SheetDaoImpl

type SheetDaoImpl struct {
	Upsert func(ctx context.Context, e proteus.ContextExecutor, s Sheet) (int64, error) `proq:"q:upsert" prop:"s"`
	// FindByTitle returns a zero Sheet when no sheet matches.
	FindByTitle func(ctx context.Context, e proteus.ContextQuerier, guildID int, title string) (Sheet, error) `proq:"q:findByTitle" prop:"guildID,title"`
	ListByGuild func(ctx context.Context, e proteus.ContextQuerier, guildID int) ([]Sheet, error)              `proq:"q:listByGuild" prop:"guildID"`
	UpdateHash  func(ctx context.Context, e proteus.ContextExecutor, guildID int, title string, hash []byte) (int64, error) `proq:"q:updateHash" prop:"guildID,title,hash"`
	MissingHash func(ctx context.Context, e proteus.ContextQuerier) ([]Sheet, error) `proq:"q:missingHash"`
}

// sheetColumns never yields a NULL: proteus scans into the column type sqlite reports for each cell, and
// there is none for NULL. Databases created before body_hash became NOT NULL may still hold NULLs.
const sheetColumns = `guild_id, title, author_id, body, section_types, COALESCE(body_hash, x'') AS body_hash, updated_at`

func init() {
	m := proteus.MapMapper{
		"upsert": `INSERT INTO lyric_sheet (guild_id, title, author_id, body, section_types, body_hash, updated_at)
				   VALUES (:s.GuildID:, :s.Title:, :s.AuthorID:, :s.Body:, :s.SectionTypes:, COALESCE(:s.BodyHash:, x''), :s.UpdatedAt:)
				   ON CONFLICT (guild_id, title)
				   DO UPDATE SET body = excluded.body, section_types = excluded.section_types,
				                 body_hash = excluded.body_hash, updated_at = excluded.updated_at`,
		"findByTitle": `SELECT ` + sheetColumns + ` FROM lyric_sheet WHERE guild_id = :guildID: AND title = :title:`,
		"listByGuild": `SELECT ` + sheetColumns + ` FROM lyric_sheet WHERE guild_id = :guildID: ORDER BY updated_at DESC, title`,
		"updateHash":  `UPDATE lyric_sheet SET body_hash = :hash: WHERE guild_id = :guildID: AND title = :title:`,
		"missingHash": `SELECT ` + sheetColumns + ` FROM lyric_sheet WHERE body_hash IS NULL OR length(body_hash) = 0`,
	}
	err := proteus.ShouldBuild(context.Background(), &SheetDAO, proteus.Sqlite, m)
	if err != nil {
		panic(err)
	}
}
