package refrain

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/kalexmills/refrain/src/analysis"
	"github.com/kalexmills/refrain/src/refrain/db"
	"strings"
	"time"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrStorage wraps every failure of the underlying database.
	ErrStorage = errors.New("sheet storage failed")
)

// LyricSheet is a stored song: its body and the section types anchored to its lines.
type LyricSheet struct {
	GuildID      int
	Title        string
	AuthorID     string
	Body         string
	SectionTypes analysis.SectionTypes
	UpdatedAt    time.Time
}

func (s LyricSheet) Analyze() analysis.Analysis {
	return analysis.Analyze(s.Body, s.SectionTypes)
}

// SheetStore loads and saves lyric sheets. Every write normalizes the section types against the body.
type SheetStore struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewSheetStore(sqlDB *sql.DB) *SheetStore {
	return &SheetStore{DB: sqlDB, Now: time.Now}
}

func (s *SheetStore) Find(ctx context.Context, guildID int, title string) (LyricSheet, error) {
	row, err := db.SheetDAO.FindByTitle(ctx, s.DB, guildID, normalizeTitle(title))
	if err != nil {
		return LyricSheet{}, fmt.Errorf("%w: could not read sheet %q: %w", ErrStorage, title, err)
	}
	if row.Title == "" {
		return LyricSheet{}, fmt.Errorf("%w: %q", ErrSheetNotFound, title)
	}
	return fromRow(row), nil
}

func (s *SheetStore) List(ctx context.Context, guildID int) ([]LyricSheet, error) {
	rows, err := db.SheetDAO.ListByGuild(ctx, s.DB, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list sheets: %w", ErrStorage, err)
	}
	result := make([]LyricSheet, 0, len(rows))
	for _, row := range rows {
		result = append(result, fromRow(row))
	}
	return result, nil
}

// Save stores body under title. Section types already stored for the sheet are carried over and
// normalized against the new body. changed is false when neither body nor section types differ from
// what is stored, in which case nothing is written.
func (s *SheetStore) Save(ctx context.Context, guildID int, authorID, title, body string) (sheet LyricSheet, changed bool, err error) {
	existing, err := s.Find(ctx, guildID, title)
	if err != nil && !errors.Is(err, ErrSheetNotFound) {
		return LyricSheet{}, false, err
	}
	found := err == nil
	if !found {
		existing = LyricSheet{GuildID: guildID, Title: normalizeTitle(title), AuthorID: authorID}
	}
	return s.write(ctx, existing, body, existing.SectionTypes, !found)
}

// SetSection labels the section starting at line. line must be a valid section start of the sheet.
func (s *SheetStore) SetSection(ctx context.Context, guildID int, title string, line int, t analysis.SectionType) (LyricSheet, error) {
	sheet, err := s.Find(ctx, guildID, title)
	if err != nil {
		return LyricSheet{}, err
	}
	if !isValidStart(sheet.Body, line) {
		return LyricSheet{}, invalidStartError(sheet.Body, line)
	}
	types := sheet.SectionTypes.Clone()
	types[line] = t
	sheet, _, err = s.write(ctx, sheet, sheet.Body, types, false)
	return sheet, err
}

// Repeated describes where RepeatSection copied a section from and to.
type Repeated struct {
	Source analysis.BlockRange
	Target int
}

// Repeat copies the closest earlier section of type t to line, labelling the copy t. A line one past
// the end of the sheet appends the copy as a new section.
func (s *SheetStore) Repeat(ctx context.Context, guildID int, title string, line int, t analysis.SectionType) (LyricSheet, Repeated, error) {
	sheet, err := s.Find(ctx, guildID, title)
	if err != nil {
		return LyricSheet{}, Repeated{}, err
	}
	body := sheet.Body
	if lines := analysis.SplitLines(body); line == len(lines) && !analysis.IsBlank(lines[len(lines)-1]) {
		body += "\n\n"
		line++
	}
	if !isValidStart(body, line) {
		return LyricSheet{}, Repeated{}, invalidStartError(body, line)
	}
	source, ok := analysis.FindPreviousSectionStartOfType(body, sheet.SectionTypes, line, t)
	if !ok {
		return LyricSheet{}, Repeated{}, fmt.Errorf("there is no %s before line %d to repeat", strings.ToLower(t.Label()), line+1)
	}
	repeated := Repeated{Source: analysis.SectionBlockRange(body, source), Target: line}
	body, types, ok := analysis.RepeatSection(body, sheet.SectionTypes, source, line, t)
	if !ok {
		return LyricSheet{}, Repeated{}, fmt.Errorf("could not repeat the %s at line %d", strings.ToLower(t.Label()), source+1)
	}
	sheet, _, err = s.write(ctx, sheet, body, types, false)
	return sheet, repeated, err
}

func (s *SheetStore) write(ctx context.Context, sheet LyricSheet, body string, types analysis.SectionTypes, isNew bool) (LyricSheet, bool, error) {
	normalized := analysis.NormalizeSectionTypes(body, types)
	hash := SheetHash(body)

	if !isNew {
		stored, err := db.SheetDAO.FindByTitle(ctx, s.DB, sheet.GuildID, sheet.Title)
		if err != nil {
			return LyricSheet{}, false, fmt.Errorf("%w: could not read sheet %q: %w", ErrStorage, sheet.Title, err)
		}
		if bytes.Equal(stored.BodyHash, hash[:]) && stored.Body == body &&
			analysis.DecodeSectionTypes(stored.SectionTypes).Equal(normalized) {
			return fromRow(stored), false, nil
		}
	}

	sheet.Body = body
	sheet.SectionTypes = normalized
	sheet.UpdatedAt = s.Now()
	_, err := db.SheetDAO.Upsert(ctx, s.DB, toRow(sheet, hash[:]))
	if err != nil {
		return LyricSheet{}, false, fmt.Errorf("%w: could not store sheet %q: %w", ErrStorage, sheet.Title, err)
	}
	return sheet, true, nil
}

func toRow(s LyricSheet, hash []byte) db.Sheet {
	return db.Sheet{
		GuildID:      s.GuildID,
		Title:        s.Title,
		AuthorID:     s.AuthorID,
		Body:         s.Body,
		SectionTypes: analysis.EncodeSectionTypes(s.SectionTypes),
		BodyHash:     hash,
		UpdatedAt:    s.UpdatedAt.Unix(),
	}
}

func fromRow(row db.Sheet) LyricSheet {
	return LyricSheet{
		GuildID:      row.GuildID,
		Title:        row.Title,
		AuthorID:     row.AuthorID,
		Body:         row.Body,
		SectionTypes: analysis.DecodeSectionTypes(row.SectionTypes),
		UpdatedAt:    time.Unix(row.UpdatedAt, 0),
	}
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

// isValidStart also accepts line 0 of a sheet without lyrics, which may be labelled before typing.
func isValidStart(body string, line int) bool {
	starts := analysis.ValidSectionStarts(body)
	for _, start := range starts {
		if start == line {
			return true
		}
	}
	return line == 0 && len(starts) == 0
}

func invalidStartError(body string, line int) error {
	starts := analysis.ValidSectionStarts(body)
	if len(starts) == 0 {
		return fmt.Errorf("line %d does not start a section; the sheet has no lyrics yet", line+1)
	}
	names := make([]string, len(starts))
	for i, s := range starts {
		names[i] = fmt.Sprint(s + 1)
	}
	return fmt.Errorf("line %d does not start a section; sections start at lines %s", line+1, strings.Join(names, ", "))
}
