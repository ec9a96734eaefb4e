package refrain

import (
	"context"
	"crypto/md5"
	"database/sql"
	"github.com/kalexmills/refrain/src/analysis"
	"github.com/kalexmills/refrain/src/refrain/db"
	"log"
	"strings"
	"unicode"
)

// SheetHash fingerprints a lyric body so that saving an unchanged sheet can be skipped. Line endings
// and trailing whitespace do not affect the hash.
func SheetHash(body string) [md5.Size]byte {
	lines := analysis.SplitLines(body)
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return md5.Sum([]byte(strings.TrimRight(strings.Join(lines, "\n"), "\n")))
}

// BackfillSheetHashes ensures every stored sheet has a body hash. It's intended to be run on a separate
// goroutine on startup.
func BackfillSheetHashes(sqlDB *sql.DB) {
	defer func() {
		if err := recover(); err != nil {
			log.Printf("recovered from panic in BackfillSheetHashes: %v", err)
			return
		}
	}()
	log.Println("beginning BackfillSheetHashes.")
	ctx := context.Background()
	sheets, err := db.SheetDAO.MissingHash(ctx, sqlDB)
	if err != nil {
		log.Println("encountered error while listing unhashed sheets,", err)
		return
	}
	updateCount := 0
	for _, sheet := range sheets {
		hash := SheetHash(sheet.Body)
		count, err := db.SheetDAO.UpdateHash(ctx, sqlDB, sheet.GuildID, sheet.Title, hash[:])
		if err != nil {
			log.Println("encountered error while updating sheet hash,", err)
			return
		}
		if count != 0 {
			updateCount++
		}
	}
	log.Printf("backfilled %d sheet hashes", updateCount)
}
