package db

import (
	"database/sql"
	"embed"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

//go:embed scripts/*.sql
var bootstrapScripts embed.FS

// Drivers lists the database/sql driver names Open accepts. "sqlite3" takes a file path; "libsql"
// takes a libsql:// or https:// URL with an authToken query parameter.
var Drivers = []string{"sqlite3", "libsql"}

// Open opens the database with the named driver and runs BootstrapDB against it.
func Open(driver, dsn string) (*sql.DB, error) {
	known := false
	for _, d := range Drivers {
		known = known || d == driver
	}
	if !known {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	DB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		DB.SetMaxOpenConns(1) // sqlite only allows one writer
	}
	if err := DB.Ping(); err != nil {
		DB.Close()
		return nil, fmt.Errorf("could not reach %s database: %w", driver, err)
	}
	if err := BootstrapDB(DB); err != nil {
		DB.Close()
		return nil, err
	}
	return DB, nil
}

// BootstrapDB attempts to execute all files ending in .sql from the embedded scripts directory against
// the provided database, in alphabetical order by filename. If no files are found, an error is returned.
func BootstrapDB(DB *sql.DB) error {
	foundSQLFile := false
	scripts, err := bootstrapScripts.ReadDir("scripts")
	if err != nil {
		return err
	}
	for _, finfo := range scripts {
		if finfo.IsDir() {
			continue
		}
		foundSQLFile = true

		script, err := bootstrapScripts.ReadFile("scripts/" + finfo.Name())
		if err != nil {
			return err
		}
		_, err = DB.Exec(string(script))
		if err != nil {
			log.Printf("could not execute bootstrap script %s: %v", finfo.Name(), err)
			return err
		}
		log.Printf("executed bootstrap script %s", finfo.Name())
	}
	if !foundSQLFile {
		return fmt.Errorf("could not find any *.sql files in schema folder scripts")
	}
	return nil
}
