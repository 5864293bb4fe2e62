package export

import (
	"database/sql"
	"fmt"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"

	// Pure-Go sqlite driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

// writeSQLite stores one object kind into a table of the database at dest.
// Every kind exported to the same path lands in the same file, one table per
// kind, so a single run can build a complete queryable database.
//
// The schema is deliberately thin: the id as primary key plus the full
// property map as a JSON column, which sqlite can index into with json_extract.
func writeSQLite(dest, kind string, data map[string]map[string]any) error {
	db, err := sql.Open("sqlite", dest)
	if err != nil {
		return fmt.Errorf("open database %s: %w", dest, err)
	}
	defer func() { _ = db.Close() }()

	ddl := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (id TEXT PRIMARY KEY, properties TEXT NOT NULL)`, kind)
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create table %s: %w", kind, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT OR REPLACE INTO %q (id, properties) VALUES (?, ?)`, kind))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", kind, err)
	}
	defer func() { _ = stmt.Close() }()

	opts := ojg.Options{Sort: true}
	for _, id := range sortedKeys(data) {
		if _, err := stmt.Exec(id, oj.JSON(data[id], &opts)); err != nil {
			return fmt.Errorf("insert %s into %s: %w", id, kind, err)
		}
	}

	return tx.Commit()
}
