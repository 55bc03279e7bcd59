package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// LoadSQLite reads an alias snapshot from a local SQLite file. The snapshot
// file carries one table:
//
//	CREATE TABLE catalog_aliases (sku_code TEXT NOT NULL, alias TEXT NOT NULL, position INTEGER NOT NULL);
//
// Used by the CLI for offline runs where no Postgres catalog is reachable.
func LoadSQLite(ctx context.Context, path string) (AliasIndex, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog snapshot: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx,
		`SELECT sku_code, alias FROM catalog_aliases ORDER BY sku_code, position`)
	if err != nil {
		return nil, fmt.Errorf("query catalog snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return indexFromRows(rows)
}

type aliasRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func indexFromRows(rows aliasRows) (AliasIndex, error) {
	var idx AliasIndex
	for rows.Next() {
		var code, alias string
		if err := rows.Scan(&code, &alias); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		alias = strings.ToLower(alias)
		if n := len(idx); n > 0 && idx[n-1].Code == code {
			idx[n-1].Aliases = append(idx[n-1].Aliases, alias)
			continue
		}
		idx = append(idx, Entry{Code: code, Aliases: []string{alias}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return idx, nil
}
