package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// loadDocuments inserts docs into the documents table in one transaction:
// either every valid record is loaded or the table stays empty. A later
// record for the same key wins.
func loadDocuments(ctx context.Context, db *sql.DB, docs []document) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertDocument)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		if _, err := stmt.ExecContext(ctx, d.Key, d.Value, d.UpdatedAt); err != nil {
			return fmt.Errorf("loading %s: %w", d.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// dumpDocuments returns every row of the documents table ordered by key.
func dumpDocuments(ctx context.Context, db *sql.DB) ([]document, error) {
	rows, err := db.QueryContext(ctx, selectDocuments)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []document
	for rows.Next() {
		var d document
		if err := rows.Scan(&d.Key, &d.Value, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
