package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/felipe-codebit/prototipo-zap/internal/db"
)

type sqliteArchive struct {
	db *db.DB
}

func (a *sqliteArchive) Save(ctx context.Context, rec *Record) error {
	prepare(rec)
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO artifacts (id, session_id, kind, content, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, string(rec.Kind), rec.Content, string(rec.Data), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting artifact: %w", err)
	}
	return nil
}

func (a *sqliteArchive) Latest(ctx context.Context, sessionID string, kind Kind) (*Record, error) {
	var (
		rec     Record
		k       string
		data    string
		created string
	)
	err := a.db.QueryRowContext(ctx,
		`SELECT id, session_id, kind, content, data, created_at FROM artifacts
		 WHERE session_id = ? AND kind = ? ORDER BY id DESC LIMIT 1`,
		sessionID, string(kind),
	).Scan(&rec.ID, &rec.SessionID, &k, &rec.Content, &data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying artifact: %w", err)
	}
	rec.Kind = Kind(k)
	rec.Data = []byte(data)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &rec, nil
}

// Close is a no-op; the database belongs to the caller.
func (a *sqliteArchive) Close() error {
	return nil
}
