// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/litechat-tui/internal/model"
)

var (
	ErrDatabaseError = errors.New("database error")
)

// schema holds every indexed message. The table is derived data and is
// replaced wholesale on Rebuild.
const schema = `
CREATE TABLE IF NOT EXISTS messages (
	message_id  TEXT PRIMARY KEY,
	chat_id     TEXT NOT NULL,
	chat_title  TEXT NOT NULL,
	role        TEXT NOT NULL,
	content     TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id);
`

// Result is one search hit.
type Result struct {
	ChatID    string
	ChatTitle string
	MessageID string
	Role      model.Role
	Content   string
	Timestamp time.Time
}

// MessageIndex is the SQLite-backed message search index.
type MessageIndex struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the index database at path. A file SQLite
// cannot open is treated as corrupt derived data: it is removed and
// recreated empty.
func Open(path string) (*MessageIndex, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		// Derived data. Drop it and start over.
		os.Remove(path)
		db, err = openDB(path)
		if err != nil {
			return nil, err
		}
	}

	return &MessageIndex{db: db, path: path}, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	// SQLite allows one writer; keep a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

// Close releases the database handle.
func (idx *MessageIndex) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Rebuild replaces the whole index from the given chat list in one
// transaction.
func (idx *MessageIndex) Rebuild(ctx context.Context, chats []*model.Chat) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages"); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO messages (message_id, chat_id, chat_title, role, content, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, chat := range chats {
		for _, msg := range chat.Messages {
			if msg.Content == "" {
				continue
			}
			_, err := stmt.ExecContext(ctx,
				msg.ID, chat.ID, chat.Title, msg.Role.String(), msg.Content, msg.Timestamp.Unix())
			if err != nil {
				return fmt.Errorf("insert message: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Search returns messages whose content contains the query,
// case-insensitively, newest first. limit <= 0 means 50.
func (idx *MessageIndex) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT message_id, chat_id, chat_title, role, content, created_at
		FROM messages
		WHERE content LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY created_at DESC
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var role string
		var unix int64
		if err := rows.Scan(&r.MessageID, &r.ChatID, &r.ChatTitle, &role, &r.Content, &unix); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Role = model.Role(role)
		r.Timestamp = time.Unix(unix, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of indexed messages.
func (idx *MessageIndex) Count(ctx context.Context) (int, error) {
	var n int
	err := idx.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}
