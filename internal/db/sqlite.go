// Package db persists chats as whole documents keyed by chat id, the messages
// embedded as a JSON array. There is no concurrency control: a get-then-replace
// sequence is non-atomic and the last writer wins.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/ovn531/faisal/internal/models"
)

// ErrNotFound is returned when the requested chat does not exist.
var ErrNotFound = errors.New("chat not found")

// ErrConflict is returned when creating a chat whose id already exists.
var ErrConflict = errors.New("chat already exists")

const schema = `
CREATE TABLE IF NOT EXISTS chats (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    messages TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chats_updated_at ON chats (updated_at DESC);`

type Database struct {
	db *sql.DB
}

func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) CreateChat(ctx context.Context, chat *models.Chat) error {
	messages, err := json.Marshal(chat.Messages)
	if err != nil {
		return fmt.Errorf("encoding messages: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
        INSERT INTO chats (id, title, messages, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)`,
		chat.ID, chat.Title, string(messages), chat.CreatedAt, chat.UpdatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (d *Database) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	row := d.db.QueryRowContext(ctx, `
        SELECT id, title, messages, created_at, updated_at
        FROM chats
        WHERE id = ?`, id)

	chat, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return chat, err
}

// ListChats returns chats ordered most-recently-updated first. A non-positive
// limit falls back to 100.
func (d *Database) ListChats(ctx context.Context, limit int) ([]*models.Chat, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.db.QueryContext(ctx, `
        SELECT id, title, messages, created_at, updated_at
        FROM chats
        ORDER BY updated_at DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := make([]*models.Chat, 0)
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// ReplaceChat overwrites the whole record for id with the given state.
func (d *Database) ReplaceChat(ctx context.Context, id string, chat *models.Chat) error {
	messages, err := json.Marshal(chat.Messages)
	if err != nil {
		return fmt.Errorf("encoding messages: %w", err)
	}

	result, err := d.db.ExecContext(ctx, `
        UPDATE chats
        SET title = ?, messages = ?, created_at = ?, updated_at = ?
        WHERE id = ?`,
		chat.Title, string(messages), chat.CreatedAt, chat.UpdatedAt, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateChatTitle updates exactly the title and updated_at of a chat.
func (d *Database) UpdateChatTitle(ctx context.Context, id, title string) error {
	result, err := d.db.ExecContext(ctx, `
        UPDATE chats
        SET title = ?, updated_at = ?
        WHERE id = ?`, title, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (d *Database) DeleteChat(ctx context.Context, id string) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanChat(s scanner) (*models.Chat, error) {
	var chat models.Chat
	var messages string
	if err := s.Scan(&chat.ID, &chat.Title, &messages, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(messages), &chat.Messages); err != nil {
		return nil, fmt.Errorf("decoding messages for chat %s: %w", chat.ID, err)
	}
	return &chat, nil
}
