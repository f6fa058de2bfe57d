// Package db keeps a journal of accepted control messages in SQLite.
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/dasdy/neoclock/message"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Entry is one journaled control message.
type Entry struct {
	ID       int64
	At       time.Time
	Envelope message.Envelope
}

type Storage interface {
	Store(env message.Envelope, at time.Time) error
	// Recent returns at most limit entries, newest first.
	Recent(limit int) ([]Entry, error)
	// Replayable returns, oldest first, every entry that still makes sense after a restart.
	Replayable() ([]Entry, error)
	Count() (int, error)
	Close() error
}

type SQLiteStorage struct {
	db *sql.DB
}

// ConnectDB opens (creating if needed) the journal at path; ":memory:" works for tests.
func ConnectDB(path string) (*SQLiteStorage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open journal %s: %w", path, err)
	}

	// A second connection to ":memory:" would see an empty database.
	conn.SetMaxOpenConns(1)

	if err := migrateUp(conn); err != nil {
		conn.Close()

		return nil, err
	}

	return &SQLiteStorage{db: conn}, nil
}

func migrateUp(conn *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not read journal migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(conn, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not prepare journal migrations: %w", err)
	}

	// m is not closed: that would close conn as well.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not prepare journal migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not migrate journal: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) Store(env message.Envelope, at time.Time) error {
	body, err := env.Encode()
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`insert into controls(ts, type, widget, body) values(?, ?, ?, ?)`,
		at.UTC(), env.Type, env.ID, string(body))
	if err != nil {
		return fmt.Errorf("could not store %s message: %w", env.Type, err)
	}

	return nil
}

func (s *SQLiteStorage) Recent(limit int) ([]Entry, error) {
	return s.query(`select id, ts, body from controls order by id desc limit ?`, limit)
}

func (s *SQLiteStorage) Replayable() ([]Entry, error) {
	// Ticker lines carry a time to live relative to delivery.
	return s.query(`select id, ts, body from controls where type != ? order by id asc`, "Flyer")
}

func (s *SQLiteStorage) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`select count(*) from controls`).Scan(&n); err != nil {
		return 0, fmt.Errorf("could not count journal entries: %w", err)
	}

	return n, nil
}

func (s *SQLiteStorage) query(q string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("could not read journal: %w", err)
	}
	defer rows.Close()

	result := make([]Entry, 0)

	for rows.Next() {
		var (
			e    Entry
			body string
		)

		if err := rows.Scan(&e.ID, &e.At, &body); err != nil {
			return nil, fmt.Errorf("could not read journal entry: %w", err)
		}

		e.Envelope, err = message.Decode([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("journal entry %d: %w", e.ID, err)
		}

		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read journal: %w", err)
	}

	return result, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
