package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/store"
)

// schema holds both collections. lastStatus and time are stored as unix
// milliseconds so threshold comparisons stay plain integer comparisons.
const schema = `
CREATE TABLE IF NOT EXISTS participants (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	last_status INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id        TEXT PRIMARY KEY,
	from_name TEXT NOT NULL,
	to_name   TEXT NOT NULL,
	text      TEXT NOT NULL,
	type      TEXT NOT NULL,
	time      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_participants_last_status ON participants(last_status);
CREATE INDEX IF NOT EXISTS idx_messages_routing ON messages(to_name, from_name, type);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests that want to seed rows alongside the schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== ParticipantStore implementation ====

// CreateParticipant inserts a participant together with its join status
// message in one transaction, so a registration is either fully visible or
// not at all.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, p *store.Participant, joined *store.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	p.ID = uuid.NewString()
	query := `
		INSERT INTO participants (id, name, last_status)
		VALUES (?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query, p.ID, p.Name, p.LastStatus.UnixMilli()); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return store.ErrNameTaken
		}
		return fmt.Errorf("insert participant: %w", err)
	}

	if joined != nil {
		if err := insertMessage(ctx, tx, joined); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ListParticipants returns every participant record in insertion order.
func (s *SQLiteStore) ListParticipants(ctx context.Context) ([]*store.Participant, error) {
	query := `
		SELECT id, name, last_status
		FROM participants
		ORDER BY rowid ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var participants []*store.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

// GetParticipantByName retrieves a participant by name.
func (s *SQLiteStore) GetParticipantByName(ctx context.Context, name string) (*store.Participant, error) {
	query := `
		SELECT id, name, last_status
		FROM participants
		WHERE name = ?
	`
	var p store.Participant
	var lastStatus int64
	err := s.db.QueryRowContext(ctx, query, name).Scan(&p.ID, &p.Name, &lastStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query participant: %w", err)
	}
	p.LastStatus = time.UnixMilli(lastStatus)

	return &p, nil
}

// TouchParticipant sets the participant's lastStatus.
func (s *SQLiteStore) TouchParticipant(ctx context.Context, name string, lastStatus time.Time) error {
	query := `
		UPDATE participants
		SET last_status = ?
		WHERE name = ?
	`
	result, err := s.db.ExecContext(ctx, query, lastStatus.UnixMilli(), name)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}

	return nil
}

// ListInactiveSince returns participants whose lastStatus is older than cutoff.
func (s *SQLiteStore) ListInactiveSince(ctx context.Context, cutoff time.Time) ([]*store.Participant, error) {
	query := `
		SELECT id, name, last_status
		FROM participants
		WHERE last_status < ?
		ORDER BY rowid ASC
	`
	rows, err := s.db.QueryContext(ctx, query, cutoff.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query inactive participants: %w", err)
	}
	defer rows.Close()

	var participants []*store.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

// EvictParticipant deletes the participant and records its leave status
// message in one transaction. The delete keeps the cutoff guard so a
// heartbeat that lands between the reaper's read and the delete wins: the
// row is left alone and the leave message is rolled back with the
// transaction.
func (s *SQLiteStore) EvictParticipant(ctx context.Context, name string, cutoff time.Time, left *store.Message) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		DELETE FROM participants
		WHERE name = ? AND last_status < ?
	`
	result, err := tx.ExecContext(ctx, query, name, cutoff.UnixMilli())
	if err != nil {
		return false, fmt.Errorf("delete participant: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	if err := insertMessage(ctx, tx, left); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return true, nil
}

// ==== MessageStore implementation ====

// SaveMessage appends a message.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertMessage(ctx, tx, msg); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ListVisibleMessages returns up to limit messages visible to viewer in
// insertion order. Visible means: addressed to the viewer, sent by the
// viewer, public, or a status event. Private messages between other parties
// are the only thing filtered out.
func (s *SQLiteStore) ListVisibleMessages(ctx context.Context, viewer string, limit int) ([]*store.Message, error) {
	query := `
		SELECT id, from_name, to_name, text, type, time
		FROM messages
		WHERE to_name = ? OR from_name = ? OR type IN (?, ?)
		ORDER BY rowid ASC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query,
		viewer, viewer, string(store.TypeMessage), string(store.TypeStatus), limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []*store.Message
	for rows.Next() {
		var msg store.Message
		var msgType string
		var at int64
		if err := rows.Scan(&msg.ID, &msg.From, &msg.To, &msg.Text, &msgType, &at); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Type = store.MessageType(msgType)
		msg.Time = time.UnixMilli(at)
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

// insertMessage inserts a message inside an existing transaction, assigning
// its ID.
func insertMessage(ctx context.Context, tx *sql.Tx, msg *store.Message) error {
	msg.ID = uuid.NewString()
	query := `
		INSERT INTO messages (id, from_name, to_name, text, type, time)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		msg.ID, msg.From, msg.To, msg.Text, string(msg.Type), msg.Time.UnixMilli()); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

// scanParticipant reads one participant row.
func scanParticipant(rows *sql.Rows) (*store.Participant, error) {
	var p store.Participant
	var lastStatus int64
	if err := rows.Scan(&p.ID, &p.Name, &lastStatus); err != nil {
		return nil, fmt.Errorf("scan participant: %w", err)
	}
	p.LastStatus = time.UnixMilli(lastStatus)
	return &p, nil
}

// Ensure SQLiteStore implements store.Store
var _ store.Store = (*SQLiteStore)(nil)
