// Package sqlite stores the ledger in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/ledger"
	"github.com/Flyrell/checkin/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store implements store.Store on top of database/sql.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// A single connection keeps :memory: databases alive and writes serialized.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the schema statements.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range Migrations() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the ledger. An empty database yields the empty state.
func (s *Store) Load(ctx context.Context) (ledger.State, error) {
	st := ledger.NewState()
	if err := s.loadParties(ctx, &st); err != nil {
		return ledger.State{}, err
	}

	events, err := s.loadEvents(ctx)
	if err != nil {
		return ledger.State{}, err
	}
	if len(events) > 0 {
		st.History = events
	}
	return st, nil
}

func (s *Store) loadParties(ctx context.Context, st *ledger.State) error {
	rows, err := s.db.QueryContext(ctx, `SELECT party, points, last_contact FROM ledger_parties`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			party   string
			points  int
			contact sql.NullString
		)
		if err := rows.Scan(&party, &points, &contact); err != nil {
			return err
		}
		p := ledger.Party(party)
		if !p.Valid() {
			return fmt.Errorf("%w: %w %q", store.ErrCorrupt, ledger.ErrUnknownParty, party)
		}
		st.Points[p] = points
		if contact.Valid && contact.String != "" {
			d, err := calendar.Parse(contact.String)
			if err != nil {
				return fmt.Errorf("%w: last contact for %s: %v", store.ErrCorrupt, p, err)
			}
			st.LastContact[p] = d
		}
	}
	return rows.Err()
}

func (s *Store) loadEvents(ctx context.Context) ([]ledger.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT party, date, points, is_birthday FROM ledger_events ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []ledger.Event
	for rows.Next() {
		var (
			party, date string
			points      int
			birthday    bool
		)
		if err := rows.Scan(&party, &date, &points, &birthday); err != nil {
			return nil, err
		}
		p := ledger.Party(party)
		if !p.Valid() {
			return nil, fmt.Errorf("%w: %w %q", store.ErrCorrupt, ledger.ErrUnknownParty, party)
		}
		d, err := calendar.Parse(date)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %v", store.ErrCorrupt, len(events), err)
		}
		events = append(events, ledger.Event{Party: p, Date: d, Points: points, IsBirthday: birthday})
	}
	return events, rows.Err()
}

// Save replaces all stored rows with st in a single transaction.
func (s *Store) Save(ctx context.Context, st ledger.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_events`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_parties`); err != nil {
		return err
	}

	for _, p := range ledger.Parties {
		var contact sql.NullString
		if d, ok := st.LastContactOf(p); ok {
			contact = sql.NullString{String: calendar.Format(d), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_parties (party, points, last_contact) VALUES (?, ?, ?)`,
			string(p), st.Points[p], contact,
		); err != nil {
			return err
		}
	}

	for i, e := range st.History {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_events (seq, party, date, points, is_birthday) VALUES (?, ?, ?, ?, ?)`,
			i+1, string(e.Party), calendar.Format(e.Date), e.Points, e.IsBirthday,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
