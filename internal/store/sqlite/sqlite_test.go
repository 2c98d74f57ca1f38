package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Flyrell/checkin/internal/ledger"
	"github.com/Flyrell/checkin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadEmptyDatabase(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ledger.NewState(), got)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	rules := ledger.DefaultRules()

	want, _ := rules.RecordCheckIn(ledger.NewState(), ledger.PartyA, day(2024, 8, 23))
	want, _ = rules.RecordCheckIn(want, ledger.PartyB, day(2024, 10, 27))
	want, _ = rules.RecordCheckIn(want, ledger.PartyA, day(2024, 8, 20))

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveReplacesPreviousRows(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	rules := ledger.DefaultRules()
	full, _ := rules.RecordCheckIn(ledger.NewState(), ledger.PartyA, day(2024, 8, 23))

	require.NoError(t, s.Save(ctx, full))
	_, err := store.Reset(ctx, s)
	require.NoError(t, err)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.NewState(), got)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")
	rules := ledger.DefaultRules()
	want, _ := rules.RecordCheckIn(ledger.NewState(), ledger.PartyB, day(2024, 10, 27))

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, want))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadCorruptRows(t *testing.T) {
	ctx := context.Background()

	t.Run("bad event date", func(t *testing.T) {
		s := openTestStore(t)
		_, err := s.db.ExecContext(ctx, `INSERT INTO ledger_events (seq, party, date, points, is_birthday) VALUES (1, 'A', 'nope', 1, 0)`)
		require.NoError(t, err)

		_, err = s.Load(ctx)
		assert.ErrorIs(t, err, store.ErrCorrupt)
	})

	t.Run("unknown party", func(t *testing.T) {
		s := openTestStore(t)
		_, err := s.db.ExecContext(ctx, `INSERT INTO ledger_parties (party, points) VALUES ('Q', 3)`)
		require.NoError(t, err)

		_, err = s.Load(ctx)
		assert.ErrorIs(t, err, store.ErrCorrupt)
		assert.ErrorIs(t, err, ledger.ErrUnknownParty)
	})

	t.Run("bad last contact", func(t *testing.T) {
		s := openTestStore(t)
		_, err := s.db.ExecContext(ctx, `INSERT INTO ledger_parties (party, points, last_contact) VALUES ('B', 3, '2024-13-40')`)
		require.NoError(t, err)

		_, err = s.Load(ctx)
		assert.ErrorIs(t, err, store.ErrCorrupt)
	})
}

func TestLoadCancelledContext(t *testing.T) {
	s := openTestStore(t)
	rules := ledger.DefaultRules()
	st, _ := rules.RecordCheckIn(ledger.NewState(), ledger.PartyA, day(2024, 8, 23))
	require.NoError(t, s.Save(context.Background(), st))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := s.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, ledger.State{}, got)
}

func TestInMemoryDatabase(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	rules := ledger.DefaultRules()
	want, _ := rules.RecordCheckIn(ledger.NewState(), ledger.PartyA, day(2024, 8, 23))
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
