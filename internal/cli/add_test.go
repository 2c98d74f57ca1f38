package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flyrell/checkin/internal/config"
	"github.com/Flyrell/checkin/internal/ledger"
	"github.com/Flyrell/checkin/internal/store"
	"github.com/Flyrell/checkin/internal/store/jsonfile"
	"github.com/Flyrell/checkin/internal/store/sqlite"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
}

func yesKit() PromptKit {
	return PromptKit{Confirm: AlwaysYes()}
}

func readLedger(t *testing.T, homeDir string) ledger.State {
	t.Helper()
	st, err := jsonfile.New(config.Default().DataPath(homeDir)).Load(context.Background())
	require.NoError(t, err)
	return st
}

func writeLedgerFile(t *testing.T, homeDir, content string) {
	t.Helper()
	path := config.Default().DataPath(homeDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func execAdd(homeDir, party, date string, yes bool, pk PromptKit) (string, error) {
	stdout := new(bytes.Buffer)
	cmd := addCmd
	cmd.SetOut(stdout)

	err := runAdd(cmd, homeDir, party, date, yes, pk, fixedNow)
	return stdout.String(), err
}

func TestAddFirstCheckInOnBirthday(t *testing.T) {
	homeDir := t.TempDir()

	stdout, err := execAdd(homeDir, "A", "2024-08-23", true, yesKit())

	require.NoError(t, err)
	assert.Contains(t, stdout, "+10")
	assert.Contains(t, stdout, "happy birthday")

	st := readLedger(t, homeDir)
	assert.Equal(t, 10, st.Points[ledger.PartyA])
	assert.Equal(t, 0, st.Points[ledger.PartyB])
	require.Len(t, st.History, 1)
	assert.True(t, st.History[0].IsBirthday)
}

func TestAddSecondCheckInCountsDays(t *testing.T) {
	homeDir := t.TempDir()

	_, err := execAdd(homeDir, "A", "2024-08-23", true, yesKit())
	require.NoError(t, err)
	stdout, err := execAdd(homeDir, "A", "2024-08-30", true, yesKit())

	require.NoError(t, err)
	assert.Contains(t, stdout, "+7")
	assert.NotContains(t, stdout, "birthday")
	assert.Equal(t, 17, readLedger(t, homeDir).Points[ledger.PartyA])
}

func TestAddByDisplayName(t *testing.T) {
	homeDir := t.TempDir()

	stdout, err := execAdd(homeDir, "e", "2025-03-01", true, yesKit())

	require.NoError(t, err)
	assert.Contains(t, stdout, "E")

	st := readLedger(t, homeDir)
	require.Len(t, st.History, 1)
	assert.Equal(t, ledger.PartyB, st.History[0].Party)
}

func TestAddUnknownParty(t *testing.T) {
	homeDir := t.TempDir()

	_, err := execAdd(homeDir, "C", "", true, yesKit())

	assert.ErrorIs(t, err, ledger.ErrUnknownParty)
}

func TestAddInvalidDate(t *testing.T) {
	homeDir := t.TempDir()

	_, err := execAdd(homeDir, "A", "2025-13-01", true, yesKit())

	assert.Error(t, err)
	assert.True(t, readLedger(t, homeDir).IsEmpty())
}

func TestAddNonInteractiveRequiresParty(t *testing.T) {
	homeDir := t.TempDir()

	_, err := execAdd(homeDir, "", "", false, PromptKit{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "party is required")
}

func TestAddDefaultsToToday(t *testing.T) {
	homeDir := t.TempDir()

	_, err := execAdd(homeDir, "B", "", true, yesKit())
	require.NoError(t, err)

	st := readLedger(t, homeDir)
	require.Len(t, st.History, 1)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), st.History[0].Date)
}

func TestAddPromptsForPartyAndDate(t *testing.T) {
	homeDir := t.TempDir()
	pk := testKit(t)
	var selectOptions []string
	pk.Select = func(_ string, options []string) (int, error) {
		selectOptions = options
		return 1, nil
	}
	pk.Prompt = func(_, _ string) (string, error) { return "yesterday", nil }
	var confirmPrompt string
	pk.Confirm = func(prompt string) (bool, error) {
		confirmPrompt = prompt
		return true, nil
	}

	_, err := execAdd(homeDir, "", "", false, pk)

	require.NoError(t, err)
	assert.Equal(t, []string{"M (A)", "E (B)"}, selectOptions)
	assert.Contains(t, confirmPrompt, "E on 2025-03-09")
	assert.Contains(t, confirmPrompt, "+0 points")

	st := readLedger(t, homeDir)
	require.Len(t, st.History, 1)
	assert.Equal(t, ledger.PartyB, st.History[0].Party)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), st.History[0].Date)
}

func TestAddEmptyDateAnswerMeansToday(t *testing.T) {
	homeDir := t.TempDir()
	pk := testKit(t)
	pk.Prompt = func(_, _ string) (string, error) { return "  ", nil }
	pk.Confirm = AlwaysYes()

	_, err := execAdd(homeDir, "A", "", false, pk)

	require.NoError(t, err)
	st := readLedger(t, homeDir)
	require.Len(t, st.History, 1)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), st.History[0].Date)
}

func TestAddCancelled(t *testing.T) {
	homeDir := t.TempDir()
	pk := testKit(t)
	pk.Confirm = answerConfirm(false)

	stdout, err := execAdd(homeDir, "A", "2025-03-01", false, pk)

	require.NoError(t, err)
	assert.Contains(t, stdout, "cancelled")
	assert.True(t, readLedger(t, homeDir).IsEmpty())
}

func TestAddBackdatedDeductsPoints(t *testing.T) {
	homeDir := t.TempDir()

	_, err := execAdd(homeDir, "A", "2025-03-10", true, yesKit())
	require.NoError(t, err)
	stdout, err := execAdd(homeDir, "A", "2025-03-01", true, yesKit())

	require.NoError(t, err)
	assert.Contains(t, stdout, "-9")
	assert.Contains(t, stdout, "earlier than the previous one")
	assert.Equal(t, -9, readLedger(t, homeDir).Points[ledger.PartyA])
}

func TestAddBackdatedClamped(t *testing.T) {
	homeDir := t.TempDir()
	cfg := config.Default()
	cfg.Backdated = string(ledger.BackdateClamp)
	require.NoError(t, config.Write(homeDir, cfg))

	_, err := execAdd(homeDir, "A", "2025-03-10", true, yesKit())
	require.NoError(t, err)
	_, err = execAdd(homeDir, "A", "2025-03-01", true, yesKit())

	require.NoError(t, err)
	assert.Equal(t, 0, readLedger(t, homeDir).Points[ledger.PartyA])
}

func TestAddCorruptLedgerWithYes(t *testing.T) {
	homeDir := t.TempDir()
	writeLedgerFile(t, homeDir, "{not json")

	_, err := execAdd(homeDir, "A", "2025-03-01", true, yesKit())

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrCorrupt)
	assert.Contains(t, err.Error(), "checkin reset")
}

func TestAddCorruptLedgerResetAccepted(t *testing.T) {
	homeDir := t.TempDir()
	writeLedgerFile(t, homeDir, "{not json")
	pk := testKit(t)
	pk.Confirm = AlwaysYes()

	stdout, err := execAdd(homeDir, "A", "2025-03-01", false, pk)

	require.NoError(t, err)
	assert.Contains(t, stdout, "ledger reset")
	assert.Len(t, readLedger(t, homeDir).History, 1)
}

func TestAddCorruptLedgerResetDeclined(t *testing.T) {
	homeDir := t.TempDir()
	writeLedgerFile(t, homeDir, "{not json")
	pk := testKit(t)
	pk.Confirm = answerConfirm(false)

	_, err := execAdd(homeDir, "A", "2025-03-01", false, pk)

	assert.ErrorIs(t, err, store.ErrCorrupt)
	data, readErr := os.ReadFile(config.Default().DataPath(homeDir))
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(data))
}

func TestAddWithSQLiteStorage(t *testing.T) {
	homeDir := t.TempDir()
	cfg := config.Default()
	cfg.Storage = config.StorageSQLite
	require.NoError(t, config.Write(homeDir, cfg))

	_, err := execAdd(homeDir, "A", "2024-08-23", true, yesKit())
	require.NoError(t, err)
	_, err = execAdd(homeDir, "A", "2024-08-30", true, yesKit())
	require.NoError(t, err)

	db, err := sqlite.Open(context.Background(), cfg.DataPath(homeDir))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	st, err := db.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 17, st.Points[ledger.PartyA])
	assert.Len(t, st.History, 2)
}
