package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flyrell/checkin/internal/ledger"
)

func execVerify(homeDir string, fix bool) (string, error) {
	stdout := new(bytes.Buffer)
	cmd := verifyCmd
	cmd.SetOut(stdout)

	err := runVerify(cmd, homeDir, fix, PromptKit{})
	return stdout.String(), err
}

const driftedLedger = `{
  "pointsA": 99,
  "pointsB": 0,
  "lastContactA": "2024-08-23",
  "lastContactB": null,
  "history": [
    {"party": "A", "date": "2024-08-23", "points": 10, "isBirthday": true}
  ]
}`

func TestVerifyConsistent(t *testing.T) {
	homeDir := t.TempDir()
	seedHistory(t, homeDir)

	stdout, err := execVerify(homeDir, false)

	require.NoError(t, err)
	assert.Contains(t, stdout, "consistent (4 check-ins)")
}

func TestVerifyDetectsDrift(t *testing.T) {
	homeDir := t.TempDir()
	writeLedgerFile(t, homeDir, driftedLedger)

	stdout, err := execVerify(homeDir, false)

	assert.ErrorIs(t, err, ErrInconsistent)
	assert.Contains(t, stdout, "points 99 do not match history total 10")
	assert.Equal(t, 99, readLedger(t, homeDir).Points[ledger.PartyA])
}

func TestVerifyFix(t *testing.T) {
	homeDir := t.TempDir()
	writeLedgerFile(t, homeDir, driftedLedger)

	stdout, err := execVerify(homeDir, true)

	require.NoError(t, err)
	assert.Contains(t, stdout, "rebuilt")

	st := readLedger(t, homeDir)
	assert.Equal(t, 10, st.Points[ledger.PartyA])
	assert.NoError(t, st.Verify())
}
