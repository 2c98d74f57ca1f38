package sqlite

// Migrations returns the schema statements, one statement per string.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ledger_parties (
			party        TEXT PRIMARY KEY,
			points       INTEGER NOT NULL DEFAULT 0,
			last_contact TEXT
		)`,

		// seq preserves insertion order; dates are YYYY-MM-DD.
		`CREATE TABLE IF NOT EXISTS ledger_events (
			seq         INTEGER PRIMARY KEY,
			party       TEXT NOT NULL,
			date        TEXT NOT NULL,
			points      INTEGER NOT NULL,
			is_birthday INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_events_party ON ledger_events(party, seq)`,
	}
}
