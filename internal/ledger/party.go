package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Party identifies one of the two tracked people.
type Party string

const (
	PartyA Party = "A"
	PartyB Party = "B"
)

// Parties lists every party in display order.
var Parties = []Party{PartyA, PartyB}

var ErrUnknownParty = errors.New("unknown party")

// Valid reports whether p is one of the fixed parties.
func (p Party) Valid() bool {
	return p == PartyA || p == PartyB
}

// ParseParty resolves s to a party, accepting either the party key ("A", "B")
// or its display name from names. Matching is case-insensitive.
func ParseParty(s string, names map[Party]string) (Party, error) {
	s = strings.TrimSpace(s)
	for _, p := range Parties {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	for _, p := range Parties {
		if name, ok := names[p]; ok && name != "" && strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownParty, s)
}
