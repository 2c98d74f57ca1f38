// Package config reads and writes the checkin configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/ledger"
)

const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"

	MatchExact  = "exact"
	MatchYearly = "yearly"
)

var ErrInvalid = errors.New("invalid config")

// PartyConfig describes one party.
type PartyConfig struct {
	Name     string `toml:"name"`
	Birthday string `toml:"birthday"`
}

// Config is the contents of config.toml.
type Config struct {
	Storage       string                 `toml:"storage"`
	DataFile      string                 `toml:"data_file"`
	BirthdayBonus int                    `toml:"birthday_bonus"`
	BirthdayMatch string                 `toml:"birthday_match"`
	Backdated     string                 `toml:"backdated"`
	Parties       map[string]PartyConfig `toml:"parties"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage:       StorageJSON,
		BirthdayBonus: ledger.DefaultBirthdayBonus,
		BirthdayMatch: MatchExact,
		Backdated:     string(ledger.BackdateAllow),
		Parties: map[string]PartyConfig{
			string(ledger.PartyA): {Name: "M", Birthday: "2024-08-23"},
			string(ledger.PartyB): {Name: "E", Birthday: "2024-10-27"},
		},
	}
}

// Dir returns the global checkin directory.
func Dir(homeDir string) string {
	return filepath.Join(homeDir, ".checkin")
}

// Path returns the path to config.toml.
func Path(homeDir string) string {
	return filepath.Join(Dir(homeDir), "config.toml")
}

// DataPath returns the ledger location. Relative data files live in Dir.
func (c *Config) DataPath(homeDir string) string {
	name := c.DataFile
	if name == "" {
		name = "ledger.json"
		if c.Storage == StorageSQLite {
			name = "ledger.db"
		}
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(Dir(homeDir), name)
}

// Read loads config.toml on top of the defaults. Party fields left out of
// the file keep their default values.
// Returns the defaults if the file does not exist.
func Read(homeDir string) (*Config, error) {
	cfg := Default()
	defaults := cfg.Parties
	cfg.Parties = nil

	data, err := os.ReadFile(Path(homeDir))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, Path(homeDir), err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, Path(homeDir), strings.Join(keys, ", "))
	}
	cfg.Parties = mergeParties(defaults, cfg.Parties)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeParties overlays the non-empty fields of file onto defaults.
func mergeParties(defaults, file map[string]PartyConfig) map[string]PartyConfig {
	merged := make(map[string]PartyConfig, len(defaults)+len(file))
	for k, pc := range defaults {
		merged[k] = pc
	}
	for k, pc := range file {
		m := merged[k]
		if pc.Name != "" {
			m.Name = pc.Name
		}
		if pc.Birthday != "" {
			m.Birthday = pc.Birthday
		}
		merged[k] = m
	}
	return merged
}

// Write saves cfg to config.toml, creating the directory if needed.
func Write(homeDir string, cfg *Config) error {
	if err := os.MkdirAll(Dir(homeDir), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(Path(homeDir), buf.Bytes(), 0644)
}

// Validate checks enum values, party keys, names and birthdays.
func (c *Config) Validate() error {
	var problems []string

	switch c.Storage {
	case StorageJSON, StorageSQLite:
	default:
		problems = append(problems, fmt.Sprintf("storage must be %q or %q, got %q", StorageJSON, StorageSQLite, c.Storage))
	}

	switch c.BirthdayMatch {
	case MatchExact, MatchYearly:
	default:
		problems = append(problems, fmt.Sprintf("birthday_match must be %q or %q, got %q", MatchExact, MatchYearly, c.BirthdayMatch))
	}

	switch ledger.BackdatePolicy(c.Backdated) {
	case ledger.BackdateAllow, ledger.BackdateClamp:
	default:
		problems = append(problems, fmt.Sprintf("backdated must be %q or %q, got %q", ledger.BackdateAllow, ledger.BackdateClamp, c.Backdated))
	}

	if c.BirthdayBonus < 0 {
		problems = append(problems, "birthday_bonus must not be negative")
	}

	keys := make([]string, 0, len(c.Parties))
	for k := range c.Parties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !ledger.Party(k).Valid() {
			problems = append(problems, fmt.Sprintf("unknown party %q (expected A or B)", k))
			continue
		}
		if strings.TrimSpace(c.Parties[k].Name) == "" {
			problems = append(problems, fmt.Sprintf("parties.%s.name must not be empty", k))
		}
		if b := c.Parties[k].Birthday; b != "" {
			if _, err := calendar.Parse(b); err != nil {
				problems = append(problems, fmt.Sprintf("parties.%s.birthday: %v", k, err))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Party returns the configuration for p, falling back to its key as name.
func (c *Config) Party(p ledger.Party) PartyConfig {
	pc := c.Parties[string(p)]
	if pc.Name == "" {
		pc.Name = string(p)
	}
	return pc
}

// Names maps each party to its display name.
func (c *Config) Names() map[ledger.Party]string {
	names := make(map[ledger.Party]string, len(ledger.Parties))
	for _, p := range ledger.Parties {
		names[p] = c.Party(p).Name
	}
	return names
}

// Birthday returns the parsed birthday of p, honouring birthday_match.
func (c *Config) Birthday(p ledger.Party) calendar.Birthday {
	raw := c.Party(p).Birthday
	if raw == "" {
		return calendar.Birthday{}
	}
	d, err := calendar.Parse(raw)
	if err != nil {
		return calendar.Birthday{}
	}
	return calendar.Birthday{Date: d, Yearly: c.BirthdayMatch == MatchYearly}
}

// Rules builds the scoring rules.
func (c *Config) Rules() ledger.Rules {
	birthdays := make(map[ledger.Party]calendar.Birthday, len(ledger.Parties))
	for _, p := range ledger.Parties {
		birthdays[p] = c.Birthday(p)
	}
	return ledger.Rules{
		Birthdays:     birthdays,
		BirthdayBonus: c.BirthdayBonus,
		Backdated:     ledger.BackdatePolicy(c.Backdated),
	}
}
