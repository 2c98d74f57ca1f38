package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/config"
	"github.com/Flyrell/checkin/internal/ledger"
	"github.com/Flyrell/checkin/internal/store"
	"github.com/Flyrell/checkin/internal/store/jsonfile"
	"github.com/Flyrell/checkin/internal/store/sqlite"
)

// session is the configuration and open store a command works against.
type session struct {
	homeDir string
	cfg     *config.Config
	store   store.Store
	close   func() error
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return home, nil
}

// openStore picks the storage backend named in cfg.
func openStore(ctx context.Context, cfg *config.Config, homeDir string) (store.Store, func() error, error) {
	path := cfg.DataPath(homeDir)
	switch cfg.Storage {
	case config.StorageSQLite:
		s, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", path, err)
		}
		return s, s.Close, nil
	default:
		return jsonfile.New(path), func() error { return nil }, nil
	}
}

func openSession(cmd *cobra.Command, homeDir string) (*session, error) {
	cfg, err := config.Read(homeDir)
	if err != nil {
		return nil, err
	}
	st, closeFn, err := openStore(cmdContext(cmd), cfg, homeDir)
	if err != nil {
		return nil, err
	}
	logger(cmd).Debug("opened ledger", "storage", cfg.Storage, "path", cfg.DataPath(homeDir))
	return &session{homeDir: homeDir, cfg: cfg, store: st, close: closeFn}, nil
}

func (s *session) Close() error {
	return s.close()
}

// load reads the ledger. Unreadable data is offered for reset when the
// user can be asked; otherwise the error is returned with a hint.
func (s *session) load(cmd *cobra.Command, pk PromptKit, yes bool) (ledger.State, error) {
	ctx := cmdContext(cmd)
	st, err := s.store.Load(ctx)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, store.ErrCorrupt) {
		return ledger.State{}, err
	}

	logger(cmd).Warn("ledger data is unreadable", "err", err)
	if yes || !pk.Interactive {
		return ledger.State{}, fmt.Errorf("%w (run 'checkin reset' to start over)", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), Error("ledger data is unreadable: ")+Silent(err.Error()))
	ok, perr := pk.Confirm("Reset the ledger and start over?")
	if perr != nil {
		return ledger.State{}, perr
	}
	if !ok {
		return ledger.State{}, err
	}

	empty, rerr := store.Reset(ctx, s.store)
	if rerr != nil {
		return ledger.State{}, rerr
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), Info("ledger reset"))
	return empty, nil
}
