package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/log"
	"github.com/Flyrell/checkin/internal/server"
)

var serveCmd = LeafCommand{
	Use:   "serve",
	Short: "Serve the ledger over HTTP",
	StrFlags: []StringFlag{
		{Name: "addr", Usage: "listen address", Default: "127.0.0.1:8080"},
	},
	BoolFlags: []BoolFlag{
		{Name: "metrics", Usage: "expose Prometheus metrics on /metrics"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		metrics, _ := cmd.Flags().GetBool("metrics")

		ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cmd, home, addr, metrics)
	},
}.Build()

func runServe(ctx context.Context, cmd *cobra.Command, homeDir, addr string, withMetrics bool) error {
	sess, err := openSession(cmd, homeDir)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	opts := []server.Option{
		server.WithLogger(log.SubLogger(logger(cmd), "server")),
	}
	if withMetrics {
		opts = append(opts, server.WithMetrics(server.NewMetrics()))
	}
	srv := server.New(sess.store, sess.cfg, opts...)

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "serving %s on %s\n",
		Primary(sess.cfg.DataPath(homeDir)), Primary("http://"+addr))

	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
