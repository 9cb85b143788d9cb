package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"musescore/internal/api"
	"musescore/internal/dataset"
	"musescore/internal/geo"
	"musescore/internal/logging"
	"musescore/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scores over HTTP",
		Long: `Serve the scoring API on --addr (default server.addr).

SIGHUP reloads the dataset without dropping in-flight requests.
SIGINT or SIGTERM shut the server down gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", a.cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
			}
			return a.serve(ctx, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

// serve runs the API on ln until ctx is cancelled.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	log := a.logger.Named("serve")

	snap, err := a.dataset(ctx)
	if err != nil {
		return err
	}
	store := dataset.NewStore(snap)
	m := metrics.New()
	m.SetDatasetRecords(snap.Len())

	var boundaries *geo.Boundaries
	if a.cfg.Boundaries.Path != "" {
		boundaries, err = geo.LoadBoundaries(a.cfg.Boundaries.Path)
		if err != nil {
			return err
		}
		log.Info("boundaries loaded", logging.Int("polygons", boundaries.Len()))
	}

	srv := &http.Server{
		Handler: api.NewServer(store, a.scorer, boundaries, m, a.logger.Named("api")).Router(api.Options{
			CORSOrigins:    a.cfg.Server.CORSOrigins,
			RequestTimeout: a.cfg.Server.RequestTimeout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				a.reload(ctx, store, m, log)
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logging.String("addr", ln.Addr().String()), logging.Int("records", snap.Len()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// reload reads the dataset again and swaps it in. A failed reload keeps
// serving the previous snapshot.
func (a *app) reload(ctx context.Context, store *dataset.Store, m *metrics.Metrics, log logging.Logger) {
	start := time.Now()
	snap, err := dataset.Load(ctx, a.cfg, a.logger.Named("dataset"))
	if err != nil {
		log.Error("reload failed, keeping previous dataset", logging.Err(err))
		return
	}
	prev := store.Swap(snap)
	m.SetDatasetRecords(snap.Len())
	log.Info("dataset reloaded",
		logging.Int("records", snap.Len()),
		logging.Int("previous", prev.Len()),
		logging.Duration("took", time.Since(start)))
}
