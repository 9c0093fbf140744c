// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Run serves a live preview of the README on addr while w keeps it in sync.
// After every successful resync connected browsers are told to reload.
// It returns when ctx is done or either side fails.
func Run(ctx context.Context, addr string, w *Watcher, resync func() error) error {
	logger := w.logger()
	hub := newReloadHub(logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/", previewHandler(w.Readme, logger))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(ctx, func() {
			if err := resync(); err != nil {
				logger.Error("resync failed", zap.Error(err))
				return
			}
			hub.notify()
		})
	})
	g.Go(func() error {
		logger.Info("serving preview", zap.String("url", "http://"+ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
