package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spheroedu/bridge/internal/config"
	"github.com/spheroedu/bridge/internal/runtime/sim"
	"github.com/spheroedu/bridge/pkg/core"
)

var serveOpts struct {
	robot  string
	listen string
}

var serveSimCmd = &cobra.Command{
	Use:   "serve-sim",
	Short: "Host a simulated robot over websocket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("sim")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return a.serveSim(ctx)
	},
}

func init() {
	f := serveSimCmd.Flags()
	f.StringVar(&serveOpts.robot, "robot", "", "override runtime.robot")
	f.StringVar(&serveOpts.listen, "listen", "", "override runtime.listenAddr")
}

// runtimePath is the websocket endpoint path, taken from runtime.url.
func runtimePath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "/runtime"
	}
	return u.Path
}

func (a *app) serveSim(ctx context.Context) error {
	cfg := config.GetRuntimeConfig()
	if serveOpts.robot != "" {
		cfg.Robot = serveOpts.robot
	}
	if serveOpts.listen != "" {
		cfg.ListenAddr = serveOpts.listen
	}

	s, err := sim.New(sim.Options{
		Robot:       core.RobotType(cfg.Robot),
		Firmware:    CurrentVersion,
		TimeScale:   cfg.TimeScale,
		EventBuffer: cfg.EventBuffer,
		Logger:      a.Logger,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	srv := sim.NewServer(s, cfg.Secret, a.Logger)
	defer srv.Close()

	path := runtimePath(cfg.URL)
	mux := http.NewServeMux()
	mux.Handle(path, srv)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s clients=%d\n", s.Robot(), srv.Clients())
	})

	hs := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("Simulated robot listening", "addr", cfg.ListenAddr, "path", path, "robot", cfg.Robot)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("Shutting down simulated robot")
	_ = srv.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
