package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/webring/pkg/layout"
	"github.com/matzehuels/webring/pkg/render"
	"github.com/matzehuels/webring/pkg/ring"
	"github.com/matzehuels/webring/pkg/source"
)

// serveCommand creates the serve command exposing the ring over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr          string
		width, height float64
		relayout      time.Duration
		flags         directoryFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [directory.toml]",
		Short: "Serve the settled ring layout over HTTP",
		Long: `Serve the settled ring layout over HTTP.

The serve command loads a ring directory, settles the simulation, and exposes
the result:

  GET /ring.json   the settled snapshot
  GET /ring.svg    an SVG rendering
  GET /healthz     liveness probe

With --relayout the directory is reloaded and resettled on an interval, so a
changed directory shows up without a restart.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags, args, addr, width, height, relayout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	flags.register(cmd)
	cmd.Flags().Float64Var(&width, "width", 800, "layout surface width")
	cmd.Flags().Float64Var(&height, "height", 600, "layout surface height")
	cmd.Flags().DurationVar(&relayout, "relayout", 0, "reload and resettle interval (0 disables)")

	return cmd
}

// ringServer holds the latest settled snapshot and the directory's
// declared colors behind a lock. Colors left empty fall back to the
// renderer's defaults; the terminal palette indices the view command
// defaults to are not valid SVG colors.
type ringServer struct {
	mu     sync.RWMutex
	snap   ring.Snapshot
	colors source.Colors
}

func (s *ringServer) state() (ring.Snapshot, source.Colors) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.colors
}

func (s *ringServer) setState(snap ring.Snapshot, colors source.Colors) {
	s.mu.Lock()
	s.snap = snap
	s.colors = colors
	s.mu.Unlock()
}

// ringRouter builds the HTTP routes serving the latest snapshot.
func (c *CLI) ringRouter(srv *ringServer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), c.Logger)))
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/ring.json", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		snap, _ := srv.state()
		if err := enc.Encode(snap); err != nil {
			loggerFromContext(req.Context()).Error("encode snapshot", "err", err)
		}
	})
	r.Get("/ring.svg", func(w http.ResponseWriter, req *http.Request) {
		snap, colors := srv.state()
		dot := render.ToDOT(snap, render.Options{
			Highlight:  req.URL.Query()["highlight"],
			Background: colors.Background,
			Foreground: colors.Foreground,
			Accent:     colors.Accent,
		})
		svg, err := render.RenderSVG(req.Context(), dot)
		if err != nil {
			http.Error(w, "render failed", http.StatusInternalServerError)
			loggerFromContext(req.Context()).Error("render svg", "err", err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	})
	return r
}

func (c *CLI) runServe(ctx context.Context, flags directoryFlags, args []string, addr string, width, height float64, relayout time.Duration) error {
	settle := func(ctx context.Context) (ring.Snapshot, source.Colors, error) {
		doc, err := c.loadDirectory(ctx, flags, args)
		if err != nil {
			return ring.Snapshot{}, source.Colors{}, err
		}
		l := layout.New(doc.Sites, c.layoutOptions(doc, width, height, flags.seed))
		defer l.Close()
		prog := newProgress(c.Logger)
		if err := l.RunToSettled(ctx); err != nil {
			return ring.Snapshot{}, source.Colors{}, err
		}
		prog.done(fmt.Sprintf("Settled %d sites", len(doc.Sites)))
		var colors source.Colors
		if doc.Colors != nil {
			colors = *doc.Colors
		}
		return l.Ring.TakeSnapshot(), colors, nil
	}

	snap, colors, err := settle(ctx)
	if err != nil {
		return fmt.Errorf("initial layout: %w", err)
	}
	srv := &ringServer{snap: snap, colors: colors}

	if relayout > 0 {
		go func() {
			ticker := time.NewTicker(relayout)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					snap, colors, err := settle(ctx)
					if err != nil {
						c.Logger.Warn("relayout failed", "err", err)
						continue
					}
					srv.setState(snap, colors)
					c.Logger.Debug("relayout complete", "run", snap.RunID)
				}
			}
		}()
	}

	httpSrv := &http.Server{Addr: addr, Handler: c.ringRouter(srv)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	c.Logger.Info("serving ring", "addr", addr, "sites", len(snap.Nodes))
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}
