package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/cladekit/phylogram/pkg/buildinfo"
	"github.com/cladekit/phylogram/pkg/cache"
	phyloerrors "github.com/cladekit/phylogram/pkg/errors"
	"github.com/cladekit/phylogram/pkg/observability"
	"github.com/cladekit/phylogram/pkg/pipeline"
	"github.com/cladekit/phylogram/pkg/treeio"
)

const (
	serverReadTimeout  = 15 * time.Second
	serverWriteTimeout = 60 * time.Second
	maxRequestBody     = 10 << 20 // 10 MiB
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

The server exposes:

  POST /v1/layout   compute a layout from a JSON tree
  GET  /healthz     liveness probe
  GET  /version     build information

With --redis, layouts are cached in Redis so multiple instances share one
store; otherwise the local file cache is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for shared caching (e.g. redis://localhost:6379/0)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the runner and serves until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redisURL string, noCache bool) error {
	store, err := c.newServeCache(ctx, redisURL, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:         addr,
		Handler:      c.routes(runner),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newServeCache picks the cache backend for the server.
func (c *CLI) newServeCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		return cache.NewRedisCache(ctx, redisURL)
	}
	return c.newCache(false)
}

// routes builds the chi router for the API.
func (c *CLI) routes(runner *pipeline.Runner) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/version", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": buildinfo.Version,
			"commit":  buildinfo.Commit,
			"built":   buildinfo.Date,
		})
	})
	r.Post("/v1/layout", c.handleLayout(runner))

	return r
}

// requestLogger logs each request and feeds the server observability hooks.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(req.Context(), req.Method, req.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		duration := time.Since(start)
		observability.Server().OnResponse(req.Context(), req.Method, req.URL.Path, ww.Status(), duration)
		c.Logger.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", middleware.GetReqID(req.Context()))
	})
}

// layoutRequest is the POST /v1/layout body.
type layoutRequest struct {
	Tree    json.RawMessage  `json:"tree"`
	Options pipeline.Options `json:"options"`
}

// layoutResponse is the POST /v1/layout reply.
type layoutResponse struct {
	RunID     string            `json:"run_id"`
	TreeHash  string            `json:"tree_hash"`
	Layout    treeio.LayoutDoc  `json:"layout"`
	NodeCount int               `json:"node_count"`
	LeafCount int               `json:"leaf_count"`
	CacheHit  bool              `json:"cache_hit"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

// errorResponse is the error reply body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleLayout computes a layout for the posted tree.
func (c *CLI) handleLayout(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body := http.MaxBytesReader(w, req.Body, maxRequestBody)
		var payload layoutRequest
		if err := json.NewDecoder(body).Decode(&payload); err != nil {
			writeError(w, phyloerrors.New(phyloerrors.ErrCodeInvalidInput, "decode request: %v", err))
			return
		}
		if len(payload.Tree) == 0 {
			writeError(w, phyloerrors.New(phyloerrors.ErrCodeEmptyTree, "request has no tree"))
			return
		}

		root, err := treeio.UnmarshalTree(payload.Tree)
		if err != nil {
			writeError(w, err)
			return
		}

		opts := payload.Options
		opts.Logger = c.Logger
		// The API returns artifacts inline; default to layout JSON only.
		if len(opts.Formats) == 0 {
			opts.Formats = []string{pipeline.FormatJSON}
		}

		result, err := runner.Execute(req.Context(), root, opts)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := layoutResponse{
			RunID:     result.RunID,
			TreeHash:  result.TreeHash,
			Layout:    treeio.FromResult(result.Layout),
			NodeCount: result.Stats.NodeCount,
			LeafCount: result.Stats.LeafCount,
			CacheHit:  result.CacheInfo.LayoutHit,
		}
		for format, data := range result.Artifacts {
			if format == pipeline.FormatJSON {
				continue // already carried by the layout field
			}
			if resp.Artifacts == nil {
				resp.Artifacts = make(map[string]string)
			}
			resp.Artifacts[format] = string(data)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// writeError maps coded errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := phyloerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case phyloerrors.ErrCodeEmptyTree,
		phyloerrors.ErrCodeMalformedNode,
		phyloerrors.ErrCodeInvalidDisplayLevel,
		phyloerrors.ErrCodeInvalidInput,
		phyloerrors.ErrCodeInvalidOrientation,
		phyloerrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case phyloerrors.ErrCodeNotFound, phyloerrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: phyloerrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
