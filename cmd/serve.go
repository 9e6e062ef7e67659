// cmd/serve.go
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Bitlatte/pyguide/internal/config"
	"github.com/Bitlatte/pyguide/internal/export"
	"github.com/Bitlatte/pyguide/internal/logger"
	"github.com/Bitlatte/pyguide/internal/model"
	"github.com/Bitlatte/pyguide/internal/nav"
	"github.com/Bitlatte/pyguide/internal/site"
	"github.com/Bitlatte/pyguide/internal/validate"
)

const debounceDuration = 500 * time.Millisecond

var serverPort int // For the --port flag

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site configuration locally and rebuilds on changes",
	Long: `The serve command performs an initial build, then serves the current
configuration, per-page navigation and the check report over HTTP while
watching the content directory and site file, rebuilding on every change.

  GET /site.json            the site configuration
  GET /nav?path=<page>      resolved navigation for a page
  GET /check                the latest check report`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Stop on Ctrl-C or SIGTERM so the server can shut down cleanly
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, appConfig, siteConfig, fmt.Sprintf(":%d", serverPort))
	},
}

// preview holds the state served over HTTP. rebuild replaces it wholesale
// under the lock.
type preview struct {
	app config.Config

	buildMu sync.Mutex // serialises rebuilds

	mu     sync.RWMutex
	cfg    *model.SiteConfig
	report *validate.Report
	builds int
}

func newPreview(app config.Config, cfg *model.SiteConfig) *preview {
	return &preview{app: app, cfg: cfg}
}

// rebuild reloads the site file if there is one, re-checks against content
// and re-exports the artifact.
func (p *preview) rebuild() error {
	p.buildMu.Lock()
	defer p.buildMu.Unlock()

	p.mu.RLock()
	cfg := p.cfg
	p.mu.RUnlock()

	// A site file is the source of truth while serving; re-read it every time
	if p.app.SiteFile != "" {
		loaded, err := site.LoadFile(p.app.SiteFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// An invalid configuration is still served so /check can show why
	_, report, err := runBuildProcess(p.app, cfg, io.Discard)
	if err != nil && !errors.Is(err, validate.ErrInvalidConfig) {
		return err
	}

	p.mu.Lock()
	p.cfg = cfg
	p.report = report
	p.builds++
	p.mu.Unlock()

	logger.Info("rebuilt", "errors", len(report.Errors()), "warnings", len(report.Warnings()))
	return nil
}

func (p *preview) snapshot() (*model.SiteConfig, *validate.Report) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg, p.report
}

// buildCount is the number of completed rebuilds.
func (p *preview) buildCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.builds
}

// ignored reports whether a change at path is our own output. Exported
// artifacts are always ignored; anything else under the output directory
// is ignored unless the output directory also holds the content tree.
func (p *preview) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	out, err := filepath.Abs(p.app.OutputDir)
	if err != nil {
		return false
	}

	if filepath.Dir(abs) == out {
		for _, f := range export.Formats {
			if filepath.Base(abs) == artifactName+f.Ext() {
				return true
			}
		}
	}

	if !within(out, abs) {
		return false
	}
	contentRoot, err := filepath.Abs(p.app.ContentDir)
	if err != nil {
		return true
	}
	return !within(out, contentRoot)
}

// within reports whether path is dir or lies below it. Both must be clean
// absolute paths.
func within(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

type issueJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Path     string `json:"path"`
	Message  string `json:"message"`
}

func (p *preview) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/site.json", func(w http.ResponseWriter, r *http.Request) {
		cfg, _ := p.snapshot()
		writeJSON(w, cfg)
	})
	mux.HandleFunc("/nav", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("path")
		if page == "" {
			http.Error(w, "missing path query parameter", http.StatusBadRequest)
			return
		}
		cfg, _ := p.snapshot()
		writeJSON(w, nav.Resolve(cfg, page))
	})
	mux.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		_, report := p.snapshot()
		// Always an array, never null, so clients can iterate blindly
		issues := []issueJSON{}
		if report != nil {
			for _, i := range report.Issues {
				issues = append(issues, issueJSON{Severity: i.Severity.String(), Code: i.Code, Path: i.Path, Message: i.Message})
			}
		}
		writeJSON(w, map[string]any{"issues": issues})
	})
	return noCache(mux)
}

// noCache sets headers that keep browsers from caching during development.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}

func runServe(ctx context.Context, app config.Config, cfg *model.SiteConfig, addr string) error {
	// Initial build; without it there is nothing to serve
	p := newPreview(app, cfg)
	logger.Info("performing initial build")
	if err := p.rebuild(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	// Setup fsnotify watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	go watchLoop(ctx, watcher, p)
	addWatches(watcher, app)

	srv := &http.Server{Addr: addr, Handler: p.routes(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving site configuration", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
}

// watchLoop turns bursts of file events into a single rebuild each. It
// returns when ctx is done or the watcher is closed.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, p *preview) {
	var buildTimer *time.Timer
	defer func() {
		if buildTimer != nil {
			buildTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return // Channel closed
			}
			// We're interested in events that change file content or structure
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Writing the artifact must not trigger another build
			if p.ignored(event.Name) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			// New subdirectories are not watched automatically
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}

			// Debounce rebuilding
			if buildTimer != nil {
				buildTimer.Stop()
			}
			buildTimer = time.AfterFunc(debounceDuration, func() {
				if err := p.rebuild(); err != nil {
					logger.Error("rebuild failed", "error", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return // Channel closed
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// addWatches watches every directory of the content tree and the directory
// holding the site file. The output directory is left out unless it is the
// content root itself; watchLoop filters the artifacts in that case.
func addWatches(watcher *fsnotify.Watcher, app config.Config) {
	if app.SiteFile != "" {
		dir := filepath.Dir(app.SiteFile)
		if err := watcher.Add(dir); err != nil {
			logger.Warn("failed to watch site file directory", "dir", dir, "error", err)
		}
	}

	root := app.ContentDir
	if _, err := os.Stat(root); os.IsNotExist(err) {
		logger.Warn("content directory not found, not watching", "dir", root)
		return
	}
	outAbs, _ := filepath.Abs(app.OutputDir)

	// fsnotify is not recursive, so add each directory
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Log error but keep watching the rest of the tree
			logger.Warn("error walking content", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root {
			if d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			if abs, absErr := filepath.Abs(path); absErr == nil && abs == outAbs {
				return filepath.SkipDir
			}
		}
		if watchErr := watcher.Add(path); watchErr != nil {
			logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
	if err != nil {
		logger.Warn("error during initial directory walk", "dir", root, "error", err)
	}
}

func isDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve on")
	rootCmd.AddCommand(serveCmd)
}
