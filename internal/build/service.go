// Package build provides the canonical build execution pipeline for docweave.
// All execution paths (CLI, watch mode, tests) route through Service. The
// pipeline is strictly sequential: expansion completes for all pages before
// resolution starts for any, resolution before verification, verification
// before rendering. The first fatal condition in any pass aborts the run.
package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docweave/internal/config"
	"git.home.luguber.info/inful/docweave/internal/doctest"
	"git.home.luguber.info/inful/docweave/internal/document"
	derrors "git.home.luguber.info/inful/docweave/internal/errors"
	"git.home.luguber.info/inful/docweave/internal/expand"
	"git.home.luguber.info/inful/docweave/internal/lang"
	"git.home.luguber.info/inful/docweave/internal/logfields"
	"git.home.luguber.info/inful/docweave/internal/registry"
	"git.home.luguber.info/inful/docweave/internal/render"
	"git.home.luguber.info/inful/docweave/internal/xref"
)

// Request contains all inputs required to execute a documentation build.
type Request struct {
	// Config is the loaded configuration for this build.
	Config *config.Config
	// Runtime is the documented-language runtime backing directive
	// evaluation, documentation lookup and doctest verification.
	Runtime lang.Runtime
	// DryRun verifies the whole pipeline without writing any output.
	DryRun bool
}

// Result contains the outcome of a build execution.
type Result struct {
	OutputDir string
	Pages     int
	Copied    int // non-page files copied through verbatim
	Duration  time.Duration
}

// Service executes documentation builds.
type Service struct{}

// NewService creates a build service.
func NewService() *Service { return &Service{} }

// Run executes a complete build: discover -> expand -> resolve -> verify -> render.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	cfg := req.Config
	log := slog.With(logfields.RunID(uuid.NewString()[:8]))

	if req.Runtime == nil {
		return nil, derrors.New(derrors.KindInvalidConfig, "no runtime provided")
	}
	if fi, err := os.Stat(cfg.Source); err != nil || !fi.IsDir() {
		return nil, derrors.New(derrors.KindMissingSourceDirectory,
			"source directory %s does not exist", cfg.Source)
	}

	if !req.DryRun {
		if cfg.Clean {
			if err := os.RemoveAll(cfg.Build); err != nil {
				return nil, derrors.Wrap(err, derrors.KindInternal, "cleaning build directory %s", cfg.Build)
			}
		}
		if err := os.MkdirAll(cfg.Build, 0o755); err != nil {
			return nil, derrors.Wrap(err, derrors.KindInternal, "creating build directory %s", cfg.Build)
		}
		if cfg.Assets != "" {
			if err := copyAssets(cfg.Assets, filepath.Join(cfg.Build, "assets")); err != nil {
				return nil, err
			}
		}
	}

	pages, copied, err := discover(ctx, cfg, req.DryRun)
	if err != nil {
		return nil, err
	}
	log.Info("Discovered source tree", logfields.Count(len(pages)), slog.Int("copied", copied))

	// Pass 1: expansion. Builds the global registry as a side effect.
	reg := registry.New()
	eng := expand.New(req.Runtime, reg)
	states := make([]*document.PageState, 0, len(pages))
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st, err := eng.ExpandPage(p)
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	reg.Freeze()
	log.Debug("Expansion complete",
		slog.Int("headers", len(reg.Headers())), slog.Int("doc_entries", len(reg.Docs())))

	// Pass 2: cross-reference resolution against the completed registry.
	if err := xref.New(req.Runtime, reg).ResolveAll(states); err != nil {
		return nil, err
	}

	// Pass 3: doctest verification.
	if err := doctest.New(req.Runtime).VerifyAll(states); err != nil {
		return nil, err
	}

	// Pass 4: rendering.
	if !req.DryRun {
		r := render.New(reg)
		for _, st := range states {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out, err := r.RenderPage(st)
			if err != nil {
				return nil, err
			}
			dest := filepath.Join(cfg.Build, filepath.FromSlash(st.Page.DestPath))
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return nil, derrors.Wrap(err, derrors.KindInternal, "creating directory for %s", dest)
			}
			if err := os.WriteFile(dest, out, 0o644); err != nil {
				return nil, derrors.Wrap(err, derrors.KindInternal, "writing %s", dest)
			}
			log.Debug("Rendered page", logfields.Page(st.Page.SourcePath), logfields.Dest(st.Page.DestPath))
		}
	}

	res := &Result{
		OutputDir: cfg.Build,
		Pages:     len(states),
		Copied:    copied,
		Duration:  time.Since(start),
	}
	log.Info("Build complete",
		logfields.Count(res.Pages),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}
