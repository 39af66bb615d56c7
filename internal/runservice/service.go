// Package runservice provides the concrete implementation of pipeline.Steps.
// It wires the graph builder, config resolver, file writer, target lock and
// package-manager adapter together for one generation run.
package runservice

import (
	"context"
	"io"
	"time"

	"github.com/NielsdaWheelz/wsgen/internal/adapter"
	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/exec"
	"github.com/NielsdaWheelz/wsgen/internal/fs"
	"github.com/NielsdaWheelz/wsgen/internal/git"
	"github.com/NielsdaWheelz/wsgen/internal/graph"
	"github.com/NielsdaWheelz/wsgen/internal/lock"
	"github.com/NielsdaWheelz/wsgen/internal/logger"
	"github.com/NielsdaWheelz/wsgen/internal/pipeline"
	"github.com/NielsdaWheelz/wsgen/internal/resolve"
	"github.com/NielsdaWheelz/wsgen/internal/state"
	"github.com/NielsdaWheelz/wsgen/internal/writer"
)

// Warning codes.
const (
	WarnGitInit = "W_GIT_INIT_FAILED"
)

// Service is the production implementation of pipeline.Steps.
type Service struct {
	cr      exec.CommandRunner
	fsys    fs.FS
	cat     *catalog.Catalog
	nowFunc func() time.Time
	// installOut receives install output as it is produced.
	installOut io.Writer
}

// New creates a new Service with production dependencies.
func New(cat *catalog.Catalog, installOut io.Writer) *Service {
	return &Service{
		cr:         exec.NewRealRunner(),
		fsys:       fs.NewRealFS(),
		cat:        cat,
		nowFunc:    time.Now,
		installOut: installOut,
	}
}

// NewWithDeps creates a new Service with injected dependencies for testing.
func NewWithDeps(cr exec.CommandRunner, fsys fs.FS, cat *catalog.Catalog) *Service {
	return &Service{
		cr:      cr,
		fsys:    fsys,
		cat:     cat,
		nowFunc: time.Now,
	}
}

// SetInstallOutput streams install output to w.
func (s *Service) SetInstallOutput(w io.Writer) {
	s.installOut = w
}

// SetNowFunc overrides the time source for testing.
func (s *Service) SetNowFunc(fn func() time.Time) {
	s.nowFunc = fn
}

func (s *Service) store(st *pipeline.State) *state.Store {
	return state.NewStore(s.fsys, st.Opts.Target, st.Opts.StateDir, s.nowFunc)
}

// checkTarget enforces the init/sync precondition on the ledger.
func checkTarget(cmd pipeline.Command, exists bool, target string) error {
	switch {
	case cmd == pipeline.CommandInit && exists:
		return errors.WithHint(
			errors.NewWithDetails(errors.EAlreadyInitialized, "target already holds a generated workspace",
				map[string]string{"target": target}),
			"use `wsgen sync` to regenerate it")
	case cmd == pipeline.CommandSync && !exists:
		return errors.WithHint(
			errors.NewWithDetails(errors.ENotInitialized, "target has no generator state",
				map[string]string{"target": target}),
			"use `wsgen init` to generate a workspace first")
	}
	return nil
}

// Plan loads the ledger, settles the ChoiceSet and builds the graph.
// It reads the target but never writes to it.
func (s *Service) Plan(_ context.Context, st *pipeline.State) error {
	store := s.store(st)
	exists, err := store.Exists()
	if err != nil {
		return err
	}
	if err := checkTarget(st.Opts.Command, exists, st.Opts.Target); err != nil {
		return err
	}
	ledger, err := store.Load()
	if err != nil {
		return err
	}
	st.Ledger = ledger

	var recorded = &ledger.Choices
	if !exists {
		recorded = nil
	}
	if st.Opts.Choose == nil {
		if recorded == nil {
			return errors.New(errors.EUsage, "no choices supplied")
		}
		st.Choices = recorded.Clone()
	} else {
		cs, err := st.Opts.Choose(recorded)
		if err != nil {
			return err
		}
		st.Choices = cs
	}

	g, err := graph.Build(st.Choices, s.cat)
	if err != nil {
		return err
	}
	st.Graph = g
	st.Choices = g.Choices
	return nil
}

// Validate resolves config chains and lays out every output file.
func (s *Service) Validate(_ context.Context, st *pipeline.State) error {
	if err := resolve.Resolve(st.Graph, s.cat); err != nil {
		return err
	}
	ad, err := adapter.For(st.Choices.Runtime, adapter.Options{
		Command: st.Opts.InstallCommands[st.Choices.Runtime],
		Runner:  s.cr,
		Stdout:  s.installOut,
		Stderr:  s.installOut,
	})
	if err != nil {
		return err
	}
	st.Adapter = ad
	plan, err := writer.NewPlan(st.Graph, s.cat, ad)
	if err != nil {
		return err
	}
	st.Plan = plan
	return nil
}

// Write materializes the plan. Mutating runs hold the target lock and
// re-read the ledger under it.
func (s *Service) Write(ctx context.Context, st *pipeline.State) error {
	log := logger.Named("runservice")
	store := s.store(st)
	ledger := st.Ledger

	if !st.Opts.DryRun {
		if err := s.fsys.MkdirAll(st.Opts.Target, 0o755); err != nil {
			return errors.WrapWithDetails(errors.EIO, "failed to create target directory", err,
				map[string]string{"target": st.Opts.Target})
		}
		tl := lock.New(store.DirPath())
		tl.Now = s.nowFunc
		if st.Opts.LockStaleAfter > 0 {
			tl.StaleAfter = st.Opts.LockStaleAfter
		}
		unlock, err := tl.Lock(string(st.Opts.Command))
		if err != nil {
			return err
		}
		defer func() {
			if err := unlock(); err != nil {
				log.Warnw("failed to release lock", "error", err)
			}
		}()

		// Another run may have finished between planning and locking.
		if st.Opts.Command == pipeline.CommandInit {
			exists, err := store.Exists()
			if err != nil {
				return err
			}
			if err := checkTarget(st.Opts.Command, exists, st.Opts.Target); err != nil {
				return err
			}
		} else if ledger, err = store.Load(); err != nil {
			return err
		}
	}

	report, err := writer.Write(ctx, st.Plan, writer.Options{
		FS:          s.fsys,
		Root:        st.Opts.Target,
		Store:       store,
		Ledger:      ledger,
		RunID:       st.RunID,
		DryRun:      st.Opts.DryRun,
		Parallelism: st.Opts.Parallelism,
	})
	st.Report = report
	switch errors.GetCode(err) {
	case "":
		if err != nil {
			return err
		}
	case errors.EPartial, errors.ECanceled:
		st.WriteErr = err
	default:
		return err
	}

	if st.Opts.Git && st.Opts.Command == pipeline.CommandInit && !st.Opts.DryRun {
		created, err := git.Init(st.Opts.Target)
		if err != nil {
			st.Warnings = append(st.Warnings, pipeline.Warning{Code: WarnGitInit, Message: err.Error()})
		}
		st.GitInit = created
	}
	return nil
}

// Install runs the package manager in the target.
func (s *Service) Install(ctx context.Context, st *pipeline.State) error {
	status, err := st.Adapter.Install(ctx, st.Opts.Target)
	st.Install = &status
	return err
}
