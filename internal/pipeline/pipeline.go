// Package pipeline orchestrates one generation run.
// The pipeline executes phases in a fixed order, short-circuits on the first
// fatal error, and preserves GenError codes.
package pipeline

import (
	"context"
	"time"

	"github.com/NielsdaWheelz/wsgen/internal/adapter"
	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/core"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/graph"
	"github.com/NielsdaWheelz/wsgen/internal/logger"
	"github.com/NielsdaWheelz/wsgen/internal/state"
	"github.com/NielsdaWheelz/wsgen/internal/writer"
)

// Command selects the target precondition of a run.
type Command string

const (
	// CommandInit requires a target without a ledger.
	CommandInit Command = "init"
	// CommandSync requires a target with a ledger.
	CommandSync Command = "sync"
)

// Phase is the run state.
type Phase string

const (
	PhasePlanning   Phase = "planning"
	PhaseValidating Phase = "validating"
	PhaseWriting    Phase = "writing"
	PhaseReporting  Phase = "reporting"
	PhaseInstalling Phase = "installing"
	PhaseDone       Phase = "done"
)

// ChooseFunc produces the ChoiceSet of a run. recorded is the ChoiceSet of
// the previous run, or nil for a fresh target.
type ChooseFunc func(recorded *choices.ChoiceSet) (choices.ChoiceSet, error)

// Options contains the inputs for running a pipeline.
type Options struct {
	Command Command
	Target  string // absolute target root
	Choose  ChooseFunc

	DryRun      bool
	NoInstall   bool
	Git         bool // init only: create a git repository in the target
	Parallelism int
	StateDir    string
	// InstallCommands overrides the package manager's install command line
	// per runtime.
	InstallCommands map[choices.Runtime]string
	LockStaleAfter  time.Duration
}

// Warning represents a non-fatal warning emitted during pipeline execution.
type Warning struct {
	// Code is a stable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string
}

// State accumulates state during pipeline execution.
// Fields are populated by phases as they execute.
type State struct {
	Opts  Options
	RunID string
	Phase Phase

	// Populated by Plan
	Ledger  *state.State
	Choices choices.ChoiceSet
	Graph   *graph.Graph

	// Populated by Validate
	Adapter adapter.Adapter
	Plan    *writer.Plan

	// Populated by Write
	Report   *writer.Report
	WriteErr error // E_PARTIAL or E_CANCELED from the writer
	GitInit  bool

	// Populated by Install
	Install *adapter.ExitStatus

	// Accumulated warnings (non-fatal)
	Warnings []Warning
}

// Steps defines the phase implementations of a run.
// Implementations are injected to allow testing without a real filesystem.
type Steps interface {
	// Plan loads the ledger, settles the ChoiceSet and builds the graph.
	Plan(ctx context.Context, st *State) error

	// Validate resolves config chains and lays out every output file.
	Validate(ctx context.Context, st *State) error

	// Write materializes the plan under the target lock.
	Write(ctx context.Context, st *State) error

	// Install runs the package manager.
	Install(ctx context.Context, st *State) error
}

// Pipeline orchestrates the execution of run phases in a fixed order.
type Pipeline struct {
	steps   Steps
	nowFunc func() time.Time
}

// NewPipeline creates a pipeline with the given step implementation.
func NewPipeline(steps Steps) *Pipeline {
	return &Pipeline{
		steps:   steps,
		nowFunc: time.Now,
	}
}

// SetNowFunc overrides the time source for testing.
func (p *Pipeline) SetNowFunc(fn func() time.Time) {
	p.nowFunc = fn
}

// Run executes the phases in fixed order:
//  1. Planning
//  2. Validating
//  3. Writing
//  4. Reporting
//  5. Installing (skipped for dry runs, --no-install and canceled runs)
//
// Behavior:
//   - Generates run_id immediately and stores it in state
//   - Planning and Validating never touch the filesystem; their errors
//     short-circuit the run
//   - Writing errors of individual files do not stop the run; they surface
//     as E_PARTIAL after Reporting
//   - An install failure is returned in preference to E_PARTIAL
//   - Errors that are not *GenError are wrapped into E_INTERNAL with the
//     phase in details
//   - Returns the state even on error
func (p *Pipeline) Run(ctx context.Context, opts Options) (*State, error) {
	log := logger.Named("pipeline")
	st := &State{Opts: opts}

	runID, err := core.NewRunID(p.nowFunc())
	if err != nil {
		return st, errors.Wrap(errors.EInternal, "failed to generate run_id", err)
	}
	st.RunID = runID

	enter := func(ph Phase) {
		st.Phase = ph
		log.Infow("phase", "phase", ph, "run_id", runID, "command", opts.Command)
	}

	enter(PhasePlanning)
	if err := p.steps.Plan(ctx, st); err != nil {
		return st, wrapStepError(err, PhasePlanning)
	}

	enter(PhaseValidating)
	if err := p.steps.Validate(ctx, st); err != nil {
		return st, wrapStepError(err, PhaseValidating)
	}

	enter(PhaseWriting)
	if err := p.steps.Write(ctx, st); err != nil {
		return st, wrapStepError(err, PhaseWriting)
	}

	enter(PhaseReporting)
	if st.Report != nil {
		c := st.Report.Counts()
		log.Infow("report", "created", c[writer.Create], "updated", c[writer.Update],
			"unchanged", c[writer.Unchanged], "conflicts", c[writer.Conflict],
			"write_errors", c[writer.WriteError], "orphaned", c[writer.Orphaned])
	}
	if errors.GetCode(st.WriteErr) == errors.ECanceled {
		return st, st.WriteErr
	}

	if !opts.DryRun && !opts.NoInstall {
		enter(PhaseInstalling)
		if err := p.steps.Install(ctx, st); err != nil {
			return st, wrapStepError(err, PhaseInstalling)
		}
	}

	st.Phase = PhaseDone
	return st, st.WriteErr
}

// wrapStepError ensures the error is a *GenError.
// If already a *GenError, returns it unchanged.
// Otherwise wraps it with E_INTERNAL and the phase in details.
func wrapStepError(err error, phase Phase) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsGenError(err); ok {
		return err
	}
	return errors.WrapWithDetails(
		errors.EInternal,
		"internal error",
		err,
		map[string]string{"phase": string(phase)},
	)
}
