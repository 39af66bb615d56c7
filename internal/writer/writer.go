package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/fs"
	"github.com/NielsdaWheelz/wsgen/internal/logger"
	"github.com/NielsdaWheelz/wsgen/internal/state"
)

// DefaultParallelism bounds concurrent node writes within one level.
const DefaultParallelism = 4

// Options configures Write.
type Options struct {
	FS     fs.FS
	Root   string // absolute target root
	Store  *state.Store
	Ledger *state.State // the ledger of the previous run; empty for a fresh target
	RunID  string
	DryRun bool
	// Parallelism caps the nodes of one level written at the same time.
	Parallelism int
}

// Write renders every planned file and reconciles it with the disk:
//
//   - missing on disk: create
//   - disk equals the proposal: unchanged
//   - disk equals the ledger hash: update
//   - anything else: conflict, the file is left alone
//
// Changed files of a node are staged and renamed into place as the node's
// last step. Per-file failures become report entries and never stop the
// run. The updated ledger is saved at the end, also after cancellation.
// The returned error is E_CANCELED, E_IO (ledger save), E_PARTIAL when the
// report holds conflicts or write errors, or nil.
func Write(ctx context.Context, plan *Plan, opts Options) (*Report, error) {
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	if opts.Ledger == nil {
		opts.Ledger = state.New()
	}
	w := &run{opts: opts, log: logger.Named("writer")}
	report := &Report{RunID: opts.RunID, DryRun: opts.DryRun}

	next := state.New()
	next.Choices = plan.Graph.Choices
	processed := map[string]bool{}

	levels := append([][]NodePlan{{plan.Root}}, plan.Levels...)
	for depth, lvl := range levels {
		if ctx.Err() != nil {
			report.Canceled = true
			break
		}
		results := make([]nodeResult, len(lvl))
		var g errgroup.Group
		g.SetLimit(opts.Parallelism)
		for i, np := range lvl {
			g.Go(func() error {
				// Cancellation is honored between nodes only.
				if ctx.Err() != nil {
					results[i].skipped = true
					return nil
				}
				results[i] = w.writeNode(np)
				return nil
			})
		}
		_ = g.Wait()

		for _, res := range results {
			if res.skipped {
				report.Canceled = true
				continue
			}
			for _, fr := range res.files {
				processed[fr.entry.Path] = true
				report.Entries = append(report.Entries, fr.entry)
				switch fr.entry.Outcome {
				case Create, Update, Unchanged:
					next.Files[fr.entry.Path] = fr.hash
				default:
					if h, ok := opts.Ledger.Owned(fr.entry.Path); ok {
						next.Files[fr.entry.Path] = h
					}
				}
			}
		}
		w.log.Debugw("level done", "level", depth, "nodes", len(lvl))
	}

	for _, p := range opts.Ledger.Paths() {
		if processed[p] {
			continue
		}
		if report.Canceled {
			// Unvisited nodes keep their ownership for the next run.
			next.Files[p] = opts.Ledger.Files[p]
			continue
		}
		if !planned(plan, p) {
			report.Entries = append(report.Entries, Entry{Path: p, Node: ownerOf(plan, p), Outcome: Orphaned})
		}
	}

	if !opts.DryRun {
		_ = opts.FS.RemoveAll(opts.Store.StagingDir(opts.RunID))
		if err := opts.Store.Save(next, opts.RunID); err != nil {
			return report, err
		}
	}

	if report.Canceled {
		return report, errors.WithHint(
			errors.NewWithDetails(errors.ECanceled, "generation canceled between nodes",
				map[string]string{"entries": strconv.Itoa(len(report.Entries))}),
			"re-run sync to finish; completed nodes are recorded in the ledger")
	}
	return report, report.Err()
}

func planned(plan *Plan, p string) bool {
	for _, np := range plan.Nodes() {
		for _, f := range np.Files {
			if f.Path == p {
				return true
			}
		}
	}
	return false
}

// ownerOf attributes a path to the node whose directory contains it.
func ownerOf(plan *Plan, p string) string {
	owner, best := RootID, 0
	for _, np := range plan.Nodes() {
		if np.Path == "." {
			continue
		}
		if strings.HasPrefix(p, np.Path+"/") && len(np.Path) > best {
			owner, best = np.ID, len(np.Path)
		}
	}
	return owner
}

type run struct {
	opts Options
	log  *zap.SugaredLogger
}

type fileResult struct {
	entry Entry
	hash  string
}

type nodeResult struct {
	skipped bool
	files   []fileResult
}

type staged struct {
	idx    int
	from   string
	target string
}

func (w *run) abs(rel string) string {
	return filepath.Join(w.opts.Root, filepath.FromSlash(rel))
}

func (w *run) writeNode(np NodePlan) nodeResult {
	var res nodeResult
	var pending []staged
	stage := filepath.Join(w.opts.Store.StagingDir(w.opts.RunID), stagingName(np.ID))

	for _, f := range np.Files {
		fr := fileResult{entry: Entry{Path: f.Path, Node: np.ID}}
		content, outcome, err := w.decide(f)
		switch {
		case err != nil:
			fr.entry.Outcome = WriteError
			fr.entry.Code = errors.EWriteFailed
			fr.entry.Error = err.Error()
		default:
			fr.entry.Outcome = outcome
			fr.hash = state.Hash(content)
			if outcome == Conflict {
				fr.entry.Code = errors.EConflict
			}
		}

		if !w.opts.DryRun && (fr.entry.Outcome == Create || fr.entry.Outcome == Update) {
			from := filepath.Join(stage, filepath.FromSlash(f.Path))
			if err := w.stageFile(from, content); err != nil {
				fr.entry.Outcome = WriteError
				fr.entry.Code = errors.EWriteFailed
				fr.entry.Error = err.Error()
			} else {
				pending = append(pending, staged{idx: len(res.files), from: from, target: w.abs(f.Path)})
			}
		}
		w.log.Debugw("file planned", "node", np.ID, "path", f.Path, "outcome", fr.entry.Outcome)
		res.files = append(res.files, fr)
	}

	// Move staged files into place as the node's last step.
	for _, s := range pending {
		err := w.opts.FS.MkdirAll(filepath.Dir(s.target), 0o755)
		if err == nil {
			err = w.opts.FS.Rename(s.from, s.target)
		}
		if err != nil {
			w.fail(&res.files[s.idx], err)
		}
	}
	if len(pending) > 0 {
		_ = w.opts.FS.RemoveAll(stage)
	}

	w.log.Infow("node written", "node", np.ID, "files", len(np.Files), "changed", len(pending))
	return res
}

func (w *run) fail(fr *fileResult, err error) {
	fr.entry.Outcome = WriteError
	fr.entry.Code = errors.EWriteFailed
	fr.entry.Error = err.Error()
	w.log.Warnw("write failed", "node", fr.entry.Node, "path", fr.entry.Path, "error", err)
}

// decide renders f and classifies it against the disk and the ledger.
func (w *run) decide(f File) ([]byte, Outcome, error) {
	content, err := f.Render()
	if err != nil {
		return nil, "", fmt.Errorf("render %s: %w", f.Path, err)
	}
	proposed := state.Hash(content)

	disk, err := w.opts.FS.ReadFile(w.abs(f.Path))
	if err != nil {
		if os.IsNotExist(err) {
			return content, Create, nil
		}
		return nil, "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	onDisk := state.Hash(disk)
	if onDisk == proposed {
		return content, Unchanged, nil
	}
	if recorded, ok := w.opts.Ledger.Owned(f.Path); ok && recorded == onDisk {
		return content, Update, nil
	}
	return content, Conflict, nil
}

func (w *run) stageFile(path string, content []byte) error {
	if err := w.opts.FS.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return w.opts.FS.WriteFile(path, content, 0o644)
}

// stagingName maps a node id to a staging sub-directory.
func stagingName(id string) string {
	if id == RootID {
		return "_root"
	}
	return strings.ReplaceAll(id, "/", "_")
}
