package writer

import (
	"strconv"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

// Outcome is what happened to one path.
type Outcome string

const (
	Create    Outcome = "create"
	Unchanged Outcome = "unchanged"
	Update    Outcome = "update"
	Conflict  Outcome = "conflict"
	// Orphaned paths were generated by an earlier run but are no longer
	// produced. They stay on disk and leave the ledger.
	Orphaned   Outcome = "orphaned"
	WriteError Outcome = "write_error"
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{Create, Update, Unchanged, Conflict, WriteError, Orphaned}

// Entry is the outcome of one path.
type Entry struct {
	Path    string      `json:"path"`
	Node    string      `json:"node"`
	Outcome Outcome     `json:"outcome"`
	Code    errors.Code `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Report lists one entry per planned or orphaned path, in plan order.
type Report struct {
	RunID    string  `json:"run_id"`
	DryRun   bool    `json:"dry_run"`
	Canceled bool    `json:"canceled"`
	Entries  []Entry `json:"entries"`
}

// Counts returns the number of entries per outcome.
func (r *Report) Counts() map[Outcome]int {
	out := make(map[Outcome]int, len(Outcomes))
	for _, e := range r.Entries {
		out[e.Outcome]++
	}
	return out
}

// Filter returns the entries with the given outcome.
func (r *Report) Filter(o Outcome) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Outcome == o {
			out = append(out, e)
		}
	}
	return out
}

// Changed reports whether any path was created or updated.
func (r *Report) Changed() bool {
	c := r.Counts()
	return c[Create]+c[Update] > 0
}

// Err returns E_PARTIAL when the report holds conflicts or write errors,
// and nil otherwise.
func (r *Report) Err() error {
	c := r.Counts()
	if c[Conflict]+c[WriteError] == 0 {
		return nil
	}
	details := map[string]string{
		"conflicts":    strconv.Itoa(c[Conflict]),
		"write_errors": strconv.Itoa(c[WriteError]),
	}
	if conflicts := r.Filter(Conflict); len(conflicts) == 1 {
		details["path"] = conflicts[0].Path
	}
	return errors.WithHint(
		errors.NewWithDetails(errors.EPartial, "generation finished with conflicts or write errors", details),
		"conflicting files were edited by hand and were left untouched; merge the generated change manually or restore the file and re-run sync")
}
