// Package render provides output formatting for wsgen commands.
package render

import (
	"encoding/json"
	"io"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/pipeline"
	"github.com/NielsdaWheelz/wsgen/internal/writer"
)

// SchemaVersion versions every --json envelope.
const SchemaVersion = "1.0"

// NodeSummary is one workspace node in run output.
type NodeSummary struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Path      string   `json:"path"`
	DependsOn []string `json:"depends_on"`
	Facets    []string `json:"facets"`
}

// InstallJSON is the outcome of the package-manager install.
type InstallJSON struct {
	Command  string `json:"command"`
	ExitCode int    `json:"exit_code"`
}

// ErrorJSON is the stable error shape of --json output.
type ErrorJSON struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WarningJSON is one non-fatal warning.
type WarningJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunResult is the public contract for init/sync --json output.
type RunResult struct {
	RunID   string         `json:"run_id"`
	Command string         `json:"command"`
	Target  string         `json:"target"`
	DryRun  bool           `json:"dry_run"`
	Nodes   []NodeSummary  `json:"nodes"`
	Entries []writer.Entry `json:"entries"`
	// Counts maps every outcome to its number of entries, zero included.
	Counts   map[writer.Outcome]int `json:"counts"`
	Install  *InstallJSON           `json:"install"`
	Warnings []WarningJSON          `json:"warnings"`
	Error    *ErrorJSON             `json:"error"`
	ExitCode int                    `json:"exit_code"`
}

// Envelope is the stable JSON wrapper.
type Envelope struct {
	SchemaVersion string `json:"schema_version"`
	Data          any    `json:"data"`
}

// NewErrorJSON converts err into its JSON shape; nil for a nil error.
func NewErrorJSON(err error) *ErrorJSON {
	if err == nil {
		return nil
	}
	ge, ok := errors.AsGenError(err)
	if !ok {
		return &ErrorJSON{Code: string(errors.EInternal), Message: err.Error()}
	}
	return &ErrorJSON{Code: string(ge.Code), Message: ge.Msg, Details: ge.Details}
}

// NewRunResult collects the output of a finished run. st may be partially
// populated when err stopped the run early.
func NewRunResult(st *pipeline.State, err error) RunResult {
	res := RunResult{
		RunID:    st.RunID,
		Command:  string(st.Opts.Command),
		Target:   st.Opts.Target,
		DryRun:   st.Opts.DryRun,
		Error:    NewErrorJSON(err),
		ExitCode: errors.ExitCode(err),
	}
	if st.Graph != nil {
		for _, n := range st.Graph.Nodes() {
			res.Nodes = append(res.Nodes, NodeSummary{
				ID:        n.ID,
				Kind:      n.KindName(),
				Path:      n.Path,
				DependsOn: append([]string{}, n.DependsOn...),
				Facets:    n.FacetIDs(),
			})
		}
	}
	if st.Report != nil {
		res.Entries = st.Report.Entries
	}
	if st.Install != nil {
		res.Install = &InstallJSON{Command: st.Install.Command, ExitCode: st.Install.ExitCode}
	}
	for _, w := range st.Warnings {
		res.Warnings = append(res.Warnings, WarningJSON{Code: w.Code, Message: w.Message})
	}
	res.FillCounts()
	return res
}

// FillCounts sets Counts from Entries.
func (r *RunResult) FillCounts() {
	r.Counts = make(map[writer.Outcome]int, len(writer.Outcomes))
	for _, o := range writer.Outcomes {
		r.Counts[o] = 0
	}
	for _, e := range r.Entries {
		r.Counts[e.Outcome]++
	}
}

// WriteRunJSON writes init/sync output as JSON to the given writer.
func WriteRunJSON(w io.Writer, res RunResult) error {
	// Use empty slices for valid JSON array output
	if res.Nodes == nil {
		res.Nodes = []NodeSummary{}
	}
	if res.Entries == nil {
		res.Entries = []writer.Entry{}
	}
	if res.Warnings == nil {
		res.Warnings = []WarningJSON{}
	}
	if res.Counts == nil {
		res.FillCounts()
	}
	return WriteJSON(w, res)
}

// WriteJSON wraps data in the envelope and writes it indented.
func WriteJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(Envelope{SchemaVersion: SchemaVersion, Data: data})
}
