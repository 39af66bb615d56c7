package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/graph"
	"github.com/NielsdaWheelz/wsgen/internal/pipeline"
	"github.com/NielsdaWheelz/wsgen/internal/writer"
)

func init() {
	pterm.DisableStyling()
}

func sampleResult() RunResult {
	res := RunResult{
		RunID:   "20260110120000-a3f2",
		Command: "sync",
		Target:  "/work/acme",
		Entries: []writer.Entry{
			{Path: "package.json", Node: ".", Outcome: writer.Unchanged},
			{Path: "packages/config/base.json", Node: "packages/config", Outcome: writer.Conflict, Code: errors.EConflict},
			{Path: "apps/api/src/index.ts", Node: "apps/api", Outcome: writer.Create},
		},
	}
	res.FillCounts()
	return res
}

func TestWriteReportHuman(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportHuman(&buf, sampleResult(), ReportOptions{}))
	out := buf.String()

	assert.Contains(t, out, "sync /work/acme (run 20260110120000-a3f2)")
	assert.Contains(t, out, "packages/config/base.json")
	assert.NotContains(t, out, "package.json ", "unchanged entries are hidden by default")
	assert.Contains(t, out, "wrote: 1 created, 0 updated, 1 unchanged, 1 conflict\n")
}

func TestWriteReportHuman_DryRunAll(t *testing.T) {
	res := sampleResult()
	res.DryRun = true
	res.Install = &InstallJSON{Command: "pnpm install", ExitCode: 0}

	var buf bytes.Buffer
	require.NoError(t, WriteReportHuman(&buf, res, ReportOptions{All: true}))
	out := buf.String()
	assert.Contains(t, out, "would write:")
	assert.Contains(t, out, "unchanged")
	assert.Contains(t, out, "install: pnpm install (exit 0)")
}

func TestSummary(t *testing.T) {
	got := Summary(map[writer.Outcome]int{writer.Create: 2, writer.Conflict: 3, writer.WriteError: 1, writer.Orphaned: 4})
	assert.Equal(t, "2 created, 0 updated, 0 unchanged, 3 conflicts, 1 write error, 4 orphaned", got)
}

func TestWriteRunJSON(t *testing.T) {
	res := RunResult{RunID: "r1", Command: "init", Error: NewErrorJSON(errors.NewWithDetails(errors.EInvalidEdge, "bad edge", map[string]string{"from": "apps/a"})), ExitCode: 1}

	var buf bytes.Buffer
	require.NoError(t, WriteRunJSON(&buf, res))

	var env struct {
		SchemaVersion string `json:"schema_version"`
		Data          struct {
			Entries []writer.Entry `json:"entries"`
			Counts  map[string]int `json:"counts"`
			Error   ErrorJSON      `json:"error"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, SchemaVersion, env.SchemaVersion)
	assert.NotNil(t, env.Data.Entries)
	assert.Len(t, env.Data.Counts, len(writer.Outcomes))
	assert.Equal(t, "E_INVALID_EDGE", env.Data.Error.Code)
	assert.Equal(t, "apps/a", env.Data.Error.Details["from"])
}

func TestNewRunResult_PartialState(t *testing.T) {
	st := &pipeline.State{Opts: pipeline.Options{Command: pipeline.CommandInit, Target: "/t"}, RunID: "r2"}
	res := NewRunResult(st, errors.New(errors.EUnknownTemplate, "no such framework"))
	assert.Equal(t, "init", res.Command)
	assert.Equal(t, 1, res.ExitCode)
	assert.Empty(t, res.Nodes)
	assert.Equal(t, "E_UNKNOWN_TEMPLATE", res.Error.Code)
}

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	g, err := graph.Build(choices.ChoiceSet{
		ProjectName:    "acme",
		Layout:         choices.LayoutMonorepo,
		Runtime:        choices.RuntimeNode,
		Apps:           []choices.AppChoice{{Name: "api", Kind: choices.AppBackend, Framework: "express"}},
		SharedPackages: []choices.PackageKind{choices.PackageTypes},
	}, cat)
	require.NoError(t, err)
	return g
}

func TestWriteGraphTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGraphTree(&buf, testGraph(t)))
	out := buf.String()
	assert.Contains(t, out, "acme\n")
	assert.Contains(t, out, "apps/api (backend app)")
	assert.Contains(t, out, "facets: framework:express")
	assert.Contains(t, out, "packages/types (types package)")
}

func TestCatalogListing(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	l := NewCatalogListing(cat, catalog.CategoryTesting)
	require.NotEmpty(t, l.Bundles)
	for _, b := range l.Bundles {
		assert.Equal(t, "testing", b.Category)
	}
	assert.Empty(t, l.Configs)

	var buf bytes.Buffer
	require.NoError(t, WriteCatalogHuman(&buf, NewCatalogListing(cat, "")))
	assert.Contains(t, buf.String(), "testing/vitest")
	assert.Contains(t, buf.String(), "compiler/base")
}
