package adapter

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/exec"
	"github.com/NielsdaWheelz/wsgen/internal/graph"
)

type stubRunner struct {
	name   string
	args   []string
	dir    string
	result exec.CmdResult
	err    error
}

func (s *stubRunner) Run(_ context.Context, name string, args []string, opts exec.RunOpts) (exec.CmdResult, error) {
	s.name, s.args, s.dir = name, args, opts.Dir
	return s.result, s.err
}

func testGraph(t *testing.T, rt choices.Runtime) *graph.Graph {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	fw := "express"
	if rt == choices.RuntimeDeno {
		fw = "hono"
	}
	g, err := graph.Build(choices.ChoiceSet{
		ProjectName: "acme",
		Layout:      choices.LayoutMonorepo,
		Runtime:     rt,
		Apps: []choices.AppChoice{
			{Name: "web", Kind: choices.AppFrontend, Framework: "vue"},
			{Name: "api", Kind: choices.AppBackend, Framework: fw},
		},
		SharedPackages: []choices.PackageKind{choices.PackageUtils, choices.PackageTypes},
	}, cat)
	require.NoError(t, err)
	return g
}

func TestPnpmManifest(t *testing.T) {
	a, err := For(choices.RuntimeNode, Options{})
	require.NoError(t, err)
	assert.Equal(t, "pnpm", a.Name())

	m, err := a.EmitWorkspaceManifest(testGraph(t, choices.RuntimeNode), RootMeta{})
	require.NoError(t, err)
	assert.Equal(t, "pnpm-workspace.yaml", m.Path)
	assert.Equal(t, "packages:\n  - apps/web\n  - apps/api\n  - packages/types\n  - packages/utils\n", string(m.Content))
}

func TestBunManifest(t *testing.T) {
	a, err := For(choices.RuntimeBun, Options{})
	require.NoError(t, err)

	m, err := a.EmitWorkspaceManifest(testGraph(t, choices.RuntimeBun), RootMeta{
		Name:            "acme",
		Scripts:         map[string]string{"build": "tsc -b"},
		DevDependencies: map[string]string{"typescript": "^5.5.4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "package.json", m.Path)

	var pkg bunPackage
	require.NoError(t, json.Unmarshal(m.Content, &pkg))
	assert.Equal(t, []string{"apps/web", "apps/api", "packages/types", "packages/utils"}, pkg.Workspaces)
	assert.True(t, pkg.Private)
	assert.Equal(t, "tsc -b", pkg.Scripts["build"])
	assert.True(t, strings.HasSuffix(string(m.Content), "}\n"))
}

func TestDenoManifest(t *testing.T) {
	a, err := For(choices.RuntimeDeno, Options{})
	require.NoError(t, err)

	m, err := a.EmitWorkspaceManifest(testGraph(t, choices.RuntimeDeno), RootMeta{Scripts: map[string]string{"dev": "deno task dev"}})
	require.NoError(t, err)
	assert.Equal(t, "deno.json", m.Path)

	var cfg denoConfig
	require.NoError(t, json.Unmarshal(m.Content, &cfg))
	assert.Equal(t, []string{"./apps/web", "./apps/api", "./packages/types", "./packages/utils"}, cfg.Workspace)
}

func TestManifest_Standalone(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	g, err := graph.Build(choices.ChoiceSet{
		ProjectName: "solo",
		Layout:      choices.LayoutStandalone,
		Runtime:     choices.RuntimeNode,
		Apps:        []choices.AppChoice{{Name: "site", Kind: choices.AppFrontend, Framework: "react"}},
	}, cat)
	require.NoError(t, err)

	a, _ := For(choices.RuntimeNode, Options{})
	_, err = a.EmitWorkspaceManifest(g, RootMeta{})
	assert.Equal(t, errors.EInternal, errors.GetCode(err))
}

func TestFor_Unknown(t *testing.T) {
	_, err := For("npm", Options{})
	assert.Equal(t, errors.EUsage, errors.GetCode(err))
}

func TestInstall(t *testing.T) {
	t.Run("default command", func(t *testing.T) {
		r := &stubRunner{}
		a, err := For(choices.RuntimeBun, Options{Runner: r})
		require.NoError(t, err)
		st, err := a.Install(context.Background(), "/work/acme")
		require.NoError(t, err)
		assert.Equal(t, "bun", r.name)
		assert.Equal(t, []string{"install"}, r.args)
		assert.Equal(t, "/work/acme", r.dir)
		assert.Equal(t, "bun install", st.Command)
	})

	t.Run("override is shell-split", func(t *testing.T) {
		r := &stubRunner{}
		a, _ := For(choices.RuntimeNode, Options{Runner: r, Command: `pnpm install --filter "@acme/*"`})
		_, err := a.Install(context.Background(), "/w")
		require.NoError(t, err)
		assert.Equal(t, "pnpm", r.name)
		assert.Equal(t, []string{"install", "--filter", "@acme/*"}, r.args)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		r := &stubRunner{result: exec.CmdResult{ExitCode: 1, Stderr: "resolving\nERR_PNPM_FETCH_404\n"}}
		a, _ := For(choices.RuntimeNode, Options{Runner: r})
		st, err := a.Install(context.Background(), "/w")
		require.Error(t, err)
		assert.Equal(t, 1, st.ExitCode)
		ge, ok := errors.AsGenError(err)
		require.True(t, ok)
		assert.Equal(t, errors.EAdapterFailed, ge.Code)
		assert.Equal(t, "ERR_PNPM_FETCH_404", ge.Details["stderr"])
		assert.Equal(t, errors.ExitInternal, errors.ExitCode(err))
	})

	t.Run("start failure", func(t *testing.T) {
		r := &stubRunner{err: assert.AnError}
		a, _ := For(choices.RuntimeDeno, Options{Runner: r})
		_, err := a.Install(context.Background(), "/w")
		assert.Equal(t, errors.EAdapterFailed, errors.GetCode(err))
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := &stubRunner{err: context.Canceled}
		a, _ := For(choices.RuntimeDeno, Options{Runner: r})
		_, err := a.Install(ctx, "/w")
		assert.Equal(t, errors.ECanceled, errors.GetCode(err))
	})

	t.Run("unparsable override", func(t *testing.T) {
		a, _ := For(choices.RuntimeNode, Options{Runner: &stubRunner{}, Command: `pnpm "install`})
		_, err := a.Install(context.Background(), "/w")
		assert.Equal(t, errors.EAdapterFailed, errors.GetCode(err))
	})
}
