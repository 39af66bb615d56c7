package graph

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func scenarioA() choices.ChoiceSet {
	return choices.ChoiceSet{
		ProjectName:    "acme",
		Layout:         choices.LayoutMonorepo,
		Runtime:        choices.RuntimeNode,
		Apps:           []choices.AppChoice{{Name: "api", Kind: choices.AppBackend, Framework: "express"}},
		SharedPackages: []choices.PackageKind{choices.PackageTypes, choices.PackageUtils, choices.PackageConfig},
	}
}

func TestBuild_ScenarioA(t *testing.T) {
	g, err := Build(scenarioA(), defaultCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"apps/api", "packages/types", "packages/utils", "packages/config"}, g.IDs())
	api, ok := g.Node("apps/api")
	require.True(t, ok)
	assert.Equal(t, []string{"packages/types", "packages/utils", "packages/config"}, api.DependsOn)
	assert.Equal(t, KindApp, api.Kind)
	assert.Equal(t, "apps/api", api.Path)
	assert.Equal(t, []string{"framework/express"}, api.BundleIDs)

	utils, _ := g.Node("packages/utils")
	assert.Equal(t, []string{"packages/types"}, utils.DependsOn)

	assert.Equal(t, "packages/config", g.ConfigHome)
	assert.Equal(t, "root/node", g.RootBundleID)
	assert.Equal(t, []string{RootTSConfig, RootPrettier}, g.RootConfig)

	order, err := g.TopoOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"packages/types", "packages/config", "packages/utils", "apps/api"}, order)
}

func TestBuild_ScenarioB_AppToAppEdge(t *testing.T) {
	cs := scenarioA()
	cs.Apps = []choices.AppChoice{
		{Name: "api", Kind: choices.AppBackend, Framework: "express"},
		{Name: "worker", Kind: choices.AppBackend, Framework: "express", DependsOn: []string{"apps/api"}},
	}
	_, err := Build(cs, defaultCatalog(t))
	require.Error(t, err)

	ge, ok := errors.AsGenError(err)
	require.True(t, ok)
	assert.Equal(t, errors.EInvalidEdge, ge.Code)
	assert.Equal(t, "apps/worker", ge.Details["from"])
	assert.Equal(t, "apps/api", ge.Details["to"])
	assert.Equal(t, errors.ExitValidation, errors.ExitCode(err))
}

func TestBuild_AppToMissingAppIsStillInvalidEdge(t *testing.T) {
	cs := scenarioA()
	cs.Apps[0].DependsOn = []string{"apps/ghost"}
	_, err := Build(cs, defaultCatalog(t))
	assert.Equal(t, errors.EInvalidEdge, errors.GetCode(err))
}

func TestBuild_DanglingEdge(t *testing.T) {
	cs := scenarioA()
	cs.Apps[0].DependsOn = []string{"packages/ui"}
	_, err := Build(cs, defaultCatalog(t))
	require.Error(t, err)
	ge, _ := errors.AsGenError(err)
	assert.Equal(t, errors.EInvalidEdge, ge.Code)
	assert.Equal(t, "packages/ui", ge.Details["to"])

	cs = scenarioA()
	cs.PackageLinks = map[string][]string{"ui": {"types"}}
	_, err = Build(cs, defaultCatalog(t))
	assert.Equal(t, errors.EInvalidEdge, errors.GetCode(err))
}

func TestBuild_PackageCycle(t *testing.T) {
	cs := scenarioA()
	// utils -> types comes from the catalog; close the loop.
	cs.PackageLinks = map[string][]string{"types": {"utils"}}
	_, err := Build(cs, defaultCatalog(t))
	require.Error(t, err)

	ge, ok := errors.AsGenError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ECyclicDependency, ge.Code)
	assert.Equal(t, "packages/types -> packages/utils -> packages/types", ge.Details["cycle"])
}

func TestBuild_CycleStartsAtSmallestNode(t *testing.T) {
	cs := scenarioA()
	cs.SharedPackages = append(cs.SharedPackages, choices.PackageValidation, choices.PackageUI)
	cs.PackageLinks = map[string][]string{
		"types":  {"validation"},
		"config": {"ui"},
		"ui":     {"config"},
	}
	_, err := Build(cs, defaultCatalog(t))
	require.Error(t, err)
	ge, _ := errors.AsGenError(err)
	assert.Equal(t, "packages/config -> packages/ui -> packages/config", ge.Details["cycle"])
}

func TestBuild_SelfLoop(t *testing.T) {
	cs := scenarioA()
	cs.PackageLinks = map[string][]string{"utils": {"utils"}}
	_, err := Build(cs, defaultCatalog(t))
	require.Error(t, err)
	ge, _ := errors.AsGenError(err)
	assert.Equal(t, errors.ECyclicDependency, ge.Code)
	assert.Equal(t, "packages/utils -> packages/utils", ge.Details["cycle"])
}

func TestBuild_UnknownTemplate(t *testing.T) {
	cs := scenarioA()
	cs.Apps[0].Framework = "rails"
	_, err := Build(cs, defaultCatalog(t))
	require.Error(t, err)
	ge, _ := errors.AsGenError(err)
	assert.Equal(t, errors.EUnknownTemplate, ge.Code)
	assert.Equal(t, "framework", ge.Details["category"])
	assert.Equal(t, "apps/api", ge.Details["node"])
}

func TestBuild_IncompatibleChoices(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*choices.ChoiceSet)
	}{
		{"frontend framework on backend", func(cs *choices.ChoiceSet) { cs.Apps[0].Framework = "react" }},
		{"bun-only framework on node", func(cs *choices.ChoiceSet) { cs.Apps[0].Framework = "elysia" }},
		{"styling on backend", func(cs *choices.ChoiceSet) { cs.Apps[0].Styling = "tailwind" }},
		{"pinia with react", func(cs *choices.ChoiceSet) {
			cs.Apps[0] = choices.AppChoice{Name: "web", Kind: choices.AppFrontend, Framework: "react", StateManagement: "pinia"}
		}},
		{"express on deno", func(cs *choices.ChoiceSet) { cs.Runtime = choices.RuntimeDeno }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := scenarioA()
			tt.mutate(&cs)
			_, err := Build(cs, defaultCatalog(t))
			assert.Equal(t, errors.EInvalidChoices, errors.GetCode(err))
		})
	}
}

func TestBuild_FullStackEdgesAndFacets(t *testing.T) {
	cs := choices.ChoiceSet{
		ProjectName: "acme",
		Layout:      choices.LayoutMonorepo,
		Runtime:     choices.RuntimeNode,
		Apps: []choices.AppChoice{
			{Name: "web", Kind: choices.AppFrontend, Framework: "react", Styling: "tailwind", StateManagement: "zustand", Testing: []string{"vitest", "playwright"}},
			{Name: "api", Kind: choices.AppBackend, Framework: "hono", Auth: "lucia"},
		},
		SharedPackages: []choices.PackageKind{choices.PackageUI, choices.PackageDatabase, choices.PackageTypes, choices.PackageValidation},
		ORM:            choices.ORMDrizzle,
	}
	g, err := Build(cs, defaultCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"apps/web", "apps/api", "packages/types", "packages/validation", "packages/database", "packages/ui"}, g.IDs())

	web, _ := g.Node("apps/web")
	assert.Equal(t, []string{"packages/types", "packages/validation", "packages/ui"}, web.DependsOn)
	assert.Equal(t, []string{"framework:react", "styling:tailwind", "state:zustand", "testing:vitest", "testing:playwright"}, web.FacetIDs())

	api, _ := g.Node("apps/api")
	assert.Equal(t, []string{"packages/types", "packages/database", "packages/validation"}, api.DependsOn)

	db, _ := g.Node("packages/database")
	assert.Equal(t, []string{"package/database", "orm/drizzle"}, db.BundleIDs)
	assert.Equal(t, []string{"packages/types"}, db.DependsOn)

	ui, _ := g.Node("packages/ui")
	// utils was not requested, so only the types edge exists.
	assert.Equal(t, []string{"packages/types"}, ui.DependsOn)
	assert.Equal(t, "config", g.ConfigHome)

	assert.Equal(t, []string{"apps/web", "apps/api"}, g.Dependents("packages/types")[:2])
}

func TestBuild_DatabaseWithoutBackendHasNoDependents(t *testing.T) {
	cs := choices.ChoiceSet{
		ProjectName:    "acme",
		Layout:         choices.LayoutMonorepo,
		Runtime:        choices.RuntimeNode,
		Apps:           []choices.AppChoice{{Name: "web", Kind: choices.AppFrontend, Framework: "vue"}},
		SharedPackages: []choices.PackageKind{choices.PackageDatabase},
		ORM:            choices.ORMPrisma,
	}
	g, err := Build(cs, defaultCatalog(t))
	require.NoError(t, err)
	_, ok := g.Node("packages/database")
	assert.True(t, ok)
	assert.Empty(t, g.Dependents("packages/database"))
}

func TestBuild_Standalone(t *testing.T) {
	cs := choices.ChoiceSet{
		ProjectName: "solo",
		Layout:      choices.LayoutStandalone,
		Runtime:     choices.RuntimeBun,
		Apps:        []choices.AppChoice{{Name: "server", Kind: choices.AppBackend, Framework: "elysia"}},
	}
	g, err := Build(cs, defaultCatalog(t))
	require.NoError(t, err)
	n, _ := g.Node("apps/server")
	assert.Equal(t, ".", n.Path)
	assert.Empty(t, g.RootConfig)
	assert.Equal(t, "config", g.ConfigHome)
	assert.True(t, g.Standalone())
}

func TestLevels(t *testing.T) {
	cs := scenarioA()
	cs.SharedPackages = append(cs.SharedPackages, choices.PackageUI)
	cs.Apps = append(cs.Apps, choices.AppChoice{Name: "web", Kind: choices.AppFrontend, Framework: "react"})
	g, err := Build(cs, defaultCatalog(t))
	require.NoError(t, err)

	var got [][]string
	for _, lvl := range g.Levels() {
		var ids []string
		for _, n := range lvl {
			ids = append(ids, n.ID)
		}
		got = append(got, ids)
	}
	assert.Equal(t, [][]string{
		{"packages/types", "packages/config"},
		{"packages/utils"},
		{"apps/api", "packages/ui"},
		{"apps/web"},
	}, got)
}

// randomChoiceSet draws a ChoiceSet that only uses catalog-compatible
// choices and never declares app-to-app edges.
func randomChoiceSet(r *rand.Rand) choices.ChoiceSet {
	frameworks := map[choices.AppKind][]string{
		choices.AppFrontend: {"react", "vue", "nextjs"},
		choices.AppAdmin:    {"react", "vue", "nextjs"},
		choices.AppBackend:  {"express", "hono", "fastify"},
		choices.AppMobile:   {"expo"},
	}
	cs := choices.ChoiceSet{
		ProjectName: "prop",
		Layout:      choices.LayoutMonorepo,
		Runtime:     choices.RuntimeNode,
		ORM:         choices.ORMNone,
	}
	for _, k := range choices.PackageKinds {
		if r.Intn(2) == 0 {
			cs.SharedPackages = append(cs.SharedPackages, k)
		}
	}
	if cs.HasPackage(choices.PackageDatabase) {
		cs.ORM = choices.ORMs[1+r.Intn(len(choices.ORMs)-1)]
	}
	nApps := 1 + r.Intn(4)
	for i := 0; i < nApps; i++ {
		kind := choices.AppKinds[r.Intn(len(choices.AppKinds))]
		fws := frameworks[kind]
		app := choices.AppChoice{Name: fmt.Sprintf("app%d", i), Kind: kind, Framework: fws[r.Intn(len(fws))]}
		for _, k := range cs.SharedPackages {
			if r.Intn(3) == 0 {
				app.DependsOn = append(app.DependsOn, PackageID(k))
			}
		}
		cs.Apps = append(cs.Apps, app)
	}
	// Forward-only package links (towards earlier canonical kinds) cannot close a cycle.
	for i, from := range cs.SharedPackages {
		for _, to := range cs.SharedPackages[:i] {
			if r.Intn(4) == 0 {
				if cs.PackageLinks == nil {
					cs.PackageLinks = map[string][]string{}
				}
				cs.PackageLinks[string(from)] = append(cs.PackageLinks[string(from)], string(to))
			}
		}
	}
	return cs
}

func TestProperty_AcyclicAndAppsOnlyDependOnPackages(t *testing.T) {
	cat := defaultCatalog(t)
	r := rand.New(rand.NewSource(20240601))
	for i := 0; i < 500; i++ {
		cs := randomChoiceSet(r)
		g, err := Build(cs, cat)
		require.NoError(t, err, "case %d: %+v", i, cs)

		order, err := g.TopoOrder()
		require.NoError(t, err)
		require.Len(t, order, g.Len())
		pos := make(map[string]int, len(order))
		for p, id := range order {
			pos[id] = p
		}
		for _, n := range g.Nodes() {
			for _, d := range n.DependsOn {
				dep, ok := g.Node(d)
				require.True(t, ok, "dangling edge %s -> %s", n.ID, d)
				assert.Less(t, pos[d], pos[n.ID], "%s must come after %s", n.ID, d)
				if n.Kind == KindApp {
					assert.Equal(t, KindPackage, dep.Kind, "app %s depends on %s", n.ID, d)
				}
			}
		}
	}
}
