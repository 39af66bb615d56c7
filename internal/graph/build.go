package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/logger"
)

// Root config files owned by the generator in a monorepo.
const (
	RootTSConfig = "tsconfig.json"
	RootPrettier = "prettier.config.mjs"
)

// AppID returns the node id of an app.
func AppID(name string) string { return "apps/" + name }

// PackageID returns the node id of a shared package.
func PackageID(kind choices.PackageKind) string { return "packages/" + string(kind) }

// Build turns a ChoiceSet into a validated, acyclic workspace graph. It
// never touches the filesystem. Errors are E_INVALID_CHOICES,
// E_UNKNOWN_TEMPLATE, E_INVALID_EDGE or E_CYCLIC_DEPENDENCY.
func Build(cs choices.ChoiceSet, cat *catalog.Catalog) (*Graph, error) {
	cs = cs.Normalized()
	if err := choices.Validate(cs); err != nil {
		return nil, err
	}
	log := logger.Named("graph")

	g := newGraph(cs)
	b := &builder{g: g, cat: cat, cs: cs}

	root, err := b.lookup(".", catalog.CategoryRoot, string(cs.Runtime), "", "")
	if err != nil {
		return nil, err
	}
	g.RootBundleID = root.ID
	g.ConfigHome = "config"
	if !g.Standalone() {
		g.RootConfig = []string{RootTSConfig, RootPrettier}
		if cs.HasPackage(choices.PackageConfig) {
			g.ConfigHome = PackageID(choices.PackageConfig)
		}
	}

	for _, app := range cs.Apps {
		if err := b.addApp(app); err != nil {
			return nil, err
		}
	}
	for _, kind := range cs.SharedPackages {
		if err := b.addPackage(kind); err != nil {
			return nil, err
		}
	}
	if err := b.addEdges(); err != nil {
		return nil, err
	}
	if err := checkAcyclic(g); err != nil {
		return nil, err
	}

	log.Debugw("graph built", "nodes", g.Len(), "config_home", g.ConfigHome)
	return g, nil
}

type builder struct {
	g   *Graph
	cat *catalog.Catalog
	cs  choices.ChoiceSet
}

// lookup resolves a bundle and checks it fits the node kind, runtime and
// framework. node names the requesting node in error details.
func (b *builder) lookup(node string, cat catalog.Category, choice, kind, framework string) (*catalog.Bundle, error) {
	bundle, ok := b.cat.Lookup(cat, choice)
	if !ok {
		return nil, errors.WithHint(
			errors.NewWithDetails(errors.EUnknownTemplate,
				fmt.Sprintf("no %s template named %q", cat, choice),
				map[string]string{"node": node, "category": string(cat), "choice": choice}),
			"run 'wsgen catalog' to list available templates")
	}
	if !bundle.Supports(kind, b.cs.Runtime) {
		what := "runtime " + string(b.cs.Runtime)
		if kind != "" {
			what = kind + " on " + what
		}
		return nil, errors.NewWithDetails(errors.EInvalidChoices,
			fmt.Sprintf("%s template %q does not support %s", cat, choice, what),
			map[string]string{"node": node, "template": bundle.ID, "kind": kind, "runtime": string(b.cs.Runtime)})
	}
	if framework != "" && !bundle.SupportsFramework(framework) {
		return nil, errors.NewWithDetails(errors.EInvalidChoices,
			fmt.Sprintf("%s template %q does not work with framework %s", cat, choice, framework),
			map[string]string{"node": node, "template": bundle.ID, "framework": framework})
	}
	return bundle, nil
}

func (b *builder) addApp(app choices.AppChoice) error {
	n := &Node{
		ID:        AppID(app.Name),
		Kind:      KindApp,
		Name:      app.Name,
		AppKind:   app.Kind,
		Framework: app.Framework,
		Path:      AppID(app.Name),
	}
	if b.g.Standalone() {
		n.Path = "."
	}
	kind := string(app.Kind)

	type pick struct {
		facet  string
		cat    catalog.Category
		choice string
	}
	picks := []pick{{FacetFramework, catalog.CategoryFramework, app.Framework}}
	if app.Styling != "" {
		picks = append(picks, pick{FacetStyling, catalog.CategoryStyling, app.Styling})
	}
	if app.StylingOverride != "" {
		picks = append(picks, pick{FacetStylingOverride, catalog.CategoryStyling, app.StylingOverride})
	}
	if app.StateManagement != "" {
		picks = append(picks, pick{FacetState, catalog.CategoryState, app.StateManagement})
	}
	for _, t := range app.Testing {
		picks = append(picks, pick{FacetTesting, catalog.CategoryTesting, t})
	}
	if app.Auth != "" {
		picks = append(picks, pick{FacetAuth, catalog.CategoryAuth, app.Auth})
	}

	for i, p := range picks {
		framework := app.Framework
		if i == 0 {
			framework = ""
		}
		bundle, err := b.lookup(n.ID, p.cat, p.choice, kind, framework)
		if err != nil {
			return err
		}
		if slices.Contains(n.BundleIDs, bundle.ID) {
			return errors.NewWithDetails(errors.EInvalidChoices,
				fmt.Sprintf("app %s selects template %s twice", app.Name, bundle.ID),
				map[string]string{"app": app.Name, "template": bundle.ID})
		}
		n.BundleIDs = append(n.BundleIDs, bundle.ID)
		n.Facets = append(n.Facets, Facet{Kind: p.facet, Category: p.cat, Choice: p.choice})
	}
	b.g.add(n)
	return nil
}

func (b *builder) addPackage(kind choices.PackageKind) error {
	n := &Node{
		ID:          PackageID(kind),
		Kind:        KindPackage,
		Name:        string(kind),
		PackageKind: kind,
		Path:        PackageID(kind),
	}
	bundle, err := b.lookup(n.ID, catalog.CategoryPackage, string(kind), string(kind), "")
	if err != nil {
		return err
	}
	n.BundleIDs = append(n.BundleIDs, bundle.ID)
	n.Facets = append(n.Facets, Facet{Kind: FacetPackage, Category: catalog.CategoryPackage, Choice: string(kind)})

	if kind == choices.PackageDatabase && b.cs.ORM != choices.ORMNone {
		orm, err := b.lookup(n.ID, catalog.CategoryORM, string(b.cs.ORM), string(kind), "")
		if err != nil {
			return err
		}
		n.BundleIDs = append(n.BundleIDs, orm.ID)
		n.Facets = append(n.Facets, Facet{Kind: FacetORM, Category: catalog.CategoryORM, Choice: string(b.cs.ORM)})
	}
	b.g.add(n)
	return nil
}

func (b *builder) addEdges() error {
	cs := b.cs
	has := func(k choices.PackageKind) bool { return cs.HasPackage(k) }

	for _, app := range cs.Apps {
		n := b.g.nodes[AppID(app.Name)]
		for _, k := range []choices.PackageKind{choices.PackageTypes, choices.PackageUtils, choices.PackageConfig} {
			if has(k) {
				n.addDep(PackageID(k))
			}
		}
		if app.Kind == choices.AppBackend && has(choices.PackageDatabase) && cs.ORM != choices.ORMNone {
			n.addDep(PackageID(choices.PackageDatabase))
		}
		if has(choices.PackageValidation) {
			n.addDep(PackageID(choices.PackageValidation))
		}
		if app.Kind.HasUI() && has(choices.PackageUI) {
			n.addDep(PackageID(choices.PackageUI))
		}
	}

	for _, kind := range cs.SharedPackages {
		n := b.g.nodes[PackageID(kind)]
		bundle, _ := b.cat.Bundle(n.BundleIDs[0])
		for _, req := range bundle.Requires {
			if has(choices.PackageKind(req)) {
				n.addDep(PackageID(choices.PackageKind(req)))
			}
		}
	}

	for _, from := range sortedLinkKeys(cs.PackageLinks) {
		fromID := PackageID(choices.PackageKind(from))
		n, ok := b.g.nodes[fromID]
		if !ok {
			return errors.NewWithDetails(errors.EInvalidEdge,
				fmt.Sprintf("package link from %s, which is not a requested shared package", from),
				map[string]string{"from": fromID})
		}
		for _, to := range cs.PackageLinks[from] {
			if err := b.checkTarget(fromID, PackageID(choices.PackageKind(to))); err != nil {
				return err
			}
			n.addDep(PackageID(choices.PackageKind(to)))
		}
	}

	for _, app := range cs.Apps {
		fromID := AppID(app.Name)
		n := b.g.nodes[fromID]
		for _, to := range app.DependsOn {
			if err := b.checkTarget(fromID, to); err != nil {
				return err
			}
			n.addDep(to)
		}
	}
	return nil
}

// checkTarget rejects app->app and dangling edges.
func (b *builder) checkTarget(from, to string) error {
	if strings.HasPrefix(to, "apps/") {
		return errors.WithHint(
			errors.NewWithDetails(errors.EInvalidEdge,
				fmt.Sprintf("%s cannot depend on %s: apps may only depend on shared packages", from, to),
				map[string]string{"from": from, "to": to}),
			"move the shared code into a package under packages/")
	}
	if _, ok := b.g.nodes[to]; !ok {
		return errors.NewWithDetails(errors.EInvalidEdge,
			fmt.Sprintf("%s depends on %s, which is not part of the workspace", from, to),
			map[string]string{"from": from, "to": to})
	}
	return nil
}

func (n *Node) addDep(id string) {
	if !slices.Contains(n.DependsOn, id) {
		n.DependsOn = append(n.DependsOn, id)
	}
}

func sortedLinkKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
