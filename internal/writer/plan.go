// Package writer materializes a resolved workspace graph on disk.
//
// Planning turns the graph into per-node file lists whose contents are
// rendered lazily; writing renders them level by level, compares each
// against the disk and the hash ledger, and moves changed files into place
// through a per-node staging directory.
package writer

import (
	"fmt"
	"path"
	"strings"

	"github.com/NielsdaWheelz/wsgen/internal/adapter"
	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/graph"
	"github.com/NielsdaWheelz/wsgen/internal/resolve"
)

// RootID is the id of the pseudo-node that owns root-level files.
const RootID = "."

// Generated per-node file names.
const (
	PackageJSON    = "package.json"
	TSConfig       = "tsconfig.json"
	ESLintConfig   = ".eslintrc.json"
	PrettierConfig = "prettier.config.mjs"
)

// File is one planned output path.
type File struct {
	Path   string // target-relative slash path
	Render func() ([]byte, error)
}

// NodePlan is the file set of one node.
type NodePlan struct {
	ID    string
	Path  string
	Files []File
}

// Plan is the complete output of a run: the root pseudo-node followed by
// graph nodes grouped into dependency levels.
type Plan struct {
	Graph  *graph.Graph
	Root   NodePlan
	Levels [][]NodePlan
}

// Nodes returns every node plan in write order.
func (p *Plan) Nodes() []NodePlan {
	out := []NodePlan{p.Root}
	for _, lvl := range p.Levels {
		out = append(out, lvl...)
	}
	return out
}

// Paths returns every planned path in write order.
func (p *Plan) Paths() []string {
	var out []string
	for _, np := range p.Nodes() {
		for _, f := range np.Files {
			out = append(out, f.Path)
		}
	}
	return out
}

// NewPlan lays out the files of a resolved graph. It renders nothing but
// fails when two files of the run would land on the same path.
func NewPlan(g *graph.Graph, cat *catalog.Catalog, ad adapter.Adapter) (*Plan, error) {
	if !g.Resolved() {
		return nil, errors.New(errors.EInternal, "graph must be resolved before planning")
	}
	p := &planner{g: g, cat: cat, ad: ad, sources: map[string]bool{}, owner: map[string]string{}}
	if err := p.scanSources(); err != nil {
		return nil, err
	}
	plan := &Plan{Graph: g}

	root, err := p.rootPlan()
	if err != nil {
		return nil, err
	}
	plan.Root = root
	for _, lvl := range g.Levels() {
		var nodes []NodePlan
		for _, n := range lvl {
			np, err := p.nodePlan(n)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, np)
		}
		plan.Levels = append(plan.Levels, nodes)
	}
	return plan, nil
}

type planner struct {
	g   *graph.Graph
	cat *catalog.Catalog
	ad  adapter.Adapter
	// sources records nodes that contain TypeScript sources and therefore
	// take part in project references.
	sources map[string]bool
	owner   map[string]string // path -> node id
}

func (p *planner) bundles(n *graph.Node) ([]*catalog.Bundle, error) {
	out := make([]*catalog.Bundle, 0, len(n.BundleIDs))
	for _, id := range n.BundleIDs {
		b, ok := p.cat.Bundle(id)
		if !ok {
			return nil, errors.NewWithDetails(errors.EUnknownTemplate, "graph references a template the catalog lacks",
				map[string]string{"node": n.ID, "template": id})
		}
		out = append(out, b)
	}
	return out, nil
}

func (p *planner) scanSources() error {
	for _, n := range p.g.Nodes() {
		bs, err := p.bundles(n)
		if err != nil {
			return err
		}
		for _, b := range bs {
			for _, f := range b.Files {
				if isSource(f.Path) {
					p.sources[n.ID] = true
				}
			}
		}
	}
	return nil
}

func isSource(p string) bool {
	for _, ext := range []string{".ts", ".tsx", ".mts", ".vue"} {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// add registers a file under node id, rejecting unsafe or duplicate paths.
func (p *planner) add(np *NodePlan, rel string, render func() ([]byte, error)) error {
	full := path.Join(np.Path, rel)
	if path.IsAbs(rel) || full != path.Clean(full) || full == "." || strings.HasPrefix(full, "../") {
		return errors.NewWithDetails(errors.EInternal, "template path escapes its node",
			map[string]string{"node": np.ID, "path": rel})
	}
	if other, ok := p.owner[full]; ok {
		return errors.NewWithDetails(errors.EInternal,
			fmt.Sprintf("%s and %s both produce %s", other, np.ID, full),
			map[string]string{"path": full, "node": np.ID, "other": other})
	}
	p.owner[full] = np.ID
	np.Files = append(np.Files, File{Path: full, Render: render})
	return nil
}

func (p *planner) baseContext() catalog.RenderContext {
	cs := p.g.Choices
	return catalog.RenderContext{
		Project: cs.ProjectName,
		Scope:   "@" + cs.ProjectName,
		Layout:  cs.Layout,
		Runtime: cs.Runtime,
		ORM:     cs.ORM,
	}
}

// packageName is the npm name of a node.
func (p *planner) packageName(n *graph.Node) string {
	if p.g.Standalone() {
		return p.g.Choices.ProjectName
	}
	return "@" + p.g.Choices.ProjectName + "/" + n.Name
}

func (p *planner) nodeContext(n *graph.Node) catalog.RenderContext {
	rc := p.baseContext()
	rc.NodeID = n.ID
	rc.NodeName = n.Name
	rc.NodePath = n.Path
	rc.PackageName = p.packageName(n)
	rc.Kind = n.KindName()
	rc.Framework = n.Framework
	rc.Facets = n.FacetIDs()
	for _, id := range n.DependsOn {
		dep, _ := p.g.Node(id)
		rc.Internal = append(rc.Internal, catalog.InternalDep{
			ID:   dep.ID,
			Name: p.packageName(dep),
			Kind: dep.KindName(),
			Rel:  resolve.Rel(n.Path, dep.Path),
		})
	}
	return rc
}

func renderBundleFile(f catalog.File, rc catalog.RenderContext) func() ([]byte, error) {
	return func() ([]byte, error) {
		s, err := f.Render(rc)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
}

func static(b []byte) func() ([]byte, error) {
	return func() ([]byte, error) { return b, nil }
}

func (p *planner) rootPlan() (NodePlan, error) {
	np := NodePlan{ID: RootID, Path: "."}
	rootBundle, ok := p.cat.Bundle(p.g.RootBundleID)
	if !ok {
		return np, errors.NewWithDetails(errors.EUnknownTemplate, "graph references a template the catalog lacks",
			map[string]string{"node": RootID, "template": p.g.RootBundleID})
	}
	rc := p.baseContext()
	rc.NodeID = RootID
	rc.NodeName = p.g.Choices.ProjectName
	rc.NodePath = "."
	rc.PackageName = p.g.Choices.ProjectName
	rc.Kind = "root"

	for _, f := range rootBundle.Files {
		if err := p.add(&np, f.Path, renderBundleFile(f, rc)); err != nil {
			return np, err
		}
	}

	if !p.g.Standalone() {
		if err := p.addRootConfigs(&np); err != nil {
			return np, err
		}
		meta := adapter.RootMeta{
			Name:            p.g.Choices.ProjectName,
			Scripts:         rootBundle.Scripts,
			Dependencies:    rootBundle.Dependencies,
			DevDependencies: rootBundle.DevDependencies,
		}
		m, err := p.ad.EmitWorkspaceManifest(p.g, meta)
		if err != nil {
			return np, err
		}
		if p.g.Choices.Runtime == choices.RuntimeNode {
			content, err := rootPackageJSON(meta)
			if err != nil {
				return np, err
			}
			if err := p.add(&np, PackageJSON, static(content)); err != nil {
				return np, err
			}
		}
		if err := p.add(&np, m.Path, static(m.Content)); err != nil {
			return np, err
		}
	}

	if !p.configHomeIsNode() {
		if err := p.addConfigDefs(&np, rc); err != nil {
			return np, err
		}
	}
	return np, nil
}

func (p *planner) configHomeIsNode() bool {
	for _, n := range p.g.Nodes() {
		if n.Path == p.g.ConfigHome {
			return true
		}
	}
	return false
}

// addConfigDefs plans every config definition used by the graph. Paths are
// target-relative, so np.Path is stripped before add re-joins it.
func (p *planner) addConfigDefs(np *NodePlan, rc catalog.RenderContext) error {
	for _, id := range p.g.UsedConfigs {
		def, ok := p.cat.Config(id)
		if !ok {
			return errors.NewWithDetails(errors.EUnknownConfig, "resolved chain names an unknown config",
				map[string]string{"config": id})
		}
		full := resolve.ConfigPath(p.g, def)
		rel := strings.TrimPrefix(full, np.Path+"/")
		if np.Path == "." {
			rel = full
		}
		render := def.Render
		if err := p.add(np, rel, func() ([]byte, error) {
			s, err := render(rc)
			return []byte(s), err
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) nodePlan(n *graph.Node) (NodePlan, error) {
	np := NodePlan{ID: n.ID, Path: n.Path}
	bs, err := p.bundles(n)
	if err != nil {
		return np, err
	}
	rc := p.nodeContext(n)

	for _, b := range bs {
		for _, f := range b.Files {
			if err := p.add(&np, f.Path, renderBundleFile(f, rc)); err != nil {
				return np, err
			}
		}
	}

	pkg, err := p.packageJSON(n, bs)
	if err != nil {
		return np, err
	}
	generated := []struct {
		name    string
		content func() ([]byte, error)
	}{
		{PackageJSON, static(pkg)},
		{TSConfig, func() ([]byte, error) { return p.tsconfig(n, bs) }},
		{ESLintConfig, func() ([]byte, error) { return eslintConfig(n) }},
		{PrettierConfig, func() ([]byte, error) { return prettierConfig(n.ConfigChain[catalog.ConfigFormat]), nil }},
	}
	for _, gf := range generated {
		if err := p.add(&np, gf.name, gf.content); err != nil {
			return np, err
		}
	}

	if n.Path == p.g.ConfigHome {
		if err := p.addConfigDefs(&np, rc); err != nil {
			return np, err
		}
	}
	return np, nil
}
