// Package graph builds the workspace graph: one node per app and shared
// package, with the dependency edges between them.
//
// The graph is built once per run, annotated by the config resolver and
// read-only afterwards.
package graph

import (
	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/choices"
)

// Kind distinguishes apps from shared packages.
type Kind string

const (
	KindApp     Kind = "app"
	KindPackage Kind = "package"
)

// Facet kinds. A facet is one selected template choice on a node.
const (
	FacetFramework       = "framework"
	FacetStyling         = "styling"
	FacetStylingOverride = "styling-override"
	FacetState           = "state"
	FacetTesting         = "testing"
	FacetAuth            = "auth"
	FacetPackage         = "package"
	FacetORM             = "orm"
)

// Facet is a selected template choice on a node.
type Facet struct {
	Kind     string
	Category catalog.Category
	Choice   string
}

// ID returns the facet id, e.g. "styling:tailwind".
func (f Facet) ID() string { return f.Kind + ":" + f.Choice }

// BundleID returns the catalog bundle backing the facet.
func (f Facet) BundleID() string { return catalog.BundleID(f.Category, f.Choice) }

// ConfigLink is one entry of a resolved config chain.
type ConfigLink struct {
	ConfigID string
	// Facet is the facet id that contributed the link; empty for the base.
	Facet string
	// Path is the target-relative path of the config file.
	Path string
	// Rel is Path relative to the node directory, always "./" or "../" prefixed.
	Rel string
}

// Node is one app or shared package.
type Node struct {
	ID          string
	Kind        Kind
	Name        string
	AppKind     choices.AppKind
	PackageKind choices.PackageKind
	Framework   string
	// Path is the target-relative directory; "." for a standalone app.
	Path      string
	DependsOn []string
	BundleIDs []string
	Facets    []Facet
	// ConfigChain is set by the resolver.
	ConfigChain map[catalog.ConfigCategory][]ConfigLink
}

// KindName returns the app kind or package kind as a string.
func (n *Node) KindName() string {
	if n.Kind == KindApp {
		return string(n.AppKind)
	}
	return string(n.PackageKind)
}

// FacetIDs returns the ids of the node's facets in order.
func (n *Node) FacetIDs() []string {
	ids := make([]string, len(n.Facets))
	for i, f := range n.Facets {
		ids[i] = f.ID()
	}
	return ids
}

// Graph is the workspace DAG for one run.
type Graph struct {
	Choices choices.ChoiceSet
	// RootBundleID is the runtime root bundle applied to the target root.
	RootBundleID string
	// RootConfig lists the generator-owned config files at the target root.
	RootConfig []string
	// ConfigHome is the directory shared config definitions are written to.
	ConfigHome string
	// UsedConfigs lists every config id referenced by a chain, sorted. Set by the resolver.
	UsedConfigs []string

	nodes    map[string]*Node
	order    []string
	resolved bool
}

func newGraph(cs choices.ChoiceSet) *Graph {
	return &Graph{Choices: cs, nodes: make(map[string]*Node)}
}

func (g *Graph) add(n *Node) {
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node in insertion order: apps in declaration order,
// then packages in canonical order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// IDs returns node ids in insertion order.
func (g *Graph) IDs() []string {
	return append([]string(nil), g.order...)
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.order) }

// Standalone reports whether the graph is a single app at the target root.
func (g *Graph) Standalone() bool {
	return g.Choices.Layout == choices.LayoutStandalone
}

// Resolved reports whether config chains have been attached.
func (g *Graph) Resolved() bool { return g.resolved }

// MarkResolved is called by the resolver once every chain is set.
func (g *Graph) MarkResolved() { g.resolved = true }

// Dependents returns the ids of nodes that depend on id, in insertion order.
func (g *Graph) Dependents(id string) []string {
	var out []string
	for _, nid := range g.order {
		for _, d := range g.nodes[nid].DependsOn {
			if d == id {
				out = append(out, nid)
				break
			}
		}
	}
	return out
}
