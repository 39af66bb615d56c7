package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ddddddO/gtree"

	"github.com/NielsdaWheelz/wsgen/internal/graph"
)

// WriteGraphTree draws the workspace graph: one branch per node with its
// facets and dependencies as leaves.
func WriteGraphTree(w io.Writer, g *graph.Graph) error {
	root := gtree.NewRoot(g.Choices.ProjectName)
	for _, n := range g.Nodes() {
		branch := root.Add(nodeLabel(n))
		if len(n.Facets) > 0 {
			branch.Add("facets: " + strings.Join(n.FacetIDs(), ", "))
		}
		if len(n.DependsOn) > 0 {
			deps := branch.Add("depends on")
			for _, d := range n.DependsOn {
				deps.Add(d)
			}
		}
	}
	return gtree.OutputFromRoot(w, root)
}

func nodeLabel(n *graph.Node) string {
	label := fmt.Sprintf("%s (%s %s)", n.ID, n.KindName(), n.Kind)
	if n.Path != n.ID {
		label += " at " + n.Path
	}
	return label
}
