// Package resolve attaches config inheritance chains to graph nodes.
//
// Each node gets, per config category, the category base followed by at
// most one override contributed by its facets. All relative paths between
// node directories and config files are computed here, so nodes never need
// to know where the config home lives.
package resolve

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/graph"
	"github.com/NielsdaWheelz/wsgen/internal/logger"
)

// Resolve sets ConfigChain on every node of g and records the used config
// ids on the graph. It fails with E_CONFIG_CONFLICT, E_MISSING_BASE_CONFIG
// or E_UNKNOWN_CONFIG without modifying g.
func Resolve(g *graph.Graph, cat *catalog.Catalog) error {
	log := logger.Named("resolve")

	chains := make(map[string]map[catalog.ConfigCategory][]graph.ConfigLink, g.Len())
	used := map[string]bool{}
	for _, n := range g.Nodes() {
		chain, err := resolveNode(g, cat, n)
		if err != nil {
			return err
		}
		chains[n.ID] = chain
		for _, links := range chain {
			for _, l := range links {
				used[l.ConfigID] = true
			}
		}
	}

	// Root configs only extend the bases.
	if len(g.RootConfig) > 0 {
		for _, cc := range catalog.ConfigCategories {
			base, ok := cat.Base(cc)
			if !ok {
				return missingBase(cc, ".")
			}
			used[base.ID] = true
		}
	}

	for _, n := range g.Nodes() {
		n.ConfigChain = chains[n.ID]
		log.Debugw("config chain resolved", "node", n.ID, "chain", describe(n.ConfigChain))
	}
	g.UsedConfigs = make([]string, 0, len(used))
	for id := range used {
		g.UsedConfigs = append(g.UsedConfigs, id)
	}
	sort.Strings(g.UsedConfigs)
	g.MarkResolved()
	return nil
}

func resolveNode(g *graph.Graph, cat *catalog.Catalog, n *graph.Node) (map[catalog.ConfigCategory][]graph.ConfigLink, error) {
	// Collect every override per category with the facet that contributed it.
	type contribution struct {
		facet    string
		configID string
	}
	byCategory := map[catalog.ConfigCategory][]contribution{}
	for _, f := range n.Facets {
		for _, ov := range cat.Overrides(f.BundleID()) {
			byCategory[ov.Category] = append(byCategory[ov.Category], contribution{f.ID(), ov.ConfigID})
		}
	}

	chain := make(map[catalog.ConfigCategory][]graph.ConfigLink, len(catalog.ConfigCategories))
	for _, cc := range catalog.ConfigCategories {
		base, ok := cat.Base(cc)
		if !ok {
			return nil, missingBase(cc, n.ID)
		}
		links := []graph.ConfigLink{link(g, n, base, "")}

		contribs := byCategory[cc]
		if len(contribs) > 1 {
			facets := make([]string, len(contribs))
			configs := make([]string, len(contribs))
			for i, c := range contribs {
				facets[i] = c.facet
				configs[i] = c.configID
			}
			return nil, errors.WithHint(
				errors.NewWithDetails(errors.EConfigConflict,
					fmt.Sprintf("%s: facets %s all override the %s config", n.ID, strings.Join(facets, " and "), cc),
					map[string]string{
						"node":     n.ID,
						"category": string(cc),
						"facets":   strings.Join(facets, ","),
						"configs":  strings.Join(configs, ","),
					}),
				"pick at most one choice that customizes each config category")
		}
		if len(contribs) == 1 {
			def, ok := cat.Config(contribs[0].configID)
			if !ok {
				return nil, errors.NewWithDetails(errors.EUnknownConfig,
					fmt.Sprintf("%s: facet %s names unknown config %s", n.ID, contribs[0].facet, contribs[0].configID),
					map[string]string{"node": n.ID, "facet": contribs[0].facet, "config": contribs[0].configID})
			}
			if def.Category != cc {
				return nil, errors.NewWithDetails(errors.EUnknownConfig,
					fmt.Sprintf("%s: config %s is a %s config, not %s", n.ID, def.ID, def.Category, cc),
					map[string]string{"node": n.ID, "facet": contribs[0].facet, "config": def.ID})
			}
			links = append(links, link(g, n, def, contribs[0].facet))
		}
		chain[cc] = links
	}
	return chain, nil
}

func link(g *graph.Graph, n *graph.Node, def *catalog.ConfigDef, facet string) graph.ConfigLink {
	p := ConfigPath(g, def)
	return graph.ConfigLink{ConfigID: def.ID, Facet: facet, Path: p, Rel: Rel(n.Path, p)}
}

// ConfigPath returns the target-relative path of a config definition.
func ConfigPath(g *graph.Graph, def *catalog.ConfigDef) string {
	return path.Join(g.ConfigHome, def.File)
}

// Rel returns target-relative path p as seen from directory dir, always
// starting with "./" or "../" so tools treat it as a file path.
func Rel(dir, p string) string {
	dirParts := split(dir)
	pParts := split(p)
	i := 0
	for i < len(dirParts) && i < len(pParts)-1 && dirParts[i] == pParts[i] {
		i++
	}
	var out []string
	for range dirParts[i:] {
		out = append(out, "..")
	}
	out = append(out, pParts[i:]...)
	rel := strings.Join(out, "/")
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}

func split(p string) []string {
	p = path.Clean(p)
	if p == "." || p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func missingBase(cc catalog.ConfigCategory, node string) error {
	return errors.NewWithDetails(errors.EMissingBaseConfig,
		fmt.Sprintf("the catalog has no base %s config", cc),
		map[string]string{"category": string(cc), "node": node})
}

func describe(chain map[catalog.ConfigCategory][]graph.ConfigLink) string {
	var parts []string
	for _, cc := range catalog.ConfigCategories {
		ids := make([]string, len(chain[cc]))
		for i, l := range chain[cc] {
			ids[i] = l.ConfigID
		}
		parts = append(parts, string(cc)+"="+strings.Join(ids, ">"))
	}
	return strings.Join(parts, " ")
}
