package writer

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/NielsdaWheelz/wsgen/internal/adapter"
	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/graph"
	"github.com/NielsdaWheelz/wsgen/internal/resolve"
)

type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Type            string            `json:"type"`
	Main            string            `json:"main,omitempty"`
	Types           string            `json:"types,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

type rootPackage struct {
	Name            string            `json:"name"`
	Private         bool              `json:"private"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

func rootPackageJSON(meta adapter.RootMeta) ([]byte, error) {
	return adapter.MarshalJSON(rootPackage{
		Name:            meta.Name,
		Private:         true,
		Scripts:         meta.Scripts,
		Dependencies:    meta.Dependencies,
		DevDependencies: meta.DevDependencies,
	})
}

// packageJSON merges the declared dependencies and scripts of every bundle
// of n and pins internal dependencies to the workspace marker. A standalone
// app also absorbs the root bundle.
func (p *planner) packageJSON(n *graph.Node, bs []*catalog.Bundle) ([]byte, error) {
	pkg := packageJSON{
		Name:            p.packageName(n),
		Version:         "0.0.0",
		Private:         true,
		Type:            "module",
		Scripts:         map[string]string{},
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}
	if p.g.Standalone() {
		if root, ok := p.cat.Bundle(p.g.RootBundleID); ok {
			bs = append(bs[:len(bs):len(bs)], root)
		}
	}
	for _, b := range bs {
		if err := catalog.MergeDeps(pkg.Dependencies, b.Dependencies); err != nil {
			return nil, err
		}
		if err := catalog.MergeDeps(pkg.DevDependencies, b.DevDependencies); err != nil {
			return nil, err
		}
		for name, cmd := range b.Scripts {
			if _, ok := pkg.Scripts[name]; !ok {
				pkg.Scripts[name] = cmd
			}
		}
		for _, f := range b.Files {
			if f.Path == "src/index.ts" && n.Kind == graph.KindPackage {
				pkg.Main = "./src/index.ts"
				pkg.Types = "./src/index.ts"
			}
		}
	}
	for _, id := range n.DependsOn {
		dep, _ := p.g.Node(id)
		pkg.Dependencies[p.packageName(dep)] = catalog.WorkspaceRange
		// A workspace marker supersedes any registry range for the same name.
		delete(pkg.DevDependencies, p.packageName(dep))
	}
	return adapter.MarshalJSON(pkg)
}

type reference struct {
	Path string `json:"path"`
}

type compilerOptions struct {
	OutDir          string `json:"outDir"`
	TSBuildInfoFile string `json:"tsBuildInfoFile"`
}

// rootTSConfig builds nothing itself; it only references the nodes.
type rootTSConfig struct {
	Extends    []string    `json:"extends"`
	Files      []string    `json:"files"`
	References []reference `json:"references"`
}

type tsconfig struct {
	Extends         []string         `json:"extends"`
	CompilerOptions *compilerOptions `json:"compilerOptions,omitempty"`
	Include         []string         `json:"include"`
	References      []reference      `json:"references,omitempty"`
}

// tsconfig extends the whole compiler chain and references every
// dependency that has sources of its own.
func (p *planner) tsconfig(n *graph.Node, bs []*catalog.Bundle) ([]byte, error) {
	cfg := tsconfig{
		Extends:         rels(n.ConfigChain[catalog.ConfigCompiler]),
		CompilerOptions: &compilerOptions{OutDir: "dist", TSBuildInfoFile: "dist/.tsbuildinfo"},
		Include:         includes(bs),
	}
	for _, id := range n.DependsOn {
		if !p.sources[id] {
			continue
		}
		dep, _ := p.g.Node(id)
		cfg.References = append(cfg.References, reference{Path: resolve.Rel(n.Path, dep.Path)})
	}
	return adapter.MarshalJSON(cfg)
}

// includes returns the top-level entries that hold a node's sources.
func includes(bs []*catalog.Bundle) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, b := range bs {
		for _, f := range b.Files {
			if !isSource(f.Path) {
				continue
			}
			top, _, nested := strings.Cut(f.Path, "/")
			if nested && !seen[top] {
				seen[top] = true
				out = append(out, top)
			} else if !nested && !seen[f.Path] {
				seen[f.Path] = true
				out = append(out, f.Path)
			}
		}
	}
	sort.Strings(out)
	return out
}

type eslintrc struct {
	Root    bool     `json:"root"`
	Extends []string `json:"extends"`
}

func eslintConfig(n *graph.Node) ([]byte, error) {
	return adapter.MarshalJSON(eslintrc{Root: true, Extends: rels(n.ConfigChain[catalog.ConfigLint])})
}

func rels(links []graph.ConfigLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Rel
	}
	return out
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// prettierConfig spreads every chain link into one object, general first,
// so later presets override earlier ones.
func prettierConfig(links []graph.ConfigLink) []byte {
	var b strings.Builder
	names := make([]string, len(links))
	for i, l := range links {
		_, name, _ := strings.Cut(l.ConfigID, "/")
		names[i] = nonIdent.ReplaceAllString(name, "_") + "Preset"
		fmt.Fprintf(&b, "import %s from %q;\n", names[i], l.Rel)
	}
	b.WriteString("\nexport default {")
	for i, name := range names {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(" ..." + name)
	}
	b.WriteString(" };\n")
	return []byte(b.String())
}

// addRootConfigs plans the solution-style root tsconfig and the root
// formatter config of a monorepo. Both extend only the category bases.
func (p *planner) addRootConfigs(np *NodePlan) error {
	base := func(cc catalog.ConfigCategory) (graph.ConfigLink, error) {
		def, ok := p.cat.Base(cc)
		if !ok {
			return graph.ConfigLink{}, errors.NewWithDetails(errors.EMissingBaseConfig,
				fmt.Sprintf("the catalog has no base %s config", cc),
				map[string]string{"category": string(cc), "node": RootID})
		}
		cp := resolve.ConfigPath(p.g, def)
		return graph.ConfigLink{ConfigID: def.ID, Path: cp, Rel: resolve.Rel(".", cp)}, nil
	}
	compiler, err := base(catalog.ConfigCompiler)
	if err != nil {
		return err
	}
	format, err := base(catalog.ConfigFormat)
	if err != nil {
		return err
	}

	for _, name := range p.g.RootConfig {
		var render func() ([]byte, error)
		switch name {
		case graph.RootTSConfig:
			cfg := rootTSConfig{Extends: []string{compiler.Rel}, Files: []string{}, References: []reference{}}
			for _, n := range p.g.Nodes() {
				if p.sources[n.ID] {
					cfg.References = append(cfg.References, reference{Path: "./" + path.Clean(n.Path)})
				}
			}
			content, err := adapter.MarshalJSON(cfg)
			if err != nil {
				return err
			}
			render = static(content)
		case graph.RootPrettier:
			render = static(prettierConfig([]graph.ConfigLink{format}))
		default:
			continue
		}
		if err := p.add(np, name, render); err != nil {
			return err
		}
	}
	return nil
}
