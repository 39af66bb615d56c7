package adapter

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/graph"
)

// Manifest file names.
const (
	PnpmWorkspaceFile = "pnpm-workspace.yaml"
	PackageJSONFile   = "package.json"
	DenoJSONFile      = "deno.json"
)

type pnpm struct{ installer }

func (*pnpm) Name() string { return "pnpm" }

func (*pnpm) EmitWorkspaceManifest(g *graph.Graph, _ RootMeta) (Manifest, error) {
	paths, err := members(g)
	if err != nil {
		return Manifest{}, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Packages []string `yaml:"packages"`
	}{paths}); err != nil {
		return Manifest{}, errors.Wrap(errors.EInternal, "failed to encode pnpm workspace", err)
	}
	if err := enc.Close(); err != nil {
		return Manifest{}, errors.Wrap(errors.EInternal, "failed to encode pnpm workspace", err)
	}
	return Manifest{Path: PnpmWorkspaceFile, Content: buf.Bytes()}, nil
}

type bun struct{ installer }

func (*bun) Name() string { return "bun" }

// bun reads workspace membership from the root package.json.
type bunPackage struct {
	Name            string            `json:"name"`
	Private         bool              `json:"private"`
	Workspaces      []string          `json:"workspaces"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

func (*bun) EmitWorkspaceManifest(g *graph.Graph, root RootMeta) (Manifest, error) {
	paths, err := members(g)
	if err != nil {
		return Manifest{}, err
	}
	content, err := MarshalJSON(bunPackage{
		Name:            root.Name,
		Private:         true,
		Workspaces:      paths,
		Scripts:         root.Scripts,
		Dependencies:    root.Dependencies,
		DevDependencies: root.DevDependencies,
	})
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{Path: PackageJSONFile, Content: content}, nil
}

type deno struct{ installer }

func (*deno) Name() string { return "deno" }

type denoConfig struct {
	Workspace []string          `json:"workspace"`
	Tasks     map[string]string `json:"tasks,omitempty"`
}

func (*deno) EmitWorkspaceManifest(g *graph.Graph, root RootMeta) (Manifest, error) {
	paths, err := members(g)
	if err != nil {
		return Manifest{}, err
	}
	for i, p := range paths {
		paths[i] = "./" + p
	}
	content, err := MarshalJSON(denoConfig{Workspace: paths, Tasks: root.Scripts})
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{Path: DenoJSONFile, Content: content}, nil
}

// MarshalJSON encodes v the way every generated JSON file is laid out:
// two-space indent, no HTML escaping, trailing newline.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(errors.EInternal, "failed to encode json", err)
	}
	return buf.Bytes(), nil
}
