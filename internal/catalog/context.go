package catalog

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/lithammer/dedent"

	"github.com/NielsdaWheelz/wsgen/internal/choices"
)

// InternalDep is a workspace sibling a node depends on.
type InternalDep struct {
	ID   string // node id, e.g. "packages/types"
	Name string // package name, e.g. "@acme/types"
	Kind string // package kind
	Rel  string // node-relative path to the sibling directory
}

// RenderContext is the data every template renders against.
type RenderContext struct {
	Project     string
	Scope       string // "@<project>"
	Layout      choices.Layout
	Runtime     choices.Runtime
	ORM         choices.ORM
	NodeID      string
	NodeName    string
	NodePath    string
	PackageName string
	Kind        string // app kind or package kind
	Framework   string
	Facets      []string
	Internal    []InternalDep
}

// HasFacet reports whether the node carries a facet id such as "styling:tailwind".
func (rc RenderContext) HasFacet(id string) bool {
	for _, f := range rc.Facets {
		if f == id {
			return true
		}
	}
	return false
}

// DependsOn reports whether the node depends on a sibling package kind.
func (rc RenderContext) DependsOn(kind string) bool {
	_, ok := rc.Dep(kind)
	return ok
}

// Dep returns the sibling of the given package kind.
func (rc RenderContext) Dep(kind string) (InternalDep, bool) {
	for _, d := range rc.Internal {
		if d.Kind == kind {
			return d, true
		}
	}
	return InternalDep{}, false
}

// DepName returns the package name of a sibling kind, or "" when absent.
func (rc RenderContext) DepName(kind string) string {
	d, _ := rc.Dep(kind)
	return d.Name
}

// DepRel returns the node-relative path of a sibling kind, or "" when absent.
func (rc RenderContext) DepRel(kind string) string {
	d, _ := rc.Dep(kind)
	return d.Rel
}

// Title returns the node name with its first letter upper-cased.
func (rc RenderContext) Title() string {
	if rc.NodeName == "" {
		return ""
	}
	return strings.ToUpper(rc.NodeName[:1]) + rc.NodeName[1:]
}

// Text returns a RenderFunc for a text/template body. The body is dedented
// and its leading newline dropped, so templates can be written as indented
// raw strings. Parse errors panic: catalog templates are program constants.
func Text(name, body string) RenderFunc {
	body = strings.TrimPrefix(dedent.Dedent(body), "\n")
	t := template.Must(template.New(name).Option("missingkey=error").Parse(body))
	return func(rc RenderContext) (string, error) {
		var buf bytes.Buffer
		if err := t.Execute(&buf, rc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}

// Static returns a RenderFunc for fixed content.
func Static(body string) RenderFunc {
	body = strings.TrimPrefix(dedent.Dedent(body), "\n")
	return func(RenderContext) (string, error) {
		return body, nil
	}
}
