// Package choices defines the ChoiceSet: the immutable record of the
// declarative answers that drive one generation run.
package choices

import (
	"slices"
)

// Layout selects between a single-package project and a multi-package workspace.
type Layout string

const (
	LayoutStandalone Layout = "standalone"
	LayoutMonorepo   Layout = "monorepo"
)

// Runtime is the JavaScript runtime the workspace targets.
type Runtime string

const (
	RuntimeNode Runtime = "node"
	RuntimeBun  Runtime = "bun"
	RuntimeDeno Runtime = "deno"
)

// Runtimes lists every supported runtime.
var Runtimes = []Runtime{RuntimeNode, RuntimeBun, RuntimeDeno}

// AppKind classifies an application.
type AppKind string

const (
	AppFrontend AppKind = "frontend"
	AppBackend  AppKind = "backend"
	AppMobile   AppKind = "mobile"
	AppAdmin    AppKind = "admin"
)

// AppKinds lists every app kind.
var AppKinds = []AppKind{AppFrontend, AppBackend, AppMobile, AppAdmin}

// HasUI reports whether apps of this kind render a user interface.
func (k AppKind) HasUI() bool {
	return k == AppFrontend || k == AppMobile || k == AppAdmin
}

// PackageKind names a shared workspace package.
type PackageKind string

const (
	PackageTypes      PackageKind = "types"
	PackageUtils      PackageKind = "utils"
	PackageConfig     PackageKind = "config"
	PackageValidation PackageKind = "validation"
	PackageDatabase   PackageKind = "database"
	PackageUI         PackageKind = "ui"
)

// PackageKinds is the canonical order of shared packages. Graph insertion
// order and therefore manifest order follow it.
var PackageKinds = []PackageKind{
	PackageTypes, PackageUtils, PackageConfig, PackageValidation, PackageDatabase, PackageUI,
}

// ORM selects the persistence layer bundle of the database package.
type ORM string

const (
	ORMNone    ORM = "none"
	ORMDrizzle ORM = "drizzle"
	ORMPrisma  ORM = "prisma"
	ORMKysely  ORM = "kysely"
	ORMRaw     ORM = "raw"
)

// ORMs lists every ORM choice including none.
var ORMs = []ORM{ORMNone, ORMDrizzle, ORMPrisma, ORMKysely, ORMRaw}

// AppChoice is one application of the workspace.
type AppChoice struct {
	Name            string   `json:"name" yaml:"name" toml:"name" validate:"required,wsname"`
	Kind            AppKind  `json:"kind" yaml:"kind" toml:"kind" validate:"required,oneof=frontend backend mobile admin"`
	Framework       string   `json:"framework" yaml:"framework" toml:"framework" validate:"required"`
	Styling         string   `json:"styling,omitempty" yaml:"styling,omitempty" toml:"styling,omitempty"`
	StylingOverride string   `json:"styling_override,omitempty" yaml:"styling_override,omitempty" toml:"styling_override,omitempty"`
	StateManagement string   `json:"state_management,omitempty" yaml:"state_management,omitempty" toml:"state_management,omitempty"`
	Testing         []string `json:"testing,omitempty" yaml:"testing,omitempty" toml:"testing,omitempty" validate:"unique"`
	Auth            string   `json:"auth,omitempty" yaml:"auth,omitempty" toml:"auth,omitempty"`
	// DependsOn lists extra node ids this app depends on, e.g. "packages/ui".
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty" toml:"depends_on,omitempty"`
}

// ChoiceSet is the resolved set of user decisions driving generation.
type ChoiceSet struct {
	ProjectName    string        `json:"project_name" yaml:"project_name" toml:"project_name" validate:"required,wsname"`
	Layout         Layout        `json:"layout" yaml:"layout" toml:"layout" validate:"required,oneof=standalone monorepo"`
	Runtime        Runtime       `json:"runtime" yaml:"runtime" toml:"runtime" validate:"required,oneof=node bun deno"`
	Apps           []AppChoice   `json:"apps" yaml:"apps" toml:"apps" validate:"required,min=1,dive"`
	SharedPackages []PackageKind `json:"shared_packages,omitempty" yaml:"shared_packages,omitempty" toml:"shared_packages,omitempty" validate:"dive,oneof=types utils config validation database ui"`
	ORM            ORM           `json:"orm,omitempty" yaml:"orm,omitempty" toml:"orm,omitempty" validate:"omitempty,oneof=none drizzle prisma kysely raw"`
	// PackageLinks declares extra package-to-package edges keyed by package kind.
	PackageLinks map[string][]string `json:"package_links,omitempty" yaml:"package_links,omitempty" toml:"package_links,omitempty"`
}

// HasPackage reports whether kind was requested.
func (c ChoiceSet) HasPackage(kind PackageKind) bool {
	return slices.Contains(c.SharedPackages, kind)
}

// Normalized returns a copy with defaults applied and shared packages
// de-duplicated into canonical order. Apps keep their declaration order.
func (c ChoiceSet) Normalized() ChoiceSet {
	out := c.Clone()
	if out.ORM == "" {
		out.ORM = ORMNone
	}
	var pkgs []PackageKind
	for _, k := range PackageKinds {
		if slices.Contains(c.SharedPackages, k) {
			pkgs = append(pkgs, k)
		}
	}
	// Unknown kinds are kept at the end so validation can name them.
	for _, k := range c.SharedPackages {
		if !slices.Contains(PackageKinds, k) && !slices.Contains(pkgs, k) {
			pkgs = append(pkgs, k)
		}
	}
	out.SharedPackages = pkgs
	return out
}

// Clone returns a deep copy.
func (c ChoiceSet) Clone() ChoiceSet {
	out := c
	out.Apps = make([]AppChoice, len(c.Apps))
	for i, a := range c.Apps {
		a.Testing = slices.Clone(a.Testing)
		a.DependsOn = slices.Clone(a.DependsOn)
		out.Apps[i] = a
	}
	out.SharedPackages = slices.Clone(c.SharedPackages)
	if c.PackageLinks != nil {
		out.PackageLinks = make(map[string][]string, len(c.PackageLinks))
		for k, v := range c.PackageLinks {
			out.PackageLinks[k] = slices.Clone(v)
		}
	}
	return out
}

// Missing returns the answer keys that are still unset. Prompting fills
// them; --yes turns any of them into a validation error.
func (c ChoiceSet) Missing() []string {
	var missing []string
	if c.ProjectName == "" {
		missing = append(missing, "project_name")
	}
	if c.Layout == "" {
		missing = append(missing, "layout")
	}
	if c.Runtime == "" {
		missing = append(missing, "runtime")
	}
	if len(c.Apps) == 0 {
		missing = append(missing, "apps")
	}
	return missing
}
