// Package catalog holds the template catalog: the registry of template
// bundles keyed by category and choice, the shared config definitions, and
// the facet overrides that specialize a node's config chain.
//
// A Catalog is immutable once built and safe to share between goroutines.
// Extending it means building a new one with With.
package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

// Category groups bundles that answer the same question.
type Category string

const (
	CategoryFramework Category = "framework"
	CategoryStyling   Category = "styling"
	CategoryState     Category = "state"
	CategoryTesting   Category = "testing"
	CategoryAuth      Category = "auth"
	CategoryORM       Category = "orm"
	CategoryPackage   Category = "package"
	CategoryRoot      Category = "root"
)

// Categories lists bundle categories in the order bundles are applied to a node.
var Categories = []Category{
	CategoryRoot, CategoryPackage, CategoryORM,
	CategoryFramework, CategoryStyling, CategoryState, CategoryTesting, CategoryAuth,
}

// ConfigCategory is a tooling concern with its own inheritance chain.
type ConfigCategory string

const (
	ConfigCompiler ConfigCategory = "compiler"
	ConfigLint     ConfigCategory = "lint"
	ConfigFormat   ConfigCategory = "format"
)

// ConfigCategories is the fixed resolution order.
var ConfigCategories = []ConfigCategory{ConfigCompiler, ConfigLint, ConfigFormat}

// RenderFunc produces the content of one file.
type RenderFunc func(RenderContext) (string, error)

// File is one templated file of a bundle. Path is relative to the node directory.
type File struct {
	Path   string
	Render RenderFunc
}

// Bundle is a named set of file templates plus declared dependencies for
// one category+choice pair.
type Bundle struct {
	ID       string // "<category>/<choice>"
	Category Category
	Choice   string
	// TargetKinds are the app kinds (or package kinds for package and orm
	// bundles) the bundle applies to. Empty means any.
	TargetKinds []string
	// Runtimes the bundle supports. Empty means all.
	Runtimes []choices.Runtime
	// Frameworks the bundle works with. Empty means any.
	Frameworks []string

	Files           []File
	Dependencies    map[string]string
	DevDependencies map[string]string
	Scripts         map[string]string

	// Requires names package kinds a package bundle depends on.
	Requires []string
}

// Supports reports whether the bundle can be applied to a node of the
// given kind on the given runtime. An empty kind only checks the runtime.
func (b *Bundle) Supports(kind string, rt choices.Runtime) bool {
	if kind != "" && len(b.TargetKinds) > 0 && !slices.Contains(b.TargetKinds, kind) {
		return false
	}
	if len(b.Runtimes) > 0 && !slices.Contains(b.Runtimes, rt) {
		return false
	}
	return true
}

// SupportsFramework reports whether the bundle works with framework.
func (b *Bundle) SupportsFramework(framework string) bool {
	return len(b.Frameworks) == 0 || slices.Contains(b.Frameworks, framework)
}

// ConfigDef is a shared configuration file living in the config home.
type ConfigDef struct {
	ID       string // "<category>/<name>"
	Category ConfigCategory
	Base     bool
	File     string // file name inside the config home
	Render   RenderFunc
}

// Override names a config definition a facet appends to a chain.
type Override struct {
	Category ConfigCategory
	ConfigID string
}

// Catalog is the read-only template registry.
type Catalog struct {
	bundles   map[string]*Bundle
	configs   map[string]*ConfigDef
	bases     map[ConfigCategory]*ConfigDef
	overrides map[string][]Override
}

// BundleID joins a category and choice into a bundle id.
func BundleID(cat Category, choice string) string {
	return string(cat) + "/" + choice
}

// New builds a catalog. Bundle ids must match their category and choice,
// ids must be unique, and every declared dependency must be a valid semver
// range. Overrides are keyed by bundle id; they are not checked against the
// config definitions here, the resolver reports unknown ones.
func New(bundles []Bundle, configs []ConfigDef, overrides map[string][]Override) (*Catalog, error) {
	c := &Catalog{
		bundles:   make(map[string]*Bundle, len(bundles)),
		configs:   make(map[string]*ConfigDef, len(configs)),
		bases:     make(map[ConfigCategory]*ConfigDef),
		overrides: make(map[string][]Override, len(overrides)),
	}
	for i := range bundles {
		if err := c.addBundle(bundles[i]); err != nil {
			return nil, err
		}
	}
	for i := range configs {
		if err := c.addConfig(configs[i]); err != nil {
			return nil, err
		}
	}
	for id, ovs := range overrides {
		c.overrides[id] = append(c.overrides[id], ovs...)
	}
	return c, nil
}

func (c *Catalog) addBundle(b Bundle) error {
	if b.ID == "" {
		b.ID = BundleID(b.Category, b.Choice)
	}
	if b.ID != BundleID(b.Category, b.Choice) {
		return errors.Newf(errors.EInternal, "bundle id %q does not match %s/%s", b.ID, b.Category, b.Choice)
	}
	if _, dup := c.bundles[b.ID]; dup {
		return errors.Newf(errors.EInternal, "duplicate bundle %q", b.ID)
	}
	for _, deps := range []map[string]string{b.Dependencies, b.DevDependencies} {
		for name, rng := range deps {
			if _, err := semver.NewConstraint(rng); err != nil {
				return errors.WrapWithDetails(errors.EInternal,
					fmt.Sprintf("bundle %s declares an invalid range for %s", b.ID, name), err,
					map[string]string{"bundle": b.ID, "dependency": name, "range": rng})
			}
		}
	}
	c.bundles[b.ID] = &b
	return nil
}

func (c *Catalog) addConfig(d ConfigDef) error {
	if _, dup := c.configs[d.ID]; dup {
		return errors.Newf(errors.EInternal, "duplicate config %q", d.ID)
	}
	if !strings.HasPrefix(d.ID, string(d.Category)+"/") {
		return errors.Newf(errors.EInternal, "config id %q is not in category %s", d.ID, d.Category)
	}
	if d.Base {
		if prev, ok := c.bases[d.Category]; ok {
			return errors.Newf(errors.EInternal, "category %s has two bases: %s and %s", d.Category, prev.ID, d.ID)
		}
		c.bases[d.Category] = &d
	}
	c.configs[d.ID] = &d
	return nil
}

// With returns a new catalog holding the receiver's entries plus the given
// ones. Overrides for an existing bundle id are appended.
func (c *Catalog) With(bundles []Bundle, configs []ConfigDef, overrides map[string][]Override) (*Catalog, error) {
	allBundles := make([]Bundle, 0, len(c.bundles)+len(bundles))
	for _, id := range sortedKeys(c.bundles) {
		allBundles = append(allBundles, *c.bundles[id])
	}
	allBundles = append(allBundles, bundles...)

	allConfigs := make([]ConfigDef, 0, len(c.configs)+len(configs))
	for _, id := range sortedKeys(c.configs) {
		allConfigs = append(allConfigs, *c.configs[id])
	}
	allConfigs = append(allConfigs, configs...)

	allOverrides := make(map[string][]Override, len(c.overrides)+len(overrides))
	for id, ovs := range c.overrides {
		allOverrides[id] = slices.Clone(ovs)
	}
	for id, ovs := range overrides {
		allOverrides[id] = append(allOverrides[id], ovs...)
	}
	return New(allBundles, allConfigs, allOverrides)
}

// Lookup returns the bundle for category and choice.
func (c *Catalog) Lookup(cat Category, choice string) (*Bundle, bool) {
	b, ok := c.bundles[BundleID(cat, choice)]
	return b, ok
}

// Bundle returns a bundle by its full id.
func (c *Catalog) Bundle(id string) (*Bundle, bool) {
	b, ok := c.bundles[id]
	return b, ok
}

// Config returns a config definition by id.
func (c *Catalog) Config(id string) (*ConfigDef, bool) {
	d, ok := c.configs[id]
	return d, ok
}

// Base returns the root config definition of a category.
func (c *Catalog) Base(cat ConfigCategory) (*ConfigDef, bool) {
	d, ok := c.bases[cat]
	return d, ok
}

// Overrides returns the overrides contributed by a bundle.
func (c *Catalog) Overrides(bundleID string) []Override {
	return c.overrides[bundleID]
}

// Choices returns the sorted choices available in a category.
func (c *Catalog) Choices(cat Category) []string {
	var out []string
	for _, b := range c.bundles {
		if b.Category == cat {
			out = append(out, b.Choice)
		}
	}
	sort.Strings(out)
	return out
}

// ChoicesFor returns the sorted choices of a category usable by a node kind
// on a runtime.
func (c *Catalog) ChoicesFor(cat Category, kind string, rt choices.Runtime) []string {
	var out []string
	for _, b := range c.bundles {
		if b.Category == cat && b.Supports(kind, rt) {
			out = append(out, b.Choice)
		}
	}
	sort.Strings(out)
	return out
}

// Bundles returns every bundle ordered by id.
func (c *Catalog) Bundles() []*Bundle {
	out := make([]*Bundle, 0, len(c.bundles))
	for _, id := range sortedKeys(c.bundles) {
		out = append(out, c.bundles[id])
	}
	return out
}

// Configs returns every config definition ordered by id.
func (c *Catalog) Configs() []*ConfigDef {
	out := make([]*ConfigDef, 0, len(c.configs))
	for _, id := range sortedKeys(c.configs) {
		out = append(out, c.configs[id])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
