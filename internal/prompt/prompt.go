// Package prompt fills the unanswered fields of a ChoiceSet interactively.
package prompt

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/core"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

// None is the option label for skipping an optional category.
const None = "none"

// Asker asks single questions. PtermAsker is the terminal implementation.
type Asker interface {
	Text(label, def string) (string, error)
	Select(label string, options []string, def string) (string, error)
	MultiSelect(label string, options []string) ([]string, error)
	Confirm(label string, def bool) (bool, error)
}

// PtermAsker prompts on the terminal.
type PtermAsker struct{}

func (PtermAsker) Text(label, def string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultValue(def).Show(label)
}

func (PtermAsker) Select(label string, options []string, def string) (string, error) {
	p := pterm.DefaultInteractiveSelect.WithOptions(options)
	if def != "" {
		p = p.WithDefaultOption(def)
	}
	return p.Show(label)
}

func (PtermAsker) MultiSelect(label string, options []string) ([]string, error) {
	return pterm.DefaultInteractiveMultiselect.WithOptions(options).Show(label)
}

func (PtermAsker) Confirm(label string, def bool) (bool, error) {
	return pterm.DefaultInteractiveConfirm.WithDefaultValue(def).Show(label)
}

// Filler asks for the fields a ChoiceSet is missing.
type Filler struct {
	Ask     Asker
	Catalog *catalog.Catalog
	// DefaultName is offered for the project name, usually the target directory name.
	DefaultName string
}

// Fill returns cs with every missing field answered. Fields that are
// already set are never asked again. Shared packages and the ORM are only
// asked for when the apps were.
func (f *Filler) Fill(cs choices.ChoiceSet) (choices.ChoiceSet, error) {
	out := cs.Clone()
	missing := map[string]bool{}
	for _, k := range cs.Missing() {
		missing[k] = true
	}

	if missing["project_name"] {
		name, err := f.Ask.Text("Project name", core.Slugify(f.DefaultName, core.MaxNameLen))
		if err != nil {
			return out, aborted(err)
		}
		out.ProjectName = strings.TrimSpace(name)
	}
	if missing["layout"] {
		layout, err := f.Ask.Select("Layout", []string{string(choices.LayoutMonorepo), string(choices.LayoutStandalone)}, string(choices.LayoutMonorepo))
		if err != nil {
			return out, aborted(err)
		}
		out.Layout = choices.Layout(layout)
	}
	if missing["runtime"] {
		opts := make([]string, len(choices.Runtimes))
		for i, rt := range choices.Runtimes {
			opts[i] = string(rt)
		}
		rt, err := f.Ask.Select("Runtime", opts, string(choices.RuntimeNode))
		if err != nil {
			return out, aborted(err)
		}
		out.Runtime = choices.Runtime(rt)
	}
	if missing["apps"] {
		if err := f.askApps(&out); err != nil {
			return out, err
		}
		if out.Layout == choices.LayoutMonorepo {
			if err := f.askPackages(&out); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

func (f *Filler) askApps(cs *choices.ChoiceSet) error {
	for {
		app, err := f.askApp(cs, len(cs.Apps)+1)
		if err != nil {
			return err
		}
		cs.Apps = append(cs.Apps, app)
		if cs.Layout == choices.LayoutStandalone {
			return nil
		}
		more, err := f.Ask.Confirm("Add another app?", false)
		if err != nil {
			return aborted(err)
		}
		if !more {
			return nil
		}
	}
}

func (f *Filler) askApp(cs *choices.ChoiceSet, n int) (choices.AppChoice, error) {
	var app choices.AppChoice
	def := "web"
	if n > 1 {
		def = fmt.Sprintf("app%d", n)
	}
	name, err := f.Ask.Text(fmt.Sprintf("App %d name", n), def)
	if err != nil {
		return app, aborted(err)
	}
	app.Name = strings.TrimSpace(name)

	kinds := make([]string, len(choices.AppKinds))
	for i, k := range choices.AppKinds {
		kinds[i] = string(k)
	}
	kind, err := f.Ask.Select("Kind of "+app.Name, kinds, string(choices.AppFrontend))
	if err != nil {
		return app, aborted(err)
	}
	app.Kind = choices.AppKind(kind)

	frameworks := f.Catalog.ChoicesFor(catalog.CategoryFramework, kind, cs.Runtime)
	if len(frameworks) == 0 {
		return app, errors.NewWithDetails(errors.EInvalidChoices,
			fmt.Sprintf("no framework supports %s apps on %s", kind, cs.Runtime),
			map[string]string{"kind": kind, "runtime": string(cs.Runtime)})
	}
	if app.Framework, err = f.Ask.Select("Framework", frameworks, ""); err != nil {
		return app, aborted(err)
	}

	if app.Kind.HasUI() {
		if app.Styling, err = f.optional("Styling", catalog.CategoryStyling, app, cs.Runtime); err != nil {
			return app, err
		}
		if app.StateManagement, err = f.optional("State management", catalog.CategoryState, app, cs.Runtime); err != nil {
			return app, err
		}
	}
	if tests := f.choicesFor(catalog.CategoryTesting, app, cs.Runtime); len(tests) > 0 {
		if app.Testing, err = f.Ask.MultiSelect("Testing", tests); err != nil {
			return app, aborted(err)
		}
	}
	if app.Auth, err = f.optional("Auth", catalog.CategoryAuth, app, cs.Runtime); err != nil {
		return app, err
	}
	return app, nil
}

// choicesFor narrows the catalog choices to those compatible with app's framework.
func (f *Filler) choicesFor(cat catalog.Category, app choices.AppChoice, rt choices.Runtime) []string {
	var out []string
	for _, c := range f.Catalog.ChoicesFor(cat, string(app.Kind), rt) {
		if b, ok := f.Catalog.Lookup(cat, c); ok && b.SupportsFramework(app.Framework) {
			out = append(out, c)
		}
	}
	return out
}

// optional asks for one choice of cat with a "none" escape. "" means none.
func (f *Filler) optional(label string, cat catalog.Category, app choices.AppChoice, rt choices.Runtime) (string, error) {
	opts := f.choicesFor(cat, app, rt)
	if len(opts) == 0 {
		return "", nil
	}
	got, err := f.Ask.Select(label, append([]string{None}, opts...), None)
	if err != nil {
		return "", aborted(err)
	}
	if got == None {
		return "", nil
	}
	return got, nil
}

func (f *Filler) askPackages(cs *choices.ChoiceSet) error {
	opts := make([]string, len(choices.PackageKinds))
	for i, k := range choices.PackageKinds {
		opts[i] = string(k)
	}
	picked, err := f.Ask.MultiSelect("Shared packages", opts)
	if err != nil {
		return aborted(err)
	}
	cs.SharedPackages = nil
	for _, p := range picked {
		cs.SharedPackages = append(cs.SharedPackages, choices.PackageKind(p))
	}
	if !cs.HasPackage(choices.PackageDatabase) {
		return nil
	}
	orms := make([]string, 0, len(choices.ORMs))
	for _, o := range choices.ORMs {
		if o != choices.ORMNone {
			orms = append(orms, string(o))
		}
	}
	orm, err := f.Ask.Select("ORM", orms, string(choices.ORMDrizzle))
	if err != nil {
		return aborted(err)
	}
	cs.ORM = choices.ORM(orm)
	return nil
}

func aborted(err error) error {
	return errors.WithHint(errors.Wrap(errors.EUsage, "prompt aborted", err),
		"pass --answers <file> or --yes with flags to run without prompts")
}
