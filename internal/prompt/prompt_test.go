package prompt

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

// scripted answers by label and records every question.
type scripted struct {
	answers  map[string]string
	multi    map[string][]string
	confirms []bool
	fail     string

	asked    []string
	defaults map[string]string
	options  map[string][]string
}

func (s *scripted) record(label, def string, opts []string) error {
	s.asked = append(s.asked, label)
	if s.defaults == nil {
		s.defaults = map[string]string{}
		s.options = map[string][]string{}
	}
	s.defaults[label] = def
	s.options[label] = opts
	if label == s.fail {
		return stderrors.New("interrupted")
	}
	return nil
}

func (s *scripted) Text(label, def string) (string, error) {
	if err := s.record(label, def, nil); err != nil {
		return "", err
	}
	if a, ok := s.answers[label]; ok {
		return a, nil
	}
	return def, nil
}

func (s *scripted) Select(label string, options []string, def string) (string, error) {
	if err := s.record(label, def, options); err != nil {
		return "", err
	}
	if a, ok := s.answers[label]; ok {
		return a, nil
	}
	if def != "" {
		return def, nil
	}
	return options[0], nil
}

func (s *scripted) MultiSelect(label string, options []string) ([]string, error) {
	if err := s.record(label, "", options); err != nil {
		return nil, err
	}
	return s.multi[label], nil
}

func (s *scripted) Confirm(label string, def bool) (bool, error) {
	if err := s.record(label, "", nil); err != nil {
		return false, err
	}
	if len(s.confirms) == 0 {
		return def, nil
	}
	c := s.confirms[0]
	s.confirms = s.confirms[1:]
	return c, nil
}

func filler(t *testing.T, a Asker) *Filler {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return &Filler{Ask: a, Catalog: cat, DefaultName: "My App"}
}

func TestFill_OnlyMissingFields(t *testing.T) {
	a := &scripted{}
	cs := choices.ChoiceSet{
		Layout:  choices.LayoutStandalone,
		Runtime: choices.RuntimeBun,
		Apps:    []choices.AppChoice{{Name: "api", Kind: choices.AppBackend, Framework: "hono"}},
	}

	got, err := filler(t, a).Fill(cs)
	require.NoError(t, err)
	assert.Equal(t, []string{"Project name"}, a.asked)
	assert.Equal(t, "my-app", a.defaults["Project name"])
	assert.Equal(t, "my-app", got.ProjectName)
	assert.Equal(t, cs.Apps, got.Apps)
}

func TestFill_InteractiveMonorepo(t *testing.T) {
	a := &scripted{
		answers: map[string]string{
			"Project name": "acme",
			"App 1 name":   "web",
			"Kind of web":  "frontend",
			"Styling":      "tailwind",
			"ORM":          "prisma",
		},
		multi: map[string][]string{
			"Shared packages": {"types", "database"},
			"Testing":         {"vitest"},
		},
		confirms: []bool{false},
	}

	got, err := filler(t, a).Fill(choices.ChoiceSet{})
	require.NoError(t, err)

	assert.Equal(t, "acme", got.ProjectName)
	assert.Equal(t, choices.LayoutMonorepo, got.Layout)
	assert.Equal(t, choices.RuntimeNode, got.Runtime)
	require.Len(t, got.Apps, 1)
	web := got.Apps[0]
	assert.Equal(t, "web", web.Name)
	assert.Equal(t, choices.AppFrontend, web.Kind)
	assert.Equal(t, a.options["Framework"][0], web.Framework)
	assert.Equal(t, "tailwind", web.Styling)
	assert.Empty(t, web.StateManagement, "defaults to none")
	assert.Equal(t, []string{"vitest"}, web.Testing)
	assert.Equal(t, []choices.PackageKind{choices.PackageTypes, choices.PackageDatabase}, got.SharedPackages)
	assert.Equal(t, choices.ORMPrisma, got.ORM)

	assert.Equal(t, None, a.options["Styling"][0])
	assert.NotContains(t, a.options["ORM"], "none")
}

func TestFill_FrameworkNarrowsOptions(t *testing.T) {
	a := &scripted{
		answers: map[string]string{
			"Project name": "acme",
			"Layout":       "standalone",
			"App 1 name":   "site",
			"Kind of site": "frontend",
			"Framework":    "vue",
		},
	}
	got, err := filler(t, a).Fill(choices.ChoiceSet{})
	require.NoError(t, err)

	assert.Contains(t, a.options["State management"], "pinia")
	assert.NotContains(t, a.options["State management"], "zustand")
	assert.NotContains(t, a.asked, "Add another app?", "standalone has exactly one app")
	assert.NotContains(t, a.asked, "Shared packages")
	assert.Equal(t, "vue", got.Apps[0].Framework)
}

func TestFill_AbortIsUsageError(t *testing.T) {
	a := &scripted{fail: "Runtime"}
	_, err := filler(t, a).Fill(choices.ChoiceSet{ProjectName: "acme", Layout: choices.LayoutMonorepo})
	assert.Equal(t, errors.EUsage, errors.GetCode(err))
}
