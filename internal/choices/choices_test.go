package choices

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/fs"
)

func fullStack() ChoiceSet {
	return ChoiceSet{
		ProjectName: "acme",
		Layout:      LayoutMonorepo,
		Runtime:     RuntimeNode,
		Apps: []AppChoice{
			{Name: "web", Kind: AppFrontend, Framework: "react", Styling: "tailwind", Testing: []string{"vitest"}},
			{Name: "api", Kind: AppBackend, Framework: "express"},
		},
		SharedPackages: []PackageKind{PackageUI, PackageTypes, PackageDatabase},
		ORM:            ORMDrizzle,
	}
}

func TestNormalized_CanonicalPackageOrder(t *testing.T) {
	cs := fullStack()
	cs.ORM = ""
	n := cs.Normalized()

	assert.Equal(t, []PackageKind{PackageTypes, PackageDatabase, PackageUI}, n.SharedPackages)
	assert.Equal(t, ORMNone, n.ORM)
	// Input untouched.
	assert.Equal(t, []PackageKind{PackageUI, PackageTypes, PackageDatabase}, cs.SharedPackages)
}

func TestNormalized_KeepsUnknownKindsLast(t *testing.T) {
	cs := fullStack()
	cs.SharedPackages = []PackageKind{"mystery", PackageUtils, PackageUtils}
	n := cs.Normalized()
	assert.Equal(t, []PackageKind{PackageUtils, "mystery"}, n.SharedPackages)
}

func TestClone_IsDeep(t *testing.T) {
	cs := fullStack()
	cs.PackageLinks = map[string][]string{"ui": {"types"}}
	cp := cs.Clone()

	cp.Apps[0].Testing[0] = "jest"
	cp.PackageLinks["ui"][0] = "utils"
	cp.SharedPackages[0] = PackageConfig

	assert.Equal(t, "vitest", cs.Apps[0].Testing[0])
	assert.Equal(t, "types", cs.PackageLinks["ui"][0])
	assert.Equal(t, PackageUI, cs.SharedPackages[0])
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{"project_name", "layout", "runtime", "apps"}, ChoiceSet{}.Missing())
	assert.Empty(t, fullStack().Missing())
}

func TestValidate_Accepts(t *testing.T) {
	require.NoError(t, Validate(fullStack()))

	standalone := ChoiceSet{
		ProjectName: "solo",
		Layout:      LayoutStandalone,
		Runtime:     RuntimeBun,
		Apps:        []AppChoice{{Name: "app", Kind: AppBackend, Framework: "hono"}},
	}
	require.NoError(t, Validate(standalone))
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ChoiceSet)
		field  string
	}{
		{"missing project", func(c *ChoiceSet) { c.ProjectName = "" }, "project_name"},
		{"bad project name", func(c *ChoiceSet) { c.ProjectName = "Acme Corp" }, "project_name"},
		{"bad layout", func(c *ChoiceSet) { c.Layout = "polyrepo" }, "layout"},
		{"bad runtime", func(c *ChoiceSet) { c.Runtime = "rhino" }, "runtime"},
		{"no apps", func(c *ChoiceSet) { c.Apps = nil }, "apps"},
		{"bad app kind", func(c *ChoiceSet) { c.Apps[1].Kind = "desktop" }, "apps[1].kind"},
		{"app without framework", func(c *ChoiceSet) { c.Apps[0].Framework = "" }, "apps[0].framework"},
		{"duplicate testing", func(c *ChoiceSet) { c.Apps[0].Testing = []string{"vitest", "vitest"} }, "apps[0].testing"},
		{"unknown package", func(c *ChoiceSet) { c.SharedPackages = append(c.SharedPackages, "cli") }, "shared_packages[3]"},
		{"bad orm", func(c *ChoiceSet) { c.ORM = "sequelize" }, "orm"},
		{"duplicate app", func(c *ChoiceSet) { c.Apps[1].Name = "web" }, "apps[1].name"},
		{"override without styling", func(c *ChoiceSet) { c.Apps[1].StylingOverride = "unocss" }, "apps[1].styling_override"},
		{"database without orm", func(c *ChoiceSet) { c.ORM = ORMNone }, "orm"},
		{"orm without database", func(c *ChoiceSet) { c.SharedPackages = []PackageKind{PackageTypes} }, "shared_packages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := fullStack()
			tt.mutate(&cs)
			err := Validate(cs)
			require.Error(t, err)
			ge, ok := errors.AsGenError(err)
			require.True(t, ok)
			assert.Equal(t, errors.EInvalidChoices, ge.Code)
			assert.Equal(t, tt.field, ge.Details["field"])
		})
	}
}

func TestValidate_StandaloneShape(t *testing.T) {
	cs := fullStack()
	cs.Layout = LayoutStandalone
	assert.Equal(t, errors.EInvalidChoices, errors.GetCode(Validate(cs)))

	cs.Apps = cs.Apps[:1]
	cs.ORM = ORMNone
	cs.SharedPackages = []PackageKind{PackageTypes}
	err := Validate(cs)
	require.Error(t, err)
	ge, _ := errors.AsGenError(err)
	assert.Equal(t, "shared_packages", ge.Details["field"])
}

func TestDecode_YAML(t *testing.T) {
	data := []byte(`
project_name: acme
layout: monorepo
runtime: pnpm-less
apps:
  - name: web
    kind: frontend
    framework: react
    styling: tailwind
shared_packages: [types, ui]
`)
	cs, err := Decode(data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "acme", cs.ProjectName)
	assert.Equal(t, Runtime("pnpm-less"), cs.Runtime)
	require.Len(t, cs.Apps, 1)
	assert.Equal(t, "tailwind", cs.Apps[0].Styling)
	assert.Equal(t, []PackageKind{PackageTypes, PackageUI}, cs.SharedPackages)
}

func TestDecode_UnknownFields(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
		field  string
	}{
		{"yaml", FormatYAML, "project_name: acme\ncolour: blue\n", "colour"},
		{"json", FormatJSON, `{"project_name":"acme","colour":"blue"}`, "colour"},
		{"toml", FormatTOML, "project_name = \"acme\"\ncolour = \"blue\"\n", "colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			require.Error(t, err)
			ge, ok := errors.AsGenError(err)
			require.True(t, ok)
			assert.Equal(t, errors.EUnknownField, ge.Code)
			assert.Equal(t, tt.field, ge.Details["fields"])
			assert.Equal(t, errors.ExitValidation, errors.ExitCode(err))
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("{not json"), FormatJSON)
	assert.Equal(t, errors.EInvalidChoices, errors.GetCode(err))

	_, err = Decode(nil, FormatYAML)
	assert.Equal(t, errors.EInvalidChoices, errors.GetCode(err))
}

func TestSaveAndLoadAnswers(t *testing.T) {
	dir := t.TempDir()
	fsys := fs.NewRealFS()
	cs := fullStack().Normalized()
	cs.PackageLinks = map[string][]string{"ui": {"utils"}}

	for _, name := range []string{"answers.toml", "answers.yaml", "answers.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveAnswers(fsys, path, cs))

			got, err := LoadAnswers(fsys, path)
			require.NoError(t, err)
			assert.Equal(t, cs, got)
		})
	}
}

func TestLoadAnswers_Errors(t *testing.T) {
	dir := t.TempDir()
	fsys := fs.NewRealFS()

	_, err := LoadAnswers(fsys, filepath.Join(dir, "answers.ini"))
	assert.Equal(t, errors.EUsage, errors.GetCode(err))

	_, err = LoadAnswers(fsys, filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, errors.EUsage, errors.GetCode(err))
}
