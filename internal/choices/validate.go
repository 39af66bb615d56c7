package choices

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/NielsdaWheelz/wsgen/internal/core"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

var (
	validateOnce sync.Once
	structValid  *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Report answer-file keys, not Go field names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("wsname", func(fl validator.FieldLevel) bool {
			return core.ValidName(fl.Field().String())
		})
		structValid = v
	})
	return structValid
}

// Validate checks the shape of a ChoiceSet. Catalog membership of the
// referenced template ids is checked by the graph builder.
// Returns E_INVALID_CHOICES on any violation.
func Validate(c ChoiceSet) error {
	if err := structValidator().Struct(c); err != nil {
		return fromValidationErrors(err)
	}

	seen := make(map[string]bool, len(c.Apps))
	for i, app := range c.Apps {
		if seen[app.Name] {
			return errors.NewWithDetails(errors.EInvalidChoices,
				fmt.Sprintf("duplicate app name %q", app.Name),
				map[string]string{"field": fmt.Sprintf("apps[%d].name", i)})
		}
		seen[app.Name] = true
		if app.StylingOverride != "" && app.Styling == "" {
			return errors.NewWithDetails(errors.EInvalidChoices,
				"styling_override requires styling",
				map[string]string{"field": fmt.Sprintf("apps[%d].styling_override", i)})
		}
	}

	if c.Layout == LayoutStandalone {
		if len(c.Apps) != 1 {
			return errors.NewWithDetails(errors.EInvalidChoices,
				"standalone layout requires exactly one app",
				map[string]string{"field": "apps", "count": fmt.Sprint(len(c.Apps))})
		}
		if len(c.SharedPackages) > 0 {
			return errors.NewWithDetails(errors.EInvalidChoices,
				"standalone layout cannot declare shared packages; use layout monorepo",
				map[string]string{"field": "shared_packages"})
		}
	}

	orm := c.ORM
	if orm == "" {
		orm = ORMNone
	}
	if c.HasPackage(PackageDatabase) && orm == ORMNone {
		return errors.NewWithDetails(errors.EInvalidChoices,
			"shared package database requires an orm",
			map[string]string{"field": "orm"})
	}
	if !c.HasPackage(PackageDatabase) && orm != ORMNone {
		return errors.NewWithDetails(errors.EInvalidChoices,
			fmt.Sprintf("orm %q requires shared package database", orm),
			map[string]string{"field": "shared_packages"})
	}
	return nil
}

func fromValidationErrors(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.EInvalidChoices, "invalid choices", err)
	}
	first := verrs[0]
	field := trimNamespace(first.Namespace())
	msg := fmt.Sprintf("%s: failed %q", field, first.Tag())
	switch first.Tag() {
	case "required":
		msg = field + " is required"
	case "oneof":
		msg = fmt.Sprintf("%s must be one of [%s], got %q", field, first.Param(), fmt.Sprint(first.Value()))
	case "wsname":
		msg = fmt.Sprintf("%s %q is not a valid name (lowercase letters, digits, '.', '_' and '-')", field, fmt.Sprint(first.Value()))
	case "min":
		msg = fmt.Sprintf("%s needs at least %s entries", field, first.Param())
	case "unique":
		msg = field + " contains duplicates"
	}
	details := map[string]string{"field": field, "rule": first.Tag()}
	if len(verrs) > 1 {
		details["violations"] = fmt.Sprint(len(verrs))
	}
	return errors.NewWithDetails(errors.EInvalidChoices, msg, details)
}

// trimNamespace drops the root struct name: "ChoiceSet.apps[0].kind" -> "apps[0].kind".
func trimNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
