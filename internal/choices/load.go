package choices

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/fs"
)

// Format is the encoding of an answers file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// LoadAnswers reads an answers file. Unknown keys are rejected with
// E_UNKNOWN_FIELD rather than ignored. The result is not validated.
func LoadAnswers(fsys fs.FS, path string) (ChoiceSet, error) {
	format, ok := FormatFor(path)
	if !ok {
		return ChoiceSet{}, errors.NewWithDetails(errors.EUsage,
			"answers file must be .yaml, .yml, .toml or .json",
			map[string]string{"path": path})
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ChoiceSet{}, errors.NewWithDetails(errors.EUsage, "answers file not found", map[string]string{"path": path})
		}
		return ChoiceSet{}, errors.WrapWithDetails(errors.EIO, "failed to read answers file", err, map[string]string{"path": path})
	}
	return Decode(data, format)
}

// Decode parses answers in the given format with unknown-key rejection.
func Decode(data []byte, format Format) (ChoiceSet, error) {
	var cs ChoiceSet
	var err error
	switch format {
	case FormatYAML:
		err = decodeYAML(data, &cs)
	case FormatTOML:
		err = decodeTOML(data, &cs)
	case FormatJSON:
		err = decodeJSON(data, &cs)
	default:
		return ChoiceSet{}, errors.Newf(errors.EUsage, "unsupported answers format %q", format)
	}
	if err != nil {
		return ChoiceSet{}, err
	}
	return cs, nil
}

var yamlUnknownField = regexp.MustCompile(`field (\S+) not found in type`)

func decodeYAML(data []byte, cs *ChoiceSet) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cs); err != nil {
		if err == io.EOF {
			return errors.New(errors.EInvalidChoices, "answers file is empty")
		}
		if m := yamlUnknownField.FindAllStringSubmatch(err.Error(), -1); len(m) > 0 {
			fields := make([]string, 0, len(m))
			for _, sub := range m {
				fields = append(fields, sub[1])
			}
			return unknownFields(fields, err)
		}
		return errors.Wrap(errors.EInvalidChoices, "malformed yaml answers", err)
	}
	return nil
}

func decodeTOML(data []byte, cs *ChoiceSet) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cs); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			fields := make([]string, 0, len(strict.Errors))
			for i := range strict.Errors {
				fields = append(fields, strings.Join(strict.Errors[i].Key(), "."))
			}
			return unknownFields(fields, err)
		}
		return errors.Wrap(errors.EInvalidChoices, "malformed toml answers", err)
	}
	return nil
}

func decodeJSON(data []byte, cs *ChoiceSet) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cs); err != nil {
		if err == io.EOF {
			return errors.New(errors.EInvalidChoices, "answers file is empty")
		}
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return unknownFields([]string{strings.Trim(field, `"`)}, err)
		}
		return errors.Wrap(errors.EInvalidChoices, "malformed json answers", err)
	}
	return nil
}

func unknownFields(fields []string, cause error) error {
	sort.Strings(fields)
	return errors.WrapWithDetails(errors.EUnknownField,
		"unknown answers field: "+strings.Join(fields, ", "),
		cause,
		map[string]string{"fields": strings.Join(fields, ",")})
}
