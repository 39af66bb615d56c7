package choices

import (
	"bytes"
	"encoding/json"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/fs"
)

// Encode renders a ChoiceSet in the given format. The output decodes back
// through Decode without unknown-field errors.
func Encode(c ChoiceSet, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, errors.Wrap(errors.EInternal, "failed to encode answers as toml", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, errors.Wrap(errors.EInternal, "failed to encode answers as yaml", err)
		}
		_ = enc.Close()
	case FormatJSON:
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.EInternal, "failed to encode answers as json", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		return nil, errors.Newf(errors.EUsage, "unsupported answers format %q", format)
	}
	return buf.Bytes(), nil
}

// SaveAnswers writes c to path atomically, picking the format from the
// file extension.
func SaveAnswers(fsys fs.FS, path string, c ChoiceSet) error {
	format, ok := FormatFor(path)
	if !ok {
		return errors.NewWithDetails(errors.EUsage,
			"answers file must be .yaml, .yml, .toml or .json",
			map[string]string{"path": path})
	}
	data, err := Encode(c, format)
	if err != nil {
		return err
	}
	if err := fs.WriteFileAtomic(fsys, path, data, 0o644); err != nil {
		return errors.WrapWithDetails(errors.EIO, "failed to save answers", err, map[string]string{"path": path})
	}
	return nil
}
