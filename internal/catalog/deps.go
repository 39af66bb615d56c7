package catalog

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

// WorkspaceRange is the version marker for dependencies on workspace siblings.
const WorkspaceRange = "workspace:*"

// Floor returns the lowest version a range admits, taken from its first
// comparator: "^18.2.0" -> 18.2.0, ">=1.4 <2" -> 1.4.0.
func Floor(rng string) (*semver.Version, error) {
	if _, err := semver.NewConstraint(rng); err != nil {
		return nil, err
	}
	first := strings.Fields(strings.SplitN(rng, "||", 2)[0])
	if len(first) == 0 {
		return semver.NewVersion("0.0.0")
	}
	v := strings.TrimLeft(first[0], "^~>=<v")
	if v == "" || v[0] < '0' || v[0] > '9' {
		return semver.NewVersion("0.0.0")
	}
	v = strings.NewReplacer(".x", ".0", ".X", ".0", ".*", ".0").Replace(v)
	return semver.NewVersion(v)
}

// MergeDeps adds src into dst. When both declare a package, the range with
// the higher floor wins; on a tie dst keeps its range. Workspace markers
// always win over registry ranges.
func MergeDeps(dst, src map[string]string) error {
	for name, rng := range src {
		cur, ok := dst[name]
		if !ok || cur == rng {
			dst[name] = rng
			continue
		}
		if cur == WorkspaceRange {
			continue
		}
		if rng == WorkspaceRange {
			dst[name] = rng
			continue
		}
		curFloor, err := Floor(cur)
		if err != nil {
			return errors.WrapWithDetails(errors.EInternal, "invalid dependency range", err,
				map[string]string{"dependency": name, "range": cur})
		}
		newFloor, err := Floor(rng)
		if err != nil {
			return errors.WrapWithDetails(errors.EInternal, "invalid dependency range", err,
				map[string]string{"dependency": name, "range": rng})
		}
		if newFloor.GreaterThan(curFloor) {
			dst[name] = rng
		}
	}
	return nil
}
