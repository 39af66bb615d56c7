// Package git creates the repository of a freshly generated workspace.
package git

import (
	gogit "github.com/go-git/go-git/v5"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

// IsRepository reports whether path is the root of a git repository.
func IsRepository(path string) bool {
	_, err := gogit.PlainOpen(path)
	return err == nil
}

// Init creates a git repository at path unless one already exists there.
// It reports whether a repository was created.
func Init(path string) (bool, error) {
	if IsRepository(path) {
		return false, nil
	}
	if _, err := gogit.PlainInit(path, false); err != nil {
		return false, errors.WrapWithDetails(errors.EIO, "failed to initialize git repository", err,
			map[string]string{"path": path})
	}
	return true, nil
}
