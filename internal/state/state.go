// Package state persists the generator ledger: the last ChoiceSet and the
// content hash of every generator-owned file. The ledger decides whether a
// file on disk may be overwritten on the next run.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/fs"
)

// SchemaVersion is the current ledger schema.
const SchemaVersion = "1"

// DefaultDir is the state directory name under the target root.
const DefaultDir = ".wsgen"

// State is the persisted ledger, stored as <target>/<dir>/state.json.
type State struct {
	SchemaVersion string            `json:"schema_version"`
	RunID         string            `json:"run_id"`
	GeneratedAt   string            `json:"generated_at"`
	Choices       choices.ChoiceSet `json:"choices"`
	// Files maps target-relative slash paths to the sha256 hex of the
	// content the generator last wrote there.
	Files map[string]string `json:"files"`
}

// New returns an empty ledger.
func New() *State {
	return &State{SchemaVersion: SchemaVersion, Files: map[string]string{}}
}

// Hash returns the sha256 hex digest of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Owned returns the recorded hash for path.
func (s *State) Owned(path string) (string, bool) {
	h, ok := s.Files[path]
	return h, ok
}

// Paths returns the recorded paths in sorted order.
func (s *State) Paths() []string {
	out := make([]string, 0, len(s.Files))
	for p := range s.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Store reads and writes the ledger of one target.
type Store struct {
	FS   fs.FS
	Root string // target root
	Dir  string // state directory name relative to Root
	Now  func() time.Time
}

// NewStore creates a Store for a target root.
func NewStore(filesystem fs.FS, root, dir string, now func() time.Time) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{FS: filesystem, Root: root, Dir: dir, Now: now}
}

// DirPath returns the absolute state directory.
func (s *Store) DirPath() string {
	return filepath.Join(s.Root, s.Dir)
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return filepath.Join(s.DirPath(), "state.json")
}

// StagingDir returns the staging directory for a run.
func (s *Store) StagingDir(runID string) string {
	return filepath.Join(s.DirPath(), "staging", runID)
}

// Exists reports whether the target has a ledger.
func (s *Store) Exists() (bool, error) {
	ok, err := fs.Exists(s.FS, s.Path())
	if err != nil {
		return false, errors.WrapWithDetails(errors.EIO, "failed to stat state file", err,
			map[string]string{"path": s.Path()})
	}
	return ok, nil
}

// Load reads the ledger. A missing ledger yields an empty State and no error.
// An unparsable ledger or an unknown schema is E_STATE_CORRUPT.
func (s *Store) Load() (*State, error) {
	data, err := s.FS.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.WrapWithDetails(errors.EIO, "failed to read state file", err,
			map[string]string{"path": s.Path()})
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.WithHint(
			errors.WrapWithDetails(errors.EStateCorrupt, "state file is not valid json", err,
				map[string]string{"path": s.Path()}),
			"restore the file from version control, or delete it and re-run init (edited files will then be overwritten)")
	}
	if st.SchemaVersion != SchemaVersion {
		return nil, errors.NewWithDetails(errors.EStateCorrupt,
			"unsupported state schema version",
			map[string]string{"path": s.Path(), "schema_version": st.SchemaVersion})
	}
	if st.Files == nil {
		st.Files = map[string]string{}
	}
	return &st, nil
}

// Save stamps run metadata and writes the ledger atomically.
func (s *Store) Save(st *State, runID string) error {
	st.SchemaVersion = SchemaVersion
	st.RunID = runID
	st.GeneratedAt = s.Now().UTC().Format(time.RFC3339)
	if err := s.FS.MkdirAll(s.DirPath(), 0o755); err != nil {
		return errors.WrapWithDetails(errors.EIO, "failed to create state directory", err,
			map[string]string{"path": s.DirPath()})
	}
	if err := fs.WriteJSONAtomic(s.FS, s.Path(), st, 0o644); err != nil {
		return errors.WrapWithDetails(errors.EIO, "failed to write state file", err,
			map[string]string{"path": s.Path()})
	}
	return nil
}
