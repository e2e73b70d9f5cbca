package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/google/uuid"
)

const manifestFileName = "manifest.json"

// Artifact kinds.
const (
	KindChart    = "chart"
	KindReport   = "report"
	KindWorkbook = "workbook"
)

// Artifact is one file written by a run.
type Artifact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"` // relative to the run directory
	Kind      string    `json:"kind"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Run is one diagnostics run persisted under <base>/<id>/ with a manifest.json.
type Run struct {
	ID        string      `json:"id"`
	Input     string      `json:"input"`
	Target    string      `json:"target,omitempty"`
	Features  []string    `json:"features,omitempty"`
	Artifacts []*Artifact `json:"artifacts"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	rootDir string
}

// NewRun constructs an in-memory run rooted at baseDir/<new uuid>. Call Save to persist.
func NewRun(baseDir, input string) *Run {
	id := uuid.NewString()
	return &Run{
		ID:        id,
		Input:     input,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		rootDir:   filepath.Join(baseDir, id),
	}
}

// LoadRun reads the manifest in dir.
func LoadRun(dir string) (*Run, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	r.rootDir = dir
	return &r, nil
}

// RootDir returns the run directory.
func (r *Run) RootDir() string { return r.rootDir }

// Save writes manifest.json atomically.
func (r *Run) Save() error {
	if r.rootDir == "" {
		return errors.New("run directory not set")
	}
	r.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(r.rootDir, manifestFileName), data)
}

// WriteFile writes data to name inside the run directory and records it.
func (r *Run) WriteFile(name, kind string, data []byte) (*Artifact, error) {
	if r.rootDir == "" {
		return nil, errors.New("run directory not set")
	}
	if err := utils.SafeWriteFile(filepath.Join(r.rootDir, name), data); err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	a := &Artifact{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      name,
		Kind:      kind,
		Bytes:     int64(len(data)),
		CreatedAt: time.Now(),
	}
	r.Artifacts = append(r.Artifacts, a)
	r.UpdatedAt = time.Now()
	return a, nil
}

// Artifact returns the recorded artifact with the given name.
func (r *Run) Artifact(name string) (*Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// CopyArtifact copies a recorded artifact to dst, creating parent directories.
func (r *Run) CopyArtifact(name, dst string) error {
	a, ok := r.Artifact(name)
	if !ok {
		return fmt.Errorf("run %s has no artifact %q", r.ID, name)
	}
	data, err := os.ReadFile(filepath.Join(r.rootDir, a.Path))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return utils.SafeWriteFile(dst, data)
}

// ListRuns loads every run under baseDir, oldest first. Directories without a
// manifest are skipped; a missing baseDir yields no runs.
func ListRuns(baseDir string) ([]*Run, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read runs dir: %w", err)
	}
	var runs []*Run
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		r, err := LoadRun(filepath.Join(baseDir, e.Name()))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		runs = append(runs, r)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].CreatedAt.Before(runs[j].CreatedAt) })
	return runs, nil
}
