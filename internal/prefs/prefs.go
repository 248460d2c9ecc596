// Package prefs stores the history screen's user preferences in a YAML file.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileName is the preference file name inside the config directory.
const FileName = "prefs.yaml"

// Values is the on-disk layout.
type Values struct {
	ShowAllSources bool   `yaml:"show_all_sources"`
	LastSourceID   string `yaml:"last_source_id,omitempty"`
}

// File is a preference file. Reads are served from memory; every setter
// writes the whole file before returning.
//
// Thread-safety: all methods are safe for concurrent use.
type File struct {
	path string

	mu     sync.Mutex
	values Values
}

// DefaultPath returns <user config dir>/histview/prefs.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "histview", FileName), nil
}

// Open loads the preference file at path. A missing file yields defaults;
// it is created on the first write.
func Open(path string) (*File, error) {
	f := &File{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}

	if err := yaml.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", path, err)
	}
	return f, nil
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Values returns a copy of the current preferences.
func (f *File) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// ShowAllSources implements engine.Preferences.
func (f *File) ShowAllSources() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.ShowAllSources
}

// SetShowAllSources stores the "all sources" toggle.
func (f *File) SetShowAllSources(v bool) error {
	return f.update(func(vals *Values) { vals.ShowAllSources = v })
}

// LastSourceID returns the source that was open last time.
func (f *File) LastSourceID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.LastSourceID
}

// SetLastSourceID stores the source that is open now.
func (f *File) SetLastSourceID(id string) error {
	return f.update(func(vals *Values) { vals.LastSourceID = id })
}

// update applies fn and writes the file. On a write error the in-memory
// values are left unchanged.
func (f *File) update(fn func(*Values)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.values
	fn(&next)
	if err := write(f.path, next); err != nil {
		return err
	}
	f.values = next
	return nil
}

// write replaces the file through a temp file in the same directory, so a
// reader sees either the old or the new content.
func write(path string, v Values) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	defer os.Remove(tmp.Name()) // No-op after rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
