package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FS resolves paths inside the data root and the active profile. It is plain
// path arithmetic plus small read/write helpers; no locking, the tool runs
// single-process.
type FS struct {
	dataPath string
	profile  string
}

func NewFS(dataPath string) *FS {
	return &FS{dataPath: dataPath, profile: "default"}
}

func (f *FS) Profile() string { return f.profile }

// SwitchProfile repoints profile-relative paths. Registration checks live in
// ProfileStore; this only moves the pointer.
func (f *FS) SwitchProfile(name string) { f.profile = name }

func (f *FS) DataPath(parts ...string) string {
	return filepath.Join(append([]string{f.dataPath}, parts...)...)
}

func (f *FS) ProfilePath(parts ...string) string {
	return filepath.Join(append([]string{f.dataPath, "profiles", f.profile}, parts...)...)
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// ReadTextSafe returns the file's content, or "" when it doesn't exist.
func ReadTextSafe(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// WriteText writes content, creating parent directories as needed.
func WriteText(path, content string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return WriteText(path, string(data))
}
