package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

var profileDirs = []string{"background", "templates", "job_postings", "resumes"}

var validProfileName = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ProfileStore manages the registered profiles, their directory skeletons,
// and the workspace-level active-profile pointer in config.json.
type ProfileStore struct {
	fs           *FS
	defaultModel types.ModelConfig
}

func NewProfileStore(fs *FS, defaultModel types.ModelConfig) *ProfileStore {
	return &ProfileStore{fs: fs, defaultModel: defaultModel}
}

func (s *ProfileStore) configPath() string {
	return s.fs.DataPath("config.json")
}

// LoadConfig reads the workspace config, synthesizing a fresh one with the
// default profile registered when none exists yet.
func (s *ProfileStore) LoadConfig() (*types.WorkspaceConfig, error) {
	var cfg types.WorkspaceConfig
	err := ReadJSON(s.configPath(), &cfg)
	if os.IsNotExist(err) {
		cfg = types.WorkspaceConfig{
			CurrentProfile: "default",
			Profiles: map[string]types.ProfileInfo{
				"default": {
					Name:        "default",
					DisplayName: "Default",
					CreatedAt:   time.Now().Format(time.RFC3339),
				},
			},
			DefaultModel: s.defaultModel,
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, errors.Corrupt("config.json", fmt.Sprintf("workspace config failed to parse: %v", err))
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]types.ProfileInfo{}
	}
	return &cfg, nil
}

func (s *ProfileStore) SaveConfig(cfg *types.WorkspaceConfig) error {
	return WriteJSON(s.configPath(), cfg)
}

// List returns every registered profile.
func (s *ProfileStore) List() ([]types.ProfileInfo, error) {
	cfg, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}
	profiles := make([]types.ProfileInfo, 0, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Current returns the active profile.
func (s *ProfileStore) Current() (types.ProfileInfo, error) {
	cfg, err := s.LoadConfig()
	if err != nil {
		return types.ProfileInfo{}, err
	}
	info, ok := cfg.Profiles[cfg.CurrentProfile]
	if !ok {
		return types.ProfileInfo{}, errors.Corrupt(cfg.CurrentProfile, "active profile is not registered")
	}
	return info, nil
}

// Switch makes the named profile active and guarantees its directory
// skeleton exists, seeding example background data on first use.
func (s *ProfileStore) Switch(name string) error {
	cfg, err := s.LoadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Profiles[name]; !ok {
		return errors.NotFound(name, "profile is not registered")
	}

	cfg.CurrentProfile = name
	if err := s.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save workspace config: %w", err)
	}
	s.fs.SwitchProfile(name)
	return s.ensureSkeleton(name)
}

// Create registers a new profile with a full directory skeleton. Names must
// be alphanumeric with no spaces; the check runs before any directory is
// created.
func (s *ProfileStore) Create(name, displayName, description string) error {
	if !validProfileName.MatchString(name) {
		return errors.Input(name, "profile name must be alphanumeric with no spaces")
	}

	cfg, err := s.LoadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Profiles[name]; ok {
		return errors.Input(name, "profile already exists")
	}

	info := types.ProfileInfo{
		Name:        name,
		DisplayName: displayName,
		Description: description,
		CreatedAt:   time.Now().Format(time.RFC3339),
	}

	if err := s.ensureSkeleton(name); err != nil {
		return err
	}
	if err := WriteJSON(s.fs.DataPath("profiles", name, "profile.json"), info); err != nil {
		return fmt.Errorf("failed to write profile config for %s: %w", name, err)
	}

	cfg.Profiles[name] = info
	return s.SaveConfig(cfg)
}

// Delete removes a profile and its data. The reserved default profile is
// refused outright. Deleting the active profile first switches to default;
// if that switch fails, the directory tree stays intact.
func (s *ProfileStore) Delete(name string) error {
	if name == "default" {
		return errors.Input(name, "the default profile cannot be deleted")
	}

	cfg, err := s.LoadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Profiles[name]; !ok {
		return errors.NotFound(name, "profile is not registered")
	}

	if cfg.CurrentProfile == name {
		if err := s.Switch("default"); err != nil {
			return fmt.Errorf("cannot delete active profile %s: %w", name, err)
		}
		cfg, err = s.LoadConfig()
		if err != nil {
			return err
		}
	}

	if err := os.RemoveAll(s.fs.DataPath("profiles", name)); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", name, err)
	}

	delete(cfg.Profiles, name)
	return s.SaveConfig(cfg)
}

// EnsureExamples materializes the starter background files that new profile
// skeletons are seeded from. An existing examples directory is left alone.
func (s *ProfileStore) EnsureExamples() error {
	dir := s.fs.DataPath("examples", "background")
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	for name, content := range starterBackground {
		if err := WriteText(filepath.Join(dir, name), content); err != nil {
			return fmt.Errorf("failed to write example background %s: %w", name, err)
		}
	}
	return nil
}

var starterBackground = map[string]string{
	"contact.md": `# Contact

Your Name
your.email@example.com | City, Country
github.com/yourhandle | linkedin.com/in/yourhandle
`,
	"experience.md": `# Experience

## Company Name (2020 - present)
Role title. What you built, who used it, what changed because of it.
Quantify where you can.
`,
	"education.md": `# Education

## Degree, Institution (year)
Relevant coursework, honors, certifications.
`,
	"reference.md": `# Reference material

Anything else the generator should know: publications, talks,
side projects, preferred phrasing for past roles.
`,
}

// ensureSkeleton creates the profile's directory layout and mirrors example
// background files into it. Existing background files are never overwritten.
func (s *ProfileStore) ensureSkeleton(name string) error {
	root := s.fs.DataPath("profiles", name)
	for _, dir := range profileDirs {
		if err := EnsureDir(filepath.Join(root, dir)); err != nil {
			return fmt.Errorf("failed to create %s for profile %s: %w", dir, name, err)
		}
	}

	examples, err := filepath.Glob(s.fs.DataPath("examples", "background", "*.md"))
	if err != nil {
		return nil
	}
	for _, example := range examples {
		target := filepath.Join(root, "background", filepath.Base(example))
		if _, err := os.Stat(target); err == nil {
			continue
		}
		if content := ReadTextSafe(example); content != "" {
			if err := WriteText(target, content); err != nil {
				return fmt.Errorf("failed to seed background for profile %s: %w", name, err)
			}
		}
	}
	return nil
}
