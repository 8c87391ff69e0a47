package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pnerrors "github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

func newProfileStore(t *testing.T) (*ProfileStore, *FS) {
	t.Helper()
	fs := NewFS(t.TempDir())
	return NewProfileStore(fs, types.ModelConfig{Provider: "openai", ModelName: "gpt-4o", Temperature: 0.7}), fs
}

func TestCreateRejectsInvalidNamesBeforeAnyDirectory(t *testing.T) {
	store, fs := newProfileStore(t)

	for _, name := range []string{"my profile", "", "dash-ed", "slash/y"} {
		err := store.Create(name, "Bad", "")
		require.Error(t, err, name)
		assert.True(t, pnerrors.Is(err, pnerrors.KindInput))

		_, statErr := os.Stat(fs.DataPath("profiles", name))
		assert.True(t, os.IsNotExist(statErr), "directory must not be created for %q", name)
	}
}

func TestCreateAndSwitch(t *testing.T) {
	store, fs := newProfileStore(t)

	require.NoError(t, store.Create("work", "Work", "job hunt 2025"))

	for _, dir := range profileDirs {
		info, err := os.Stat(fs.DataPath("profiles", "work", dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	require.NoError(t, store.Switch("work"))
	assert.Equal(t, "work", fs.Profile())

	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, "work", current.Name)
}

func TestCreateDuplicateFails(t *testing.T) {
	store, _ := newProfileStore(t)

	require.NoError(t, store.Create("work", "Work", ""))
	err := store.Create("work", "Work again", "")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindInput))
}

func TestSwitchUnknownProfile(t *testing.T) {
	store, fs := newProfileStore(t)

	err := store.Switch("nope")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindNotFound))
	assert.Equal(t, "default", fs.Profile())
}

func TestSwitchSeedsExampleBackgroundWithoutOverwriting(t *testing.T) {
	store, fs := newProfileStore(t)

	require.NoError(t, WriteText(fs.DataPath("examples", "background", "experience.md"), "# Example experience"))
	require.NoError(t, store.Create("work", "Work", ""))

	// User already wrote their own experience file.
	own := fs.DataPath("profiles", "work", "background", "experience.md")
	require.NoError(t, WriteText(own, "# My real experience"))

	require.NoError(t, store.Switch("work"))
	assert.Equal(t, "# My real experience", ReadTextSafe(own))

	// But files the user has not touched get seeded.
	require.NoError(t, WriteText(fs.DataPath("examples", "background", "education.md"), "# Example education"))
	require.NoError(t, store.Switch("work"))
	assert.Equal(t, "# Example education",
		ReadTextSafe(fs.DataPath("profiles", "work", "background", "education.md")))
}

func TestDeleteDefaultRefused(t *testing.T) {
	store, _ := newProfileStore(t)

	err := store.Delete("default")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindInput))
}

func TestDeleteActiveProfileSwitchesToDefaultFirst(t *testing.T) {
	store, fs := newProfileStore(t)

	require.NoError(t, store.Create("work", "Work", ""))
	require.NoError(t, store.Switch("work"))

	require.NoError(t, store.Delete("work"))

	assert.Equal(t, "default", fs.Profile())
	cfg, err := store.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.CurrentProfile)
	assert.NotContains(t, cfg.Profiles, "work")

	_, statErr := os.Stat(fs.DataPath("profiles", "work"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteUnregisteredProfile(t *testing.T) {
	store, _ := newProfileStore(t)

	err := store.Delete("ghost")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindNotFound))
}

func TestEnsureExamplesSeedsOnceOnly(t *testing.T) {
	store, fs := newProfileStore(t)

	require.NoError(t, store.EnsureExamples())
	contact := fs.DataPath("examples", "background", "contact.md")
	assert.Contains(t, ReadTextSafe(contact), "Contact")

	// A user edit to the examples survives later calls.
	require.NoError(t, WriteText(contact, "# Mine"))
	require.NoError(t, store.EnsureExamples())
	assert.Equal(t, "# Mine", ReadTextSafe(contact))
}

func TestToneLibraryEnsureDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tones")
	lib := NewToneLibrary(dir)

	require.NoError(t, lib.EnsureDefaults())
	tones, skipped := lib.Load()
	assert.Zero(t, skipped)
	assert.Len(t, tones, 2)

	// An existing directory is not re-seeded.
	for _, tone := range tones {
		require.NoError(t, os.Remove(filepath.Join(dir, tone.Name+".yaml")))
	}
	require.NoError(t, lib.EnsureDefaults())
	tones, _ = lib.Load()
	assert.Empty(t, tones)
}

func TestLoadUserBackgroundMissingFilesAreEmpty(t *testing.T) {
	fs := NewFS(t.TempDir())

	require.NoError(t, WriteText(fs.ProfilePath("background", "experience.md"), "# Worked places"))

	bg := LoadUserBackground(fs)
	assert.Equal(t, "# Worked places", bg.ExperienceMD)
	assert.Empty(t, bg.EducationMD)
	assert.Empty(t, bg.ContactMD)
	assert.Empty(t, bg.ReferenceMD)
}

func TestToneLibrarySkipsCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "technical.yaml"),
		[]byte("name: technical\ndescription: terse and precise\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"),
		[]byte("name: [\n"), 0o644))

	lib := NewToneLibrary(dir)
	tones, skipped := lib.Load()
	assert.Len(t, tones, 1)
	assert.Equal(t, 1, skipped)

	tone, ok := lib.Get("technical")
	require.True(t, ok)
	assert.Equal(t, "terse and precise", tone.Description)

	_, ok = lib.Get("missing")
	assert.False(t, ok)
}
