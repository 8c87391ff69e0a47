package store

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pnerrors "github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

func testPosting(id, company, title, location string) types.JobPosting {
	return types.NewJobPosting(types.JobPostingContent{
		Title:                title,
		Company:              company,
		Location:             location,
		Requirements:         []string{"Go"},
		Responsibilities:     []string{"Build things"},
		Keywords:             []string{"go"},
		ToneReasoning:        "Plain, direct language.",
		Industry:             "Enterprise Software",
		PracticalDescription: "Mostly writing Go.",
	}, id, "2025-01-15T10:30:00Z", "openai", "gpt-4o", "raw posting text")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Acme Corp", "acme_corp"},
		{"Señor Dev (Remote!)", "seor_dev_remote"},
		{"  spaced -- out__ ", "spaced_out"},
		{"", "unknown"},
		{"!!!", "unknown"},
		{"already_clean", "already_clean"},
	}

	safe := regexp.MustCompile(`^[a-z0-9_]+$`)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Regexp(t, safe, got)
			// Idempotence.
			assert.Equal(t, got, SanitizeFilename(got))
		})
	}
}

func TestFilenameDefaultsLocationToRemote(t *testing.T) {
	posting := testPosting("20250115103000", "Acme", "Go Dev", "")
	assert.Equal(t, "20250115103000_acme_go_dev_remote.json", Filename(posting))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewJobStore(NewFS(t.TempDir()))
	posting := testPosting("20250115103000", "Acme Corp", "Backend Engineer", "Berlin")

	id, err := store.Save(posting)
	require.NoError(t, err)
	assert.Equal(t, posting.ID, id)

	loaded, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, posting, *loaded)
}

func TestLoadByPrefixAndExactName(t *testing.T) {
	fs := NewFS(t.TempDir())
	store := NewJobStore(fs)

	_, err := store.Save(testPosting("20250115103000", "Acme", "Dev", ""))
	require.NoError(t, err)

	// Prefix lookup.
	loaded, err := store.Load("20250115103000")
	require.NoError(t, err)
	assert.Equal(t, "Acme", loaded.Company)

	// Legacy flat filename.
	legacy := testPosting("legacy1", "Oldco", "Dev", "")
	require.NoError(t, WriteJSON(fs.ProfilePath("job_postings", "legacy1.json"), legacy))
	loaded, err = store.Load("legacy1")
	require.NoError(t, err)
	assert.Equal(t, "Oldco", loaded.Company)
}

func TestLoadRejectsMalformedID(t *testing.T) {
	store := NewJobStore(NewFS(t.TempDir()))

	for _, id := range []string{"bad[id", "../escape", "star*", ""} {
		_, err := store.Load(id)
		require.Error(t, err, id)
		assert.True(t, pnerrors.Is(err, pnerrors.KindInput), id)

		err = store.Delete(id)
		require.Error(t, err, id)
		assert.True(t, pnerrors.Is(err, pnerrors.KindInput), id)
	}
}

func TestLoadNotFound(t *testing.T) {
	store := NewJobStore(NewFS(t.TempDir()))

	_, err := store.Load("19990101000000")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindNotFound))
	assert.Contains(t, err.Error(), "19990101000000")
}

func TestSaveDistinctIDsNeverCollide(t *testing.T) {
	store := NewJobStore(NewFS(t.TempDir()))

	first := testPosting("20250115103000", "Acme", "Dev", "Berlin")
	second := testPosting("20250115103001", "Acme", "Dev", "Berlin")
	_, err := store.Save(first)
	require.NoError(t, err)
	_, err = store.Save(second)
	require.NoError(t, err)

	a, err := store.Load("20250115103000")
	require.NoError(t, err)
	b, err := store.Load("20250115103001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, a.ID)
	assert.Equal(t, second.ID, b.ID)
}

func TestListNewestFirstAndSkipsCorrupt(t *testing.T) {
	fs := NewFS(t.TempDir())
	store := NewJobStore(fs)

	_, err := store.Save(testPosting("20250115103000", "Acme", "Dev", ""))
	require.NoError(t, err)
	_, err = store.Save(testPosting("20250116090000", "Beta", "Dev", ""))
	require.NoError(t, err)

	corrupt := fs.ProfilePath("job_postings", "20250114000000_bad_dev_remote.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))

	postings, skipped, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, postings, 2)
	assert.Equal(t, "Beta", postings[0].Company)
	assert.Equal(t, "Acme", postings[1].Company)
}

func TestListBackfillsCreatedAt(t *testing.T) {
	fs := NewFS(t.TempDir())
	store := NewJobStore(fs)

	posting := testPosting("20250115103000", "Acme", "Dev", "")
	posting.CreatedAt = ""
	path := fs.ProfilePath("job_postings", Filename(posting))
	require.NoError(t, WriteJSON(path, posting))

	postings, _, err := store.List()
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Contains(t, postings[0].CreatedAt, "2025-01-15T10:30:00")
}

func TestDelete(t *testing.T) {
	fs := NewFS(t.TempDir())
	store := NewJobStore(fs)

	_, err := store.Save(testPosting("20250115103000", "Acme", "Dev", ""))
	require.NoError(t, err)

	require.NoError(t, store.Delete("20250115103000"))

	files, _ := filepath.Glob(fs.ProfilePath("job_postings", "*.json"))
	assert.Empty(t, files)

	err = store.Delete("20250115103000")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindNotFound))
}
