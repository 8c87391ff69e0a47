package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pnerrors "github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

func TestLoadMaterializesDefault(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(dir)

	tpl, err := engine.Load("default")
	require.NoError(t, err)

	assert.Contains(t, tpl.Content, "## Summary")
	assert.Len(t, tpl.Schema.Sections, 4)

	// Both files should now exist on disk.
	_, err = os.Stat(filepath.Join(dir, "default.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "default.yaml"))
	assert.NoError(t, err)

	// Second load comes from cache and returns the same pair.
	again, err := engine.Load("default")
	require.NoError(t, err)
	assert.Same(t, tpl, again)
}

func TestLoadUnknownTemplate(t *testing.T) {
	engine := NewEngine(t.TempDir())

	_, err := engine.Load("fancy")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindNotFound))
	assert.Contains(t, err.Error(), "fancy")
}

func TestLoadCorruptSchema(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.md"), []byte("# x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("sections: [\n"), 0o644))

	engine := NewEngine(dir)
	_, err := engine.Load("broken")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindCorrupt))
}

func TestMatchSection(t *testing.T) {
	section := types.TemplateSection{
		Name:        "summary",
		DisplayName: "Summary",
		Format:      "## Summary",
	}

	tests := []struct {
		line  string
		match bool
	}{
		{"## Summary", true},
		{"##Summary", true},
		{"# Summary", true},
		{"## SUMMARY", true},
		{"  ## summary  ", true},
		{"### Summary", false},
		{"## Summary of Qualifications", false},
		{"Summary", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.match, MatchSection(tt.line, section))
		})
	}
}

func TestSectionFilters(t *testing.T) {
	schema := DefaultSchema()

	required := RequiredSections(schema)
	optional := OptionalSections(schema)

	assert.Len(t, required, 3)
	assert.Len(t, optional, 1)
	assert.Equal(t, "skills", optional[0].Name)
}
