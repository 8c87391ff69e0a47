package store

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zachmeador/pineneedle/pkg/types"
)

// ToneLibrary loads reusable tone configurations from the workspace tones
// directory. Corrupt files are skipped, not fatal.
type ToneLibrary struct {
	dir string
}

func NewToneLibrary(dir string) *ToneLibrary {
	return &ToneLibrary{dir: dir}
}

// Load returns all parseable tones plus the number of files skipped.
func (l *ToneLibrary) Load() ([]types.Tone, int) {
	files, err := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
	if err != nil {
		return nil, 0
	}

	var tones []types.Tone
	skipped := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			skipped++
			continue
		}
		var tone types.Tone
		if err := yaml.Unmarshal(data, &tone); err != nil || tone.Name == "" {
			slog.Warn("skipping unparseable tone file", "file", filepath.Base(file), "error", err)
			skipped++
			continue
		}
		tones = append(tones, tone)
	}
	return tones, skipped
}

// EnsureDefaults materializes the starter tones on first use. An existing
// tones directory is left alone, even if empty of the starters.
func (l *ToneLibrary) EnsureDefaults() error {
	if _, err := os.Stat(l.dir); err == nil {
		return nil
	}
	if err := EnsureDir(l.dir); err != nil {
		return err
	}
	for name, content := range starterTones {
		if err := WriteText(filepath.Join(l.dir, name+".yaml"), content); err != nil {
			return err
		}
	}
	return nil
}

var starterTones = map[string]string{
	"formal": `name: formal
description: Formal and traditional. Complete sentences, no contractions, conservative word choice.
`,
	"direct": `name: direct
description: Direct and confident. Short sentences, strong action verbs, quantified results first.
`,
}

// Get looks a tone up by name.
func (l *ToneLibrary) Get(name string) (*types.Tone, bool) {
	tones, _ := l.Load()
	for _, tone := range tones {
		if tone.Name == name {
			return &tone, true
		}
	}
	return nil, false
}
