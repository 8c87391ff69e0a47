package store

import (
	"github.com/zachmeador/pineneedle/pkg/types"
)

// LoadUserBackground reads the profile's background markdown files. Missing
// files come back as empty strings, never an error.
func LoadUserBackground(fs *FS) types.UserBackground {
	return types.UserBackground{
		ExperienceMD: ReadTextSafe(fs.ProfilePath("background", "experience.md")),
		EducationMD:  ReadTextSafe(fs.ProfilePath("background", "education.md")),
		ContactMD:    ReadTextSafe(fs.ProfilePath("background", "contact.md")),
		ReferenceMD:  ReadTextSafe(fs.ProfilePath("background", "reference.md")),
	}
}
