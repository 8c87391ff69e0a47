package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// Env holds the environment-level configuration: where the data root lives
// and which model to use when a request doesn't pick one.
type Env struct {
	DataDir      string
	DefaultModel types.ModelConfig
}

// Load resolves configuration values from the environment. The dotenv file
// itself is loaded by main before this runs.
func Load() Env {
	dataDir := os.Getenv("PINENEEDLE_DATA_DIR")
	if dataDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		dataDir = filepath.Join(wd, "data")
	}

	temperature := float32(0.7)
	if t := os.Getenv("PINENEEDLE_DEFAULT_TEMPERATURE"); t != "" {
		if parsed, err := strconv.ParseFloat(t, 32); err == nil {
			temperature = float32(parsed)
		}
	}

	provider := os.Getenv("PINENEEDLE_DEFAULT_PROVIDER")
	if provider == "" {
		provider = "openai"
	}
	modelName := os.Getenv("PINENEEDLE_DEFAULT_MODEL")
	if modelName == "" {
		modelName = "gpt-4o"
	}

	return Env{
		DataDir: dataDir,
		DefaultModel: types.ModelConfig{
			Provider:    provider,
			ModelName:   modelName,
			Temperature: temperature,
		},
	}
}

// CheckCredentials verifies the selected provider's API key is present.
// This runs before any model call so a missing key never surfaces
// mid-retry-loop.
func CheckCredentials(provider string) error {
	switch provider {
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return errors.Config(provider, "OPENAI_API_KEY environment variable is required")
		}
	case "gemini", "google":
		if os.Getenv("GEMINI_KEY") == "" {
			return errors.Config(provider, "GEMINI_KEY environment variable is required")
		}
	default:
		return errors.Config(provider, fmt.Sprintf("unsupported model provider %q", provider))
	}
	return nil
}
