package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	pnerrors "github.com/zachmeador/pineneedle/pkg/errors"
)

func TestRenderUnknownStyle(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render(context.Background(), "# Resume", "neon")
	assert.True(t, pnerrors.Is(err, pnerrors.KindUnknownStyle))
	assert.Contains(t, err.Error(), "professional")
	assert.Contains(t, err.Error(), "modern")
}

func TestStylesListsAllNames(t *testing.T) {
	r := NewRenderer()
	assert.ElementsMatch(t, []string{"professional", "modern"}, r.Styles())
}
