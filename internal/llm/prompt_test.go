package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procuretrack/quote-analyzer/internal/entity"
)

type fakePromptStore struct {
	cfg *entity.PromptConfig
	err error
}

func (f *fakePromptStore) GetActive(ctx context.Context) (*entity.PromptConfig, error) {
	return f.cfg, f.err
}

func TestResolveActivePromptNilStoreUsesDefaults(t *testing.T) {
	r := NewPromptResolver(nil, nil)
	system, user, err := r.ResolveActivePrompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompt, system)
	assert.Equal(t, DefaultUserPrompt, user)
}

func TestResolveActivePromptEmptyStoreUsesDefaults(t *testing.T) {
	r := NewPromptResolver(&fakePromptStore{}, nil)
	system, user, err := r.ResolveActivePrompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompt, system)
	assert.Equal(t, DefaultUserPrompt, user)
}

func TestResolveActivePromptUsesActiveConfig(t *testing.T) {
	store := &fakePromptStore{cfg: &entity.PromptConfig{
		Name:         "v2",
		SystemPrompt: "custom system {format_instructions}",
		UserPrompt:   "custom user {text_content}",
		IsActive:     true,
	}}
	r := NewPromptResolver(store, nil)
	system, user, err := r.ResolveActivePrompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "custom system {format_instructions}", system)
	assert.Equal(t, "custom user {text_content}", user)
}

func TestResolveActivePromptPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	r := NewPromptResolver(&fakePromptStore{err: storeErr}, nil)
	_, _, err := r.ResolveActivePrompt(context.Background())
	assert.ErrorIs(t, err, storeErr)
}

func TestResolveActivePromptInvariantErrorNotMaskedByDefaults(t *testing.T) {
	// The store surfaces a broken at-most-one-active invariant as an error;
	// the resolver must pass it through, never paper over it with the
	// default pair.
	invariantErr := errors.New("prompt config invariant violated: multiple active configs")
	r := NewPromptResolver(&fakePromptStore{err: invariantErr}, nil)

	system, user, err := r.ResolveActivePrompt(context.Background())
	assert.ErrorIs(t, err, invariantErr)
	assert.Empty(t, system)
	assert.Empty(t, user)
}

func TestRenderPromptReplacesAllOccurrences(t *testing.T) {
	out := RenderPrompt("a {x} b {x}", "{x}", "y")
	assert.Equal(t, "a y b y", out)
}

func TestDefaultPromptsCarryPlaceholders(t *testing.T) {
	assert.Contains(t, DefaultSystemPrompt, FormatInstructionsPlaceholder)
	assert.Contains(t, DefaultUserPrompt, TextContentPlaceholder)
}
