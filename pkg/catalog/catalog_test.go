package catalog_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webresearch/researcherctl/pkg/catalog"
	"github.com/webresearch/researcherctl/pkg/ollama"
)

func TestLookup(t *testing.T) {
	t.Run("finds untagged base", func(t *testing.T) {
		e, ok := catalog.Lookup("mistral-nemo")
		require.True(t, ok)
		assert.Equal(t, 38000, e.DefaultCtx)
	})

	t.Run("tagged name matches its base", func(t *testing.T) {
		e, ok := catalog.Lookup("mistral:7b")
		require.True(t, ok)
		assert.Equal(t, "mistral", e.Base)
	})

	t.Run("unknown base", func(t *testing.T) {
		_, ok := catalog.Lookup("phi")
		assert.False(t, ok)
	})
}

func TestContextLengthFor(t *testing.T) {
	assert.Equal(t, 32000, catalog.ContextLengthFor("llama2"))
	assert.Equal(t, catalog.DefaultContextLength, catalog.ContextLengthFor("phi"))
}

func TestResearchModelName(t *testing.T) {
	assert.Equal(t, "research-mistral", catalog.ResearchModelName("mistral"))
	assert.Equal(t, "research-mistral-7b", catalog.ResearchModelName("mistral:7b"))
}

func TestCategorize(t *testing.T) {
	models := []ollama.Model{
		{Name: "research-mistral"},
		{Name: "mistral"},
		{Name: "phi:latest"},
		{Name: "llama2"},
	}

	g := catalog.Categorize(models)

	require.Len(t, g.Research, 1)
	assert.Equal(t, "research-mistral", g.Research[0].Name)

	require.Len(t, g.Recommended, 2)
	assert.Equal(t, "mistral", g.Recommended[0].Name)
	assert.Equal(t, "llama2", g.Recommended[1].Name)

	require.Len(t, g.Other, 1)
	assert.Equal(t, "phi:latest", g.Other[0].Name)
}

func TestBaseOptions(t *testing.T) {
	installed := []ollama.Model{
		{Name: "phi:latest"},
		{Name: "mistral"}, // already recommended, must not duplicate
	}

	opts := catalog.BaseOptions(installed)

	assert.Equal(t, []string{"llama2", "mistral", "mistral-nemo", "phi:latest"}, opts)
}

// fakeDeriveClient scripts Has/Create for derivation tests.
type fakeDeriveClient struct {
	has       bool
	hasErr    error
	createErr error

	createdName string
	createdFile string
	modelfile   string
}

func (f *fakeDeriveClient) Has(context.Context, string) (bool, error) {
	return f.has, f.hasErr
}

func (f *fakeDeriveClient) Create(_ context.Context, name, path string) error {
	f.createdName = name
	f.createdFile = path

	if data, err := os.ReadFile(path); err == nil {
		f.modelfile = string(data)
	}

	return f.createErr
}

func TestCreateResearchModel(t *testing.T) {
	t.Run("derives with explicit context length", func(t *testing.T) {
		client := &fakeDeriveClient{has: true}

		name, err := catalog.CreateResearchModel(context.Background(), client, "mistral", 16000)
		require.NoError(t, err)

		assert.Equal(t, "research-mistral", name)
		assert.Contains(t, client.modelfile, "FROM mistral\n")
		assert.Contains(t, client.modelfile, "PARAMETER num_ctx 16000\n")

		// The temp modelfile is cleaned up after the build.
		assert.NoFileExists(t, client.createdFile)
	})

	t.Run("zero context length uses the recommended default", func(t *testing.T) {
		client := &fakeDeriveClient{has: true}

		_, err := catalog.CreateResearchModel(context.Background(), client, "llama2", 0)
		require.NoError(t, err)
		assert.Contains(t, client.modelfile, "PARAMETER num_ctx 32000\n")
	})

	t.Run("missing base model", func(t *testing.T) {
		client := &fakeDeriveClient{has: false}

		_, err := catalog.CreateResearchModel(context.Background(), client, "ghost", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		assert.Empty(t, client.createdName)
	})

	t.Run("create failure is surfaced", func(t *testing.T) {
		client := &fakeDeriveClient{has: true, createErr: errors.New("boom")}

		_, err := catalog.CreateResearchModel(context.Background(), client, "mistral", 0)
		require.Error(t, err)
	})
}
