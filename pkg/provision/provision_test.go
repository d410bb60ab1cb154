package provision_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webresearch/researcherctl/pkg/modelfile"
	"github.com/webresearch/researcherctl/pkg/ollama"
	"github.com/webresearch/researcherctl/pkg/provision"
)

// fakeClient records calls and returns scripted results.
type fakeClient struct {
	pullErr    error
	createErr  error
	listErr    error
	listModels []ollama.Model

	pulled  []string
	created []string
	listed  int
}

func (f *fakeClient) Pull(_ context.Context, name string, fn ollama.PullFunc) error {
	f.pulled = append(f.pulled, name)

	if fn != nil {
		fn(ollama.PullProgress{Status: "pulling manifest"})
		fn(ollama.PullProgress{Status: "success"})
	}

	return f.pullErr
}

func (f *fakeClient) Create(_ context.Context, name, _ string) error {
	f.created = append(f.created, name)

	return f.createErr
}

func (f *fakeClient) List(_ context.Context) ([]ollama.Model, error) {
	f.listed++

	return f.listModels, f.listErr
}

func foundLookPath(string) (string, error) { return "/usr/local/bin/ollama", nil }

func missingLookPath(string) (string, error) { return "", errors.New("executable file not found in $PATH") }

func testConfig(t *testing.T) provision.Config {
	t.Helper()

	cfg := provision.Defaults()
	cfg.ModelfilePath = filepath.Join(t.TempDir(), "Modelfile")

	return cfg
}

func TestProvisioner_Run_Success(t *testing.T) {
	cfg := testConfig(t)
	client := &fakeClient{
		listModels: []ollama.Model{{Name: "phi:latest"}, {Name: "researcher:latest"}},
	}

	var out bytes.Buffer

	p := &provision.Provisioner{
		Config:   cfg,
		Client:   client,
		LookPath: foundLookPath,
		Out:      &out,
	}

	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, []string{"phi"}, client.pulled)
	assert.Equal(t, []string{"researcher"}, client.created)
	assert.Equal(t, 1, client.listed)

	// The Modelfile is left on disk with the exact researcher content.
	data, err := os.ReadFile(cfg.ModelfilePath)
	require.NoError(t, err)
	assert.Equal(t, modelfile.Researcher().Render(), string(data))
}

func TestProvisioner_Run_OllamaMissing(t *testing.T) {
	cfg := testConfig(t)
	client := &fakeClient{}

	p := &provision.Provisioner{
		Config:   cfg,
		Client:   client,
		LookPath: missingLookPath,
		Out:      &bytes.Buffer{},
	}

	err := p.Run(context.Background())
	require.ErrorIs(t, err, provision.ErrOllamaMissing)
	assert.Contains(t, err.Error(), "https://ollama.com/download")

	// Nothing past the dependency check ran.
	assert.Empty(t, client.pulled)
	assert.Empty(t, client.created)
	assert.Zero(t, client.listed)
	assert.NoFileExists(t, cfg.ModelfilePath)
}

func TestProvisioner_Run_VerificationFailure(t *testing.T) {
	cfg := testConfig(t)
	client := &fakeClient{
		listModels: []ollama.Model{{Name: "phi:latest"}},
	}

	p := &provision.Provisioner{
		Config:   cfg,
		Client:   client,
		LookPath: foundLookPath,
		Out:      &bytes.Buffer{},
	}

	err := p.Run(context.Background())
	require.ErrorIs(t, err, provision.ErrNotRegistered)
}

func TestProvisioner_Run_PullFailureDoesNotAbort(t *testing.T) {
	cfg := testConfig(t)
	client := &fakeClient{
		pullErr:    errors.New("registry unreachable"),
		listModels: []ollama.Model{{Name: "researcher:latest"}},
	}

	var out bytes.Buffer

	p := &provision.Provisioner{
		Config:   cfg,
		Client:   client,
		LookPath: foundLookPath,
		Out:      &out,
	}

	require.NoError(t, p.Run(context.Background()))
	assert.Contains(t, out.String(), "warning: pull failed")
	assert.Equal(t, []string{"researcher"}, client.created)
}

func TestProvisioner_Run_CreateFailure(t *testing.T) {
	cfg := testConfig(t)
	client := &fakeClient{createErr: errors.New("invalid modelfile")}

	p := &provision.Provisioner{
		Config:   cfg,
		Client:   client,
		LookPath: foundLookPath,
		Out:      &bytes.Buffer{},
	}

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, client.listed, "verification should not run after a failed create")
}

func TestProvisioner_Run_CustomBase(t *testing.T) {
	cfg := testConfig(t)
	cfg.BaseModel = "mistral"
	cfg.ModelName = "researcher"

	client := &fakeClient{
		listModels: []ollama.Model{{Name: "researcher:latest"}},
	}

	p := &provision.Provisioner{
		Config:   cfg,
		Client:   client,
		LookPath: foundLookPath,
		Out:      &bytes.Buffer{},
	}

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{"mistral"}, client.pulled)

	data, err := os.ReadFile(cfg.ModelfilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FROM mistral\n")
}

func TestProvisioner_Run_InvalidConfig(t *testing.T) {
	p := &provision.Provisioner{
		Config:   provision.Config{},
		Client:   &fakeClient{},
		LookPath: foundLookPath,
		Out:      &bytes.Buffer{},
	}

	require.Error(t, p.Run(context.Background()))
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := provision.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, provision.Defaults(), cfg)
	})

	t.Run("empty path yields defaults", func(t *testing.T) {
		cfg, err := provision.LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, provision.Defaults(), cfg)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "researcher.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base_model: mistral\nmodel_name: research-mistral\n"), 0o600))

		cfg, err := provision.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "mistral", cfg.BaseModel)
		assert.Equal(t, "research-mistral", cfg.ModelName)
		assert.Equal(t, "Modelfile", cfg.ModelfilePath)
	})

	t.Run("env vars are expanded", func(t *testing.T) {
		t.Setenv("TEST_OLLAMA_HOST", "http://10.0.0.5:11434")

		path := filepath.Join(t.TempDir(), "researcher.yaml")
		require.NoError(t, os.WriteFile(path, []byte("ollama_url: ${TEST_OLLAMA_HOST}\n"), 0o600))

		cfg, err := provision.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "http://10.0.0.5:11434", cfg.OllamaURL)
	})

	t.Run("OLLAMA_API_URL overrides default URL", func(t *testing.T) {
		t.Setenv("OLLAMA_API_URL", "http://remote:11434")

		cfg, err := provision.LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "http://remote:11434", cfg.OllamaURL)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "researcher.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base_model: [unclosed\n"), 0o600))

		_, err := provision.LoadConfig(path)
		require.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, provision.Defaults().Validate())

	cfg := provision.Defaults()
	cfg.BaseModel = ""
	assert.Error(t, cfg.Validate())

	cfg = provision.Defaults()
	cfg.ModelName = ""
	assert.Error(t, cfg.Validate())

	cfg = provision.Defaults()
	cfg.ModelfilePath = ""
	assert.Error(t, cfg.Validate())
}
