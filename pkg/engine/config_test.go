package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-from-env")

	path := writeConfig(t, `
provider:
  kind: anthropic
  base_url: https://api.anthropic.com
  api_key: ${TEST_API_KEY}
  model: claude-sonnet-4-5
mcp_servers:
  - name: files
    command: mcp-files
    args: ["--root", "."]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider.Kind)
	assert.Equal(t, "sk-from-env", cfg.Provider.APIKey)
	require.Len(t, cfg.MCPServers, 1)
	assert.Equal(t, []string{"--root", "."}, cfg.MCPServers[0].Args)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeConfig(t, "provider: [")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing provider kind",
			cfg:     Config{},
			wantErr: "provider kind",
		},
		{
			name: "server without name",
			cfg: Config{
				Provider:   ProviderConfig{Kind: "openai"},
				MCPServers: []MCPConfig{{Command: "x"}},
			},
			wantErr: "name is required",
		},
		{
			name: "server without transport",
			cfg: Config{
				Provider:   ProviderConfig{Kind: "openai"},
				MCPServers: []MCPConfig{{Name: "a"}},
			},
			wantErr: "command or url",
		},
		{
			name: "server with both transports",
			cfg: Config{
				Provider:   ProviderConfig{Kind: "openai"},
				MCPServers: []MCPConfig{{Name: "a", Command: "x", URL: "http://localhost"}},
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "duplicate server names",
			cfg: Config{
				Provider:   ProviderConfig{Kind: "openai"},
				MCPServers: []MCPConfig{{Name: "a", Command: "x"}, {Name: "a", Command: "y"}},
			},
			wantErr: "duplicate",
		},
		{
			name: "valid",
			cfg: Config{
				Provider:   ProviderConfig{Kind: "openai"},
				MCPServers: []MCPConfig{{Name: "a", Command: "x"}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
