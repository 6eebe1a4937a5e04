package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/apitypes/pkg/types"
)

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("api.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("API.YML"))
	assert.Equal(t, FormatJSON, FormatFor("api.json"))
	assert.Equal(t, FormatJSON, FormatFor("api"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"name": "User", "url": "https://api.example.test/users/1"},
  {"name": "CreatePost", "url": "https://api.example.test/posts", "method": "POST",
   "headers": {"Authorization": "Bearer t"}, "body": {"title": "x"}, "timeout": 5},
  {"name": "Users", "url": "https://api.example.test/users", "sampleOnly": true, "select": ".data"}
]`), 0o644))

	specs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 3)

	assert.Equal(t, "User", specs[0].Name)
	assert.Equal(t, "POST", specs[1].Method)
	assert.Equal(t, "Bearer t", specs[1].Headers["Authorization"])
	assert.Equal(t, map[string]any{"title": "x"}, specs[1].Body)
	assert.Equal(t, 5, specs[1].Timeout)
	assert.True(t, specs[2].SampleOnly)
	assert.Equal(t, ".data", specs[2].Select)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: User
  url: https://api.example.test/users/1
- name: Users
  url: https://api.example.test/users
  sampleOnly: true
  body:
    page: 1
`), 0o644))

	specs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.True(t, specs[1].SampleOnly)
	assert.Equal(t, map[string]any{"page": 1}, specs[1].Body)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "file does not exist")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name": "not a list"}`), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing JSON")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o644))
	_, err = Load(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is empty")
}

func TestSaveAndLoad(t *testing.T) {
	for _, ext := range []string{"json", "yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "api-config."+ext)
			require.NoError(t, Save(path, Example()))

			specs, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, Example(), specs)
		})
	}
}

func TestEncode_JSONShape(t *testing.T) {
	data, err := Encode([]types.EndpointSpec{{Name: "User", URL: "https://x.test/u?a=1&b=2"}}, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"name\": \"User\",\n    \"url\": \"https://x.test/u?a=1&b=2\"\n  }\n]\n", string(data))
}

func TestExample(t *testing.T) {
	specs := Example()
	require.Len(t, specs, 3)
	assert.Equal(t, []string{"User", "Users", "Post"}, []string{specs[0].Name, specs[1].Name, specs[2].Name})
	assert.True(t, specs[1].SampleOnly)
	assert.Equal(t, "api-config.yaml", ExamplePath(FormatYAML))
}
