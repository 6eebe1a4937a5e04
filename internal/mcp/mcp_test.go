package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/apitypes/internal/config"
	"github.com/usestring/apitypes/internal/mcp/tools"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{OutputDir: t.TempDir(), Format: "typescript"}
	s, err := NewServer(tools.NewDeps(cfg), WithBuiltinTools(), WithBuiltinPrompts())
	require.NoError(t, err)
	return s
}

func readRequest(uri string) *sdkmcp.ReadResourceRequest {
	return &sdkmcp.ReadResourceRequest{Params: &sdkmcp.ReadResourceParams{URI: uri}}
}

func TestNewServer_RequiresConfig(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&tools.Deps{})
	assert.Error(t, err)
}

func TestNewServer_CustomRegistration(t *testing.T) {
	called := false
	cfg := &config.Config{OutputDir: t.TempDir()}
	s, err := NewServer(tools.NewDeps(cfg), WithCustomRegistration(func(srv *sdkmcp.Server) {
		called = true
	}))
	require.NoError(t, err)
	assert.True(t, called)
	assert.NotNil(t, s.MCPServer())
}

func TestParseResourceURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    map[string]string
		wantErr bool
	}{
		{uri: "apitypes://file/User.ts", want: map[string]string{"name": "User.ts"}},
		{uri: "apitypes://file/User.schema.json", want: map[string]string{"name": "User.schema.json"}},
		{uri: "apitypes://example-config/yaml", want: map[string]string{"format": "yaml"}},
		{uri: "apitypes://file/../secret.ts", wantErr: true},
		{uri: "apitypes://file/..", wantErr: true},
		{uri: "apitypes://file/notes.txt", wantErr: true},
		{uri: "apitypes://file/", wantErr: true},
		{uri: "apitypes://catalog/x", wantErr: true},
		{uri: "http://file/User.ts", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := parseResourceURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				var coded *tools.CodedError
				assert.True(t, errors.As(err, &coded))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleResourceFile(t *testing.T) {
	s := testServer(t)
	dir := s.deps.Config.OutputDir
	require.NoError(t, os.WriteFile(filepath.Join(dir, "User.ts"), []byte("export interface User {}\n"), 0o644))

	res, err := s.handleResourceFile(context.Background(), readRequest("apitypes://file/User.ts"))
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "export interface User {}\n", res.Contents[0].Text)
	assert.Equal(t, mimeTypeScript, res.Contents[0].MIMEType)

	_, err = s.handleResourceFile(context.Background(), readRequest("apitypes://file/Missing.ts"))
	assert.Error(t, err)
}

func TestHandleResourceExampleConfig(t *testing.T) {
	s := testServer(t)

	res, err := s.handleResourceExampleConfig(context.Background(), readRequest("apitypes://example-config/yaml"))
	require.NoError(t, err)
	assert.Equal(t, mimeYAML, res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, "name: User")

	res, err = s.handleResourceExampleConfig(context.Background(), readRequest("apitypes://example-config/json"))
	require.NoError(t, err)
	assert.Equal(t, mimeJSON, res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, `"name": "User"`)

	_, err = s.handleResourceExampleConfig(context.Background(), readRequest("apitypes://example-config/toml"))
	assert.Error(t, err)
}

func TestMethodLevel(t *testing.T) {
	assert.Equal(t, "INFO", methodLevel("tools/call").String())
	assert.Equal(t, "INFO", methodLevel("resources/read").String())
	assert.Equal(t, "DEBUG", methodLevel("ping").String())
	assert.Equal(t, "DEBUG", methodLevel("notifications/initialized").String())
}
