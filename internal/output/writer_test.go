package output

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/apitypes/internal/typegen"
)

func newTestWriter(t *testing.T, dir string) *Writer {
	t.Helper()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	w.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return w
}

func TestWriter_EnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "types")
	w := newTestWriter(t, dir)

	require.NoError(t, w.EnsureDir())
	require.NoError(t, w.EnsureDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriter_DirIsAbsolute(t *testing.T) {
	w, err := NewWriter("types")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(w.Dir()))
}

func TestWriter_WriteArtifact(t *testing.T) {
	w := newTestWriter(t, t.TempDir())
	require.NoError(t, w.EnsureDir())

	path, err := w.WriteArtifact("User", "export interface User {}\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir(), "User.ts"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export interface User {}\n", string(data))

	// Overwrites on rerun.
	_, err = w.WriteArtifact("User", "export interface User { id: number }\n")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id: number")
}

func TestWriter_WriteSchema(t *testing.T) {
	w := newTestWriter(t, t.TempDir())
	path, err := w.WriteSchema("User", `{"type": "object"}`)
	require.NoError(t, err)
	assert.Equal(t, "User.schema.json", filepath.Base(path))
}

func TestWriter_PersistenceError(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := newTestWriter(t, filepath.Join(blocker, "types"))
	err := w.EnsureDir()
	require.Error(t, err)

	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "create directory", pe.Op)
}

func TestWriter_WriteAuxiliary_TypeScript(t *testing.T) {
	w := newTestWriter(t, t.TempDir())

	files, err := w.WriteAuxiliary([]string{"User", "Post", "Comment"}, typegen.FormatTypeScript)
	require.NoError(t, err)
	require.Len(t, files, 2)

	index, err := os.ReadFile(filepath.Join(w.Dir(), IndexFile))
	require.NoError(t, err)
	assert.Equal(t, `// Auto-generated type index
// Generated at: 2026-01-02T03:04:05Z

export { Convert as UserConvert, type User } from './User';
export { Convert as PostConvert, type Post } from './Post';
export { Convert as CommentConvert, type Comment } from './Comment';
`, string(index))

	usage, err := os.ReadFile(filepath.Join(w.Dir(), UsageExampleFile))
	require.NoError(t, err)
	u := string(usage)
	assert.Contains(t, u, "import { Convert as UserConvert, type User } from './User';")
	assert.Contains(t, u, "import { Convert as PostConvert, type Post } from './Post';")
	assert.NotContains(t, u, "Comment")
	assert.Contains(t, u, "export async function fetchUser(id: number): Promise<User | null> {")
	assert.Contains(t, u, "    const response = await fetch(`/api/users/${id}`);")
	assert.Contains(t, u, "    return UserConvert.toUser(jsonText);")
	assert.Contains(t, u, "  } catch (error) {")
}

func TestWriter_WriteAuxiliary_SchemaFormats(t *testing.T) {
	tests := []struct {
		format typegen.Format
		index  string
		parse  string
	}{
		{typegen.FormatZod, "export { UserSchema, type User } from './User';", "return UserSchema.parse(JSON.parse(jsonText));"},
		{typegen.FormatEffectSchema, "export { UserSchema, type User } from './User';", "return S.decodeUnknownSync(UserSchema)(JSON.parse(jsonText));"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w := newTestWriter(t, t.TempDir())
			_, err := w.WriteAuxiliary([]string{"User"}, tt.format)
			require.NoError(t, err)

			index, err := os.ReadFile(filepath.Join(w.Dir(), IndexFile))
			require.NoError(t, err)
			assert.Contains(t, string(index), tt.index)

			usage, err := os.ReadFile(filepath.Join(w.Dir(), UsageExampleFile))
			require.NoError(t, err)
			assert.Contains(t, string(usage), tt.parse)
		})
	}
}

func TestWriter_WriteAuxiliary_NoNames(t *testing.T) {
	w := newTestWriter(t, t.TempDir())
	files, err := w.WriteAuxiliary(nil, typegen.FormatTypeScript)
	require.NoError(t, err)
	assert.Empty(t, files)

	entries, err := os.ReadDir(w.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenderUsageExample_Balanced(t *testing.T) {
	for _, f := range typegen.Formats {
		src := renderUsageExample([]string{"User"}, f)
		assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"), string(f))
	}
}
