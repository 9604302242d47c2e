package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRuleFiles_SkipsCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	gitignore := filepath.Join(dir, ".gitignore")
	custom := filepath.Join(dir, ".architectignore")
	require.NoError(t, os.WriteFile(gitignore, []byte("\xEF\xBB\xBFdist/\r\n# comment\r\n"), 0o644))
	require.NoError(t, os.WriteFile(custom, []byte("# comment\n\n   \nfixtures/  \n*.snap\n"), 0o644))

	lines, err := ReadRuleFiles(gitignore, filepath.Join(dir, "missing"), custom)
	require.NoError(t, err)
	assert.Equal(t, []string{"dist/", "fixtures/", "*.snap"}, lines)
}

func TestReadRuleFiles_UnreadablePath(t *testing.T) {
	_, err := ReadRuleFiles(t.TempDir())
	assert.Error(t, err)
}

func TestLoadEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, LoadEnv(t.TempDir()))
}

func TestLoadEnv_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ARCHITECT_TEST_A=file\nARCHITECT_TEST_B=file\n"), 0o644))
	t.Setenv("ARCHITECT_TEST_A", "env")
	// Unset B after the test even though LoadEnv sets it directly.
	t.Setenv("ARCHITECT_TEST_B", "")
	require.NoError(t, os.Unsetenv("ARCHITECT_TEST_B"))

	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, "env", os.Getenv("ARCHITECT_TEST_A"))
	assert.Equal(t, "file", os.Getenv("ARCHITECT_TEST_B"))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o644))

	got, err := FindProjectRoot(nested, "go.mod")
	require.NoError(t, err)
	want, _ := filepath.EvalSymlinks(root)
	gotEval, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, want, gotEval)
	assert.True(t, DirectoryExists(nested))
	assert.False(t, DirectoryExists(filepath.Join(root, "go.mod")))
}
