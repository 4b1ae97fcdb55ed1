package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccswitch.dev/cli/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestScanner(claudeDir, routerDir string) *RepositoryScanner {
	s := NewRepositoryScanner()
	s.SetDirs(claudeDir, routerDir)
	return s
}

func TestRepositoryScanner_BothDirectoriesMissing(t *testing.T) {
	base := t.TempDir()
	s := newTestScanner(filepath.Join(base, "nope"), filepath.Join(base, "also-nope"))

	result, err := s.Scan(context.Background())

	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.Warnings)
}

func TestRepositoryScanner_OneDirectoryMissing(t *testing.T) {
	claudeDir := t.TempDir()
	writeFile(t, claudeDir, "dev-settings.json", `{"env":{"FOO":"bar"}}`)

	s := newTestScanner(claudeDir, filepath.Join(claudeDir, "missing"))

	result, err := s.Scan(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "dev", result.Entries[0].DisplayName)
	assert.Equal(t, domain.KindClaude, result.Entries[0].Kind)
}

func TestRepositoryScanner_ClassifiesAndSorts(t *testing.T) {
	claudeDir := t.TempDir()
	routerDir := t.TempDir()

	writeFile(t, claudeDir, "zeta-settings.json", `{}`)
	writeFile(t, claudeDir, "alpha-settings.json", `{"env":{"A":"1"}}`)
	writeFile(t, claudeDir, "notes.txt", "not json")
	writeFile(t, claudeDir, "settings.json", `{}`) // active config, not a candidate
	writeFile(t, routerDir, "openai-config.json", `{"APIKEY":"","PORT":"3000"}`)
	writeFile(t, routerDir, "config.json", `{}`) // active config, not a candidate

	s := newTestScanner(claudeDir, routerDir)

	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	names := make([]string, len(result.Entries))
	for i, e := range result.Entries {
		names[i] = e.DisplayName
	}

	assert.Equal(t, []string{"alpha", "openai-ccr", "zeta"}, names)
	assert.Empty(t, result.Warnings)

	for _, e := range result.Entries {
		assert.True(t, filepath.IsAbs(e.Path))
	}
}

func TestRepositoryScanner_MalformedFileIsSkippedWithWarning(t *testing.T) {
	claudeDir := t.TempDir()
	writeFile(t, claudeDir, "good-settings.json", `{"env":{}}`)
	writeFile(t, claudeDir, "broken-settings.json", `{not json`)

	s := newTestScanner(claudeDir, filepath.Join(claudeDir, "no-router"))

	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	assert.Equal(t, "good", result.Entries[0].DisplayName)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "broken-settings.json")
}

func TestRepositoryScanner_RawFieldsParsed(t *testing.T) {
	routerDir := t.TempDir()
	writeFile(t, routerDir, "local-config.json", `{"APIKEY":"sk-1","PORT":3456}`)

	s := newTestScanner(filepath.Join(routerDir, "no-claude"), routerDir)

	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	entry := result.Entries[0]
	assert.Equal(t, "local-ccr", entry.DisplayName)
	assert.Equal(t, "sk-1", entry.RawFields["APIKEY"])
	assert.Equal(t, 3456.0, entry.RawFields["PORT"])
}

func TestRepositoryScanner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestScanner(t.TempDir(), t.TempDir())

	_, err := s.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
