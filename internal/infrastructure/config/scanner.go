package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ccswitch.dev/cli/internal/core/domain"
)

// RepositoryScanner discovers selectable configuration files in the Claude
// and claude-code-router directories.
type RepositoryScanner struct {
	claudeDir string
	routerDir string
}

// NewRepositoryScanner creates a scanner over the conventional home-relative
// config locations.
func NewRepositoryScanner() *RepositoryScanner {
	homeDir, _ := os.UserHomeDir()

	return &RepositoryScanner{
		claudeDir: filepath.Join(homeDir, ".claude"),
		routerDir: filepath.Join(homeDir, ".claude-code-router"),
	}
}

// SetDirs overrides the scanned directories.
func (s *RepositoryScanner) SetDirs(claudeDir, routerDir string) {
	if claudeDir != "" {
		s.claudeDir = claudeDir
	}
	if routerDir != "" {
		s.routerDir = routerDir
	}
}

// ClaudeDir returns the directory scanned for Claude settings files.
func (s *RepositoryScanner) ClaudeDir() string { return s.claudeDir }

// RouterDir returns the directory scanned for router config files.
func (s *RepositoryScanner) RouterDir() string { return s.routerDir }

// ScanResult holds the discovered entries plus per-file warnings for
// candidates that were skipped.
type ScanResult struct {
	Entries  domain.EntryList
	Warnings []string
}

// Scan lists both directories and classifies matching files. A missing or
// unreadable directory contributes zero entries rather than failing the scan,
// and a file that fails to parse is skipped with a warning so the remaining
// candidates still surface.
func (s *RepositoryScanner) Scan(ctx context.Context) (*ScanResult, error) {
	result := &ScanResult{}

	dirs := []struct {
		path string
		kind domain.ConfigKind
	}{
		{s.claudeDir, domain.KindClaude},
		{s.routerDir, domain.KindRouter},
	}

	var entries []domain.ConfigEntry
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries = append(entries, s.scanDir(dir.path, dir.kind, result)...)
	}

	result.Entries = domain.NewEntryList(entries)
	return result, nil
}

func (s *RepositoryScanner) scanDir(dir string, kind domain.ConfigKind, result *ScanResult) []domain.ConfigEntry {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipping %s: %v", dir, err))
		}
		return nil
	}

	var entries []domain.ConfigEntry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, kind.FileSuffix()) {
			continue
		}

		path := filepath.Join(dir, name)
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}

		fields, err := loadJSONObject(path)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipping %s: %v", path, err))
			continue
		}

		entry, err := domain.NewConfigEntry(path, kind, fields)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipping %s: %v", path, err))
			continue
		}

		entries = append(entries, entry)
	}

	return entries
}

func loadJSONObject(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return fields, nil
}
