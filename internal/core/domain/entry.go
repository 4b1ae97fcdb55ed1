package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfigKind identifies which tool family a configuration file belongs to.
type ConfigKind int

const (
	// KindClaude is a Claude Code settings file (~/.claude/*-settings.json).
	KindClaude ConfigKind = iota
	// KindRouter is a claude-code-router config file (~/.claude-code-router/*-config.json).
	KindRouter
)

// FileSuffix returns the filename suffix that marks a file as this kind.
func (k ConfigKind) FileSuffix() string {
	switch k {
	case KindRouter:
		return "-config.json"
	default:
		return "-settings.json"
	}
}

// Tag returns the display tag shown next to entries of this kind.
func (k ConfigKind) Tag() string {
	if k == KindRouter {
		return "[CCR]"
	}
	return ""
}

func (k ConfigKind) String() string {
	switch k {
	case KindRouter:
		return "router"
	default:
		return "claude"
	}
}

// routerNameSuffix disambiguates router entries from Claude entries that
// share the same filename stem.
const routerNameSuffix = "-ccr"

// ErrNoConfigurations is reported when neither config directory yields a
// selectable entry.
var ErrNoConfigurations = errors.New("no configuration files found")

// MissingFieldError reports a configuration file that lacks a field required
// for activation.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("configuration is missing required field %q", e.Field)
}

// ConfigEntry is one selectable configuration discovered on disk. Entries are
// created once per scan and never mutated.
type ConfigEntry struct {
	DisplayName string
	Kind        ConfigKind
	Path        string
	RawFields   map[string]interface{}
}

// NewConfigEntry builds an entry from an absolute file path. The display name
// is the filename stem with the kind suffix stripped; router entries get
// "-ccr" appended so they never collide with a Claude entry of the same stem.
// Files that do not match the kind's naming convention are rejected.
func NewConfigEntry(path string, kind ConfigKind, fields map[string]interface{}) (ConfigEntry, error) {
	name := filepath.Base(path)
	suffix := kind.FileSuffix()

	stem := strings.TrimSuffix(name, suffix)
	if stem == name || stem == "" {
		return ConfigEntry{}, fmt.Errorf("file %q does not match the %s naming convention (*%s)", name, kind, suffix)
	}

	display := stem
	if kind == KindRouter {
		display += routerNameSuffix
	}

	return ConfigEntry{
		DisplayName: display,
		Kind:        kind,
		Path:        path,
		RawFields:   fields,
	}, nil
}

// labelName is the name portion of the label, kind tag included.
func (e ConfigEntry) labelName() string {
	name := e.DisplayName
	if tag := e.Kind.Tag(); tag != "" {
		name += " " + tag
	}
	return name
}

// Label returns the text shown for the entry in the selector list, with the
// display name padded to nameWidth so paths line up in a column. Width is
// measured in terminal cells, not bytes, so non-ASCII stems stay aligned.
func (e ConfigEntry) Label(nameWidth int) string {
	name := e.labelName()
	if pad := nameWidth - lipgloss.Width(name); pad > 0 {
		name += strings.Repeat(" ", pad)
	}
	return name + "  " + e.Path
}

// LabelWidth returns the cell width of the name portion of the label, used
// to compute the padding column for a list of entries.
func (e ConfigEntry) LabelWidth() int {
	return lipgloss.Width(e.labelName())
}

// EntryList is the ordered, path-unique set of entries produced by one scan.
type EntryList []ConfigEntry

// NewEntryList deduplicates entries by path (first occurrence wins) and sorts
// them by display name, case-sensitively, so the displayed order is stable
// regardless of filesystem iteration order.
func NewEntryList(entries []ConfigEntry) EntryList {
	seen := make(map[string]bool, len(entries))
	list := make(EntryList, 0, len(entries))

	for _, e := range entries {
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		list = append(list, e)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].DisplayName < list[j].DisplayName
	})

	return list
}

// NameWidth returns the widest name portion across the list.
func (l EntryList) NameWidth() int {
	width := 0
	for _, e := range l {
		if w := e.LabelWidth(); w > width {
			width = w
		}
	}
	return width
}
