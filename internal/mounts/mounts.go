// Package mounts translates paths between Windows drive syntax and the
// mount points a WSL distribution exposes for those drives.
package mounts

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

var (
	// ErrUnmappedDrive indicates a drive-shaped path whose drive has no mount.
	ErrUnmappedDrive = errors.New("drive is not mounted in WSL")
	// ErrDuplicateDrive indicates two table entries share a drive designator.
	ErrDuplicateDrive = errors.New("duplicate drive in mount table")
	// ErrInvalidEntry indicates a table entry with a malformed drive or mount point.
	ErrInvalidEntry = errors.New("invalid mount table entry")
)

// Entry pairs a Windows drive designator ("C:") with its WSL mount point.
type Entry struct {
	Native  string
	Foreign string
}

// Table is an immutable drive-to-mount mapping.
//
// Entries are ordered longest Foreign first, then by Native. ToNative applies
// them in that order so that a mount point which is a prefix of another never
// rewrites part of the longer one.
type Table struct {
	entries  []Entry
	byDrive  map[string]string
	replacer *strings.Replacer
}

// NewTable validates and normalizes entries.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		byDrive: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		native, ok := driveOf(e.Native)
		if !ok || len(e.Native) != 2 {
			return nil, fmt.Errorf("%w: drive %q", ErrInvalidEntry, e.Native)
		}
		if !strings.HasPrefix(e.Foreign, "/") {
			return nil, fmt.Errorf("%w: mount point %q for %s is not absolute", ErrInvalidEntry, e.Foreign, native)
		}
		if _, dup := t.byDrive[native]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDrive, native)
		}
		foreign := path.Clean(e.Foreign)
		t.byDrive[native] = foreign
		t.entries = append(t.entries, Entry{Native: native, Foreign: foreign})
	}

	sort.SliceStable(t.entries, func(i, j int) bool {
		a, b := t.entries[i], t.entries[j]
		if len(a.Foreign) != len(b.Foreign) {
			return len(a.Foreign) > len(b.Foreign)
		}
		return a.Native < b.Native
	})

	pairs := make([]string, 0, 2*len(t.entries))
	for _, e := range t.entries {
		pairs = append(pairs, e.Foreign, e.Native)
	}
	t.replacer = strings.NewReplacer(pairs...)
	return t, nil
}

// Entries returns a copy of the table in substitution order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Len reports the number of mounted drives.
func (t *Table) Len() int {
	return len(t.entries)
}

// ToForeign rewrites a Windows path rooted at a drive ("C:\x" or "C:/x")
// into its WSL form. Anything else is returned unchanged.
func (t *Table) ToForeign(p string) (string, error) {
	if len(p) < 3 || (p[2] != '\\' && p[2] != '/') {
		return p, nil
	}
	drive, ok := driveOf(p[:2])
	if !ok {
		return p, nil
	}
	mount, ok := t.byDrive[drive]
	if !ok {
		return "", fmt.Errorf("%w: %s in %q", ErrUnmappedDrive, drive, p)
	}
	rest := strings.ReplaceAll(p[2:], `\`, "/")
	if mount == "/" {
		return rest, nil
	}
	return mount + rest, nil
}

// TranslateArgs applies ToForeign to every element, preserving order.
func (t *Table) TranslateArgs(args []string) ([]string, error) {
	out := make([]string, len(args))
	for i, arg := range args {
		translated, err := t.ToForeign(arg)
		if err != nil {
			return nil, err
		}
		out[i] = translated
	}
	return out, nil
}

// ToNative replaces every mount point occurring in text with its drive.
func (t *Table) ToNative(text string) string {
	if len(t.entries) == 0 {
		return text
	}
	return t.replacer.Replace(text)
}

func driveOf(s string) (string, bool) {
	if len(s) < 2 || s[1] != ':' {
		return "", false
	}
	c := s[0]
	switch {
	case c >= 'a' && c <= 'z':
		c -= 'a' - 'A'
	case c >= 'A' && c <= 'Z':
	default:
		return "", false
	}
	return string([]byte{c, ':'}), true
}
