package mounts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedMounts indicates /proc/mounts content that could not be parsed.
var ErrMalformedMounts = errors.New("malformed /proc/mounts")

// ParseProcMounts extracts Windows drive mounts from /proc/mounts content.
//
// WSL 1 reports drvfs mounts with the drive as source ("C: /mnt/c drvfs ...").
// WSL 2 reports them as 9p mounts whose source is "C:\134" or "drvfs" with
// the drive carried in the "path=C:\" option. Only whole-drive mounts count:
// a mount of a directory on a drive, such as Docker Desktop's
// "C:\134Program\040Files\134Docker..." on /Docker/host, is skipped along
// with every other mount.
func ParseProcMounts(r io.Reader) ([]Entry, error) {
	var entries []Entry
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedMounts, lineNo, line)
		}

		var drive string
		var ok bool
		if source := unescapeMountField(fields[0]); isDriveShaped(source) {
			drive, ok = driveRoot(source)
		} else if len(fields) >= 4 {
			drive, ok = driveFromOptions(fields[3])
		}
		if !ok || seen[drive] {
			continue
		}
		seen[drive] = true
		entries = append(entries, Entry{
			Native:  drive,
			Foreign: unescapeMountField(fields[1]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mounts: %w", err)
	}
	return entries, nil
}

func driveFromOptions(opts string) (string, bool) {
	for _, opt := range strings.Split(opts, ",") {
		// 9p packs several settings into one option separated by ';'.
		for _, kv := range strings.Split(opt, ";") {
			if value, ok := strings.CutPrefix(kv, "path="); ok {
				return driveRoot(unescapeMountField(value))
			}
		}
	}
	return "", false
}

func isDriveShaped(s string) bool {
	_, ok := driveOf(s)
	return ok
}

// driveRoot accepts "C:", "C:\" and "C:/".
func driveRoot(s string) (string, bool) {
	switch {
	case len(s) == 2:
	case len(s) == 3 && (s[2] == '\\' || s[2] == '/'):
	default:
		return "", false
	}
	return driveOf(s)
}

// unescapeMountField decodes the octal escapes the kernel uses for
// whitespace and backslashes ("\040", "\134").
func unescapeMountField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
