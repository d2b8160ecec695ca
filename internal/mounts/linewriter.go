package mounts

import (
	"bytes"
	"io"
	"strings"
)

// LineTranslator rewrites mount points back to drives in a byte stream.
//
// Each Write passes through everything except a trailing fragment that could
// still grow into a mount point ("/mn" while "/mnt/c" is mounted), so a mount
// point split across two writes is still recognized while prompts and
// progress lines without a newline are not held back. Close flushes any
// held fragment.
type LineTranslator struct {
	w     io.Writer
	table *Table
	buf   []byte
}

// NewLineTranslator wraps w.
func NewLineTranslator(w io.Writer, table *Table) *LineTranslator {
	return &LineTranslator{w: w, table: table}
}

// Write accepts p in full.
func (lt *LineTranslator) Write(p []byte) (int, error) {
	lt.buf = append(lt.buf, p...)
	cut := lt.holdFrom()
	if cut == 0 {
		return len(p), nil
	}
	if err := lt.emit(lt.buf[:cut]); err != nil {
		return 0, err
	}
	lt.buf = append(lt.buf[:0], lt.buf[cut:]...)
	return len(p), nil
}

// Close writes the held fragment.
func (lt *LineTranslator) Close() error {
	if len(lt.buf) == 0 {
		return nil
	}
	err := lt.emit(lt.buf)
	lt.buf = lt.buf[:0]
	return err
}

// holdFrom returns the offset of the first byte that must wait for more
// input: the start of the longest suffix that is a proper prefix of a mount
// point, moved back past any mount point occurrence the cut would split.
func (lt *LineTranslator) holdFrom() int {
	buf := lt.buf
	cut := len(buf)
	for i := range buf {
		if buf[i] == '/' && lt.couldBeMount(buf[i:]) {
			cut = i
			break
		}
	}
	for moved := true; moved; {
		moved = false
		for _, e := range lt.table.entries {
			for s := max(0, cut-len(e.Foreign)+1); s < cut; s++ {
				if bytes.HasPrefix(buf[s:], []byte(e.Foreign)) {
					cut = s
					moved = true
					break
				}
			}
		}
	}
	return cut
}

func (lt *LineTranslator) couldBeMount(tail []byte) bool {
	for _, e := range lt.table.entries {
		if len(tail) < len(e.Foreign) && strings.HasPrefix(e.Foreign, string(tail)) {
			return true
		}
	}
	return false
}

func (lt *LineTranslator) emit(chunk []byte) error {
	_, err := io.WriteString(lt.w, lt.table.ToNative(string(chunk)))
	return err
}
