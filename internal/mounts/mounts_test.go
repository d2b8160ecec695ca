package mounts

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable([]Entry{
		{Native: "C:", Foreign: "/mnt/c"},
		{Native: "d:", Foreign: "/mnt/d/"},
	})
	require.NoError(t, err)
	return table
}

func TestNewTableValidates(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
		want    error
	}{
		{name: "duplicate drive", entries: []Entry{{"C:", "/mnt/c"}, {"c:", "/c"}}, want: ErrDuplicateDrive},
		{name: "bad drive", entries: []Entry{{"CC", "/mnt/c"}}, want: ErrInvalidEntry},
		{name: "long drive", entries: []Entry{{"C:\\", "/mnt/c"}}, want: ErrInvalidEntry},
		{name: "relative mount", entries: []Entry{{"C:", "mnt/c"}}, want: ErrInvalidEntry},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable(tc.entries)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewTableNormalizesAndOrders(t *testing.T) {
	table, err := NewTable([]Entry{
		{Native: "c:", Foreign: "/mnt/c/"},
		{Native: "E:", Foreign: "/mnt/c/data"},
		{Native: "D:", Foreign: "/mnt/d"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Native: "E:", Foreign: "/mnt/c/data"},
		{Native: "C:", Foreign: "/mnt/c"},
		{Native: "D:", Foreign: "/mnt/d"},
	}, table.Entries())
	assert.Equal(t, 3, table.Len())
}

func TestToForeign(t *testing.T) {
	table := testTable(t)
	cases := []struct {
		in   string
		want string
	}{
		{in: `C:\work\repo`, want: "/mnt/c/work/repo"},
		{in: `c:\work\repo`, want: "/mnt/c/work/repo"},
		{in: `C:/work/repo`, want: "/mnt/c/work/repo"},
		{in: `D:\`, want: "/mnt/d/"},
		{in: `C:\dir with space\file.txt`, want: "/mnt/c/dir with space/file.txt"},
	}
	for _, tc := range cases {
		got, err := table.ToForeign(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestToForeignLeavesNonPathsUnchanged(t *testing.T) {
	table := testTable(t)
	for _, in := range []string{
		"",
		"status",
		"--porcelain",
		"HEAD:README.md",
		"C:",
		"C:relative",
		"a:b",
		"/mnt/c/already",
		`\\server\share`,
		"-C50%",
		"1:\\x",
	} {
		got, err := table.ToForeign(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, got)
	}
}

func TestToForeignUnmappedDrive(t *testing.T) {
	table := testTable(t)
	_, err := table.ToForeign(`Z:\nowhere`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnmappedDrive))
	assert.Contains(t, err.Error(), "Z:")
}

func TestToForeignRootMount(t *testing.T) {
	table, err := NewTable([]Entry{{Native: "C:", Foreign: "/"}})
	require.NoError(t, err)
	got, err := table.ToForeign(`C:\Users`)
	require.NoError(t, err)
	assert.Equal(t, "/Users", got)
}

func TestTranslateArgs(t *testing.T) {
	table := testTable(t)
	in := []string{"-C", `C:\work\repo`, "add", "--", `D:\notes.txt`, "plain"}
	got, err := table.TranslateArgs(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"-C", "/mnt/c/work/repo", "add", "--", "/mnt/d/notes.txt", "plain"}, got)
	assert.Equal(t, `C:\work\repo`, in[1], "input must not be modified")

	_, err = table.TranslateArgs([]string{"add", `Q:\x`})
	assert.ErrorIs(t, err, ErrUnmappedDrive)
}

func TestToNative(t *testing.T) {
	table := testTable(t)
	text := "fatal: not a git repository: /mnt/c/work/repo\n/mnt/d/notes.txt\x00/mnt/d/x"
	want := "fatal: not a git repository: C:/work/repo\nD:/notes.txt\x00D:/x"
	assert.Equal(t, want, table.ToNative(text))
	assert.Equal(t, "no paths here", table.ToNative("no paths here"))
}

func TestTranslationInverse(t *testing.T) {
	table := testTable(t)
	for _, p := range []string{"C:/work/repo", "D:/", "C:/a b/c.txt"} {
		foreign, err := table.ToForeign(p)
		require.NoError(t, err)
		assert.Equal(t, p, table.ToNative(foreign))
	}
}

func TestToNativeLongestPrefixFirst(t *testing.T) {
	// Order the short entry first to prove input order does not matter.
	table, err := NewTable([]Entry{
		{Native: "C:", Foreign: "/mnt/c"},
		{Native: "E:", Foreign: "/mnt/c/data"},
	})
	require.NoError(t, err)

	assert.Equal(t, "E:/report.csv and C:/other", table.ToNative("/mnt/c/data/report.csv and /mnt/c/other"))
	assert.Equal(t, "C:/dat", table.ToNative("/mnt/c/dat"))
}

func TestEmptyTable(t *testing.T) {
	table, err := NewTable(nil)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/c/x", table.ToNative("/mnt/c/x"))
	_, err = table.ToForeign(`C:\x`)
	assert.ErrorIs(t, err, ErrUnmappedDrive)
}

func TestLineTranslatorJoinsSplitMountPoints(t *testing.T) {
	table := testTable(t)
	var out bytes.Buffer
	lt := NewLineTranslator(&out, table)

	cases := []struct {
		chunk string
		want  string
	}{
		{chunk: "M\t/mn", want: "M\t"},
		{chunk: "t/c/a.go\n", want: "M\tC:/a.go\n"},
		{chunk: "A\t/mnt/d/b", want: "M\tC:/a.go\nA\tD:/b"},
		{chunk: ".go\x00tail /mnt/", want: "M\tC:/a.go\nA\tD:/b.go\x00tail "},
		{chunk: "c/end", want: "M\tC:/a.go\nA\tD:/b.go\x00tail C:/end"},
	}
	for _, tc := range cases {
		n, err := lt.Write([]byte(tc.chunk))
		require.NoError(t, err)
		assert.Equal(t, len(tc.chunk), n)
		assert.Equal(t, tc.want, out.String(), "after %q", tc.chunk)
	}
	require.NoError(t, lt.Close())
	assert.Equal(t, "M\tC:/a.go\nA\tD:/b.go\x00tail C:/end", out.String())
}

func TestLineTranslatorPassesUnterminatedOutput(t *testing.T) {
	table := testTable(t)
	for _, chunk := range []string{
		"Username for 'https://example.com': ",
		"Receiving objects:  42% (42/100)\r",
		"cwd /mnt/c/repo",
	} {
		var out bytes.Buffer
		lt := NewLineTranslator(&out, table)
		_, err := lt.Write([]byte(chunk))
		require.NoError(t, err)
		assert.Equal(t, table.ToNative(chunk), out.String(), "%q must not wait for a newline", chunk)
	}
}

func TestLineTranslatorHoldsSplitOverlappingMounts(t *testing.T) {
	table, err := NewTable([]Entry{
		{Native: "C:", Foreign: "/ab/c"},
		{Native: "D:", Foreign: "/c/de"},
	})
	require.NoError(t, err)
	var out bytes.Buffer
	lt := NewLineTranslator(&out, table)

	_, err = lt.Write([]byte("/ab/c/d"))
	require.NoError(t, err)
	assert.Empty(t, out.String())
	_, err = lt.Write([]byte("e\n"))
	require.NoError(t, err)
	require.NoError(t, lt.Close())
	assert.Equal(t, table.ToNative("/ab/c/de\n"), out.String())
}

func TestParseProcMounts(t *testing.T) {
	const wsl1 = `rootfs / lxfs rw,noatime 0 0
none /dev tmpfs rw,noatime,mode=755 0 0
C: /mnt/c drvfs rw,noatime,uid=1000,gid=1000 0 0
D: /mnt/d drvfs rw,noatime,uid=1000,gid=1000 0 0
`
	const wsl2 = `/dev/sdc / ext4 rw,relatime,discard,errors=remount-ro,data=ordered 0 0
C:\134 /mnt/c 9p rw,dirsync,noatime,aname=drvfs;path=C:\;uid=1000;gid=1000;symlinkroot=/mnt/,mmap,access=client,msize=65536,trans=fd,rfd=5,wfd=5 0 0
drvfs /mnt/my\040drive 9p rw,noatime,aname=drvfs;path=E:\;uid=1000 0 0
tmpfs /run tmpfs rw,nosuid,nodev,mode=755 0 0
`
	const dockerFirst = `C:\134Program\040Files\134Docker\134Docker\134resources /Docker/host 9p rw,noatime,aname=drvfs;path=C:\Program\040Files\Docker\Docker\resources;uid=0;gid=0 0 0
C:\134 /mnt/c 9p rw,noatime,aname=drvfs;path=C:\;uid=1000;gid=1000 0 0
`
	const subdirOnly = `D:\134data /data drvfs rw,noatime 0 0
drvfs /srv 9p rw,noatime,aname=drvfs;path=E:\srv;uid=1000 0 0
`
	cases := []struct {
		name string
		in   string
		want []Entry
	}{
		{name: "directory mount before drive", in: dockerFirst, want: []Entry{{"C:", "/mnt/c"}}},
		{name: "directory mounts only", in: subdirOnly, want: nil},
		{name: "wsl1", in: wsl1, want: []Entry{{"C:", "/mnt/c"}, {"D:", "/mnt/d"}}},
		{name: "wsl2", in: wsl2, want: []Entry{{"C:", "/mnt/c"}, {"E:", "/mnt/my drive"}}},
		{name: "no drives", in: "tmpfs /run tmpfs rw 0 0\n", want: nil},
		{name: "duplicate drive keeps first", in: "C: /mnt/c drvfs rw 0 0\nC: /c drvfs rw 0 0\n", want: []Entry{{"C:", "/mnt/c"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseProcMounts(strings.NewReader(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseProcMountsMalformed(t *testing.T) {
	_, err := ParseProcMounts(strings.NewReader("C: /mnt/c\n"))
	assert.ErrorIs(t, err, ErrMalformedMounts)
}

func TestParsedTableIgnoresDirectoryMounts(t *testing.T) {
	in := `C:\134Program\040Files\134Docker\134Docker\134resources /Docker/host 9p rw,aname=drvfs;path=C:\Program\040Files\Docker\Docker\resources 0 0
C:\134 /mnt/c 9p rw,aname=drvfs;path=C:\;uid=1000 0 0
`
	entries, err := ParseProcMounts(strings.NewReader(in))
	require.NoError(t, err)
	table, err := NewTable(entries)
	require.NoError(t, err)

	got, err := table.ToForeign(`C:\work\repo`)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/c/work/repo", got)
}
