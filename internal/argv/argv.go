// Package argv converts between argument vectors and single Windows command
// lines using the quoting rules of the Microsoft C runtime argument parser.
//
// See https://learn.microsoft.com/en-us/cpp/cpp/main-function-command-line-args
// for the parsing rules Quote is written against.
package argv

import (
	"strings"
	"unicode"
)

// Quote joins args into one command line. Split(Quote(args)) returns args.
func Quote(args []string) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		quoteArg(&b, arg)
	}
	return b.String()
}

func quoteArg(b *strings.Builder, arg string) {
	quoted := needsQuote(arg)
	if quoted {
		b.WriteByte('"')
	}

	backslashes := 0
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		switch c {
		case '\\':
			backslashes++
		case '"':
			writeBackslashes(b, backslashes*2)
			b.WriteString(`\"`)
			backslashes = 0
		default:
			writeBackslashes(b, backslashes)
			backslashes = 0
			b.WriteByte(c)
		}
	}

	if quoted {
		// A run right before the closing quote would otherwise escape it.
		writeBackslashes(b, backslashes*2)
		b.WriteByte('"')
		return
	}
	writeBackslashes(b, backslashes)
}

func needsQuote(arg string) bool {
	if strings.ContainsAny(arg, " \t") {
		return true
	}
	return strings.TrimFunc(arg, unicode.IsSpace) == ""
}

func writeBackslashes(b *strings.Builder, n int) {
	for ; n > 0; n-- {
		b.WriteByte('\\')
	}
}

// Split parses a command line the way the C runtime builds argv.
func Split(cmdline string) []string {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		inQuote bool
	)

	for i := 0; i < len(cmdline); i++ {
		c := cmdline[i]
		switch {
		case (c == ' ' || c == '\t') && !inQuote:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		case c == '\\':
			inArg = true
			n := 0
			for i < len(cmdline) && cmdline[i] == '\\' {
				n++
				i++
			}
			if i < len(cmdline) && cmdline[i] == '"' {
				writeBackslashes(&cur, n/2)
				if n%2 == 1 {
					cur.WriteByte('"')
				} else {
					inQuote = !inQuote
				}
			} else {
				writeBackslashes(&cur, n)
				i--
			}
		case c == '"':
			inArg = true
			if inQuote && i+1 < len(cmdline) && cmdline[i+1] == '"' {
				cur.WriteByte('"')
				i++
				continue
			}
			inQuote = !inQuote
		default:
			inArg = true
			cur.WriteByte(c)
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}
