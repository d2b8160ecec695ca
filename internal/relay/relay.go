// Package relay runs a child process and copies the three standard streams
// between it and the current process.
//
// Output from the child is forwarded one write per read, unmodified. The
// proxy reports the child's exit code only after both output streams have
// reached end-of-stream, so nothing still buffered in a pipe is lost.
package relay

import (
	"errors"
	"io"
	"os"
	"runtime"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const bufSize = 32 * 1024

// Child is a started process whose standard streams are connected to pipes.
type Child interface {
	Stdin() io.WriteCloser
	Stdout() io.Reader
	Stderr() io.Reader
	// Wait blocks until the process exits and reports its exit code. It is
	// called only once both output streams are drained.
	Wait() (int, error)
}

// Proxy connects a Child to the parent's streams.
type Proxy struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// Run relays until the child has exited and stdout and stderr are drained,
// then returns the child's exit code.
//
// Stdin is copied on its own goroutine that Run does not wait for: a child
// may exit while the parent's input is still open.
func (p *Proxy) Run(child Child) (int, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	go relayInput(p.Stdin, child.Stdin(), log)

	var g errgroup.Group
	g.Go(func() error {
		relayOutput("stdout", child.Stdout(), p.Stdout, log)
		return nil
	})
	g.Go(func() error {
		relayOutput("stderr", child.Stderr(), p.Stderr, log)
		return nil
	})
	_ = g.Wait()

	code, err := child.Wait()
	if err != nil {
		return code, err
	}
	log.Debug("child exited", zap.Int("code", code))
	return code, nil
}

func relayInput(src io.Reader, dst io.WriteCloser, log *zap.Logger) {
	defer dst.Close()
	if src == nil {
		return
	}
	_, werr, rerr := forward(src, dst)
	logStreamError(log, "stdin", werr, rerr)
}

// relayOutput forwards src to dst until src is drained. If dst stops
// accepting data the rest of src is discarded so the child never blocks on a
// full pipe.
func relayOutput(name string, src io.Reader, dst io.Writer, log *zap.Logger) {
	if dst == nil {
		dst = io.Discard
	}
	n, werr, rerr := forward(src, dst)
	logStreamError(log, name, werr, rerr)
	if werr != nil {
		discarded, _ := io.Copy(io.Discard, src)
		log.Debug("discarded output", zap.String("stream", name), zap.Int64("bytes", discarded))
	}
	log.Debug("stream drained", zap.String("stream", name), zap.Int64("bytes", n))
}

// forward copies src to dst, one write per non-empty read. A read of zero
// bytes without an error is not end-of-stream; reading resumes. Any read
// error ends the copy.
func forward(src io.Reader, dst io.Writer) (written int64, werr, rerr error) {
	buf := make([]byte, bufSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			m, wErr := dst.Write(buf[:n])
			written += int64(m)
			if wErr == nil && m != n {
				wErr = io.ErrShortWrite
			}
			if wErr != nil {
				return written, wErr, nil
			}
		}
		switch {
		case errors.Is(err, io.EOF):
			return written, nil, nil
		case err != nil:
			return written, nil, err
		case n == 0:
			runtime.Gosched()
		}
	}
}

func logStreamError(log *zap.Logger, stream string, werr, rerr error) {
	for _, err := range []error{werr, rerr} {
		if err == nil {
			continue
		}
		if isExpectedClose(err) {
			log.Debug("stream closed", zap.String("stream", stream), zap.Error(err))
			continue
		}
		log.Warn("relay error", zap.String("stream", stream), zap.Error(err))
	}
}

// isExpectedClose reports errors that mean the other side went away rather
// than that something broke.
func isExpectedClose(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE
	}
	return false
}
