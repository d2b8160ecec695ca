// Package debuglog provides the optional, append-only invocation log.
//
// The log is opt-in by existence: if the configured file is absent or cannot
// be opened for appending, logging is silently disabled. Every record is
// tagged with a per-invocation token so interleaved invocations can be told
// apart.
package debuglog

import (
	"math/rand/v2"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a token-correlated logger bound to one invocation.
type Log struct {
	*zap.Logger
	Token  uint32
	closer func() error
}

// Open appends to path if it exists. The returned Log is never nil.
func Open(path string) *Log {
	token := rand.Uint32()
	if path == "" {
		return nop(token)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nop(token)
	}
	return newLog(zapcore.Lock(f), token, f.Close)
}

func newLog(ws zapcore.WriteSyncer, token uint32, closer func() error) *Log {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), ws, zapcore.DebugLevel)
	logger := zap.New(core).With(zap.Uint32("token", token))
	return &Log{Logger: logger, Token: token, closer: closer}
}

func nop(token uint32) *Log {
	return &Log{Logger: zap.NewNop(), Token: token}
}

// Enabled reports whether records reach a file.
func (l *Log) Enabled() bool {
	return l.closer != nil
}

// Close flushes and releases the log file.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	_ = l.Logger.Sync()
	err := l.closer()
	l.closer = nil
	return err
}
