// Package logging builds the run logger: human readable lines on stdout and
// the same lines appended to the experiment log file.
package logging

import "os"
import "path"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "go.uber.org/zap"
import "go.uber.org/zap/zapcore"

func encoderConfig() zapcore.EncoderConfig {
	config := zap.NewDevelopmentEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeCaller = nil
	config.CallerKey = ""
	return config
}

// New creates a logger writing to stdout and appending to the file at
// filename. The returned func flushes and closes the file.
func New(fs afero.Fs, filename string) (*zap.Logger, func(), error) {
	if dir := path.Dir(filename); dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return nil, nil, errors.Wrapf(err, "create log directory %s", dir)
		}
	}
	f, err := fs.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open log file %s", filename)
	}
	return newTee(zapcore.Lock(os.Stdout), zapcore.AddSync(f), zapcore.InfoLevel), func() {
		f.Sync()
		f.Close()
	}, nil
}

func newTee(console, file zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, console, level),
		zapcore.NewCore(encoder, file, level),
	)
	return zap.New(core)
}

// NewNop returns a logger discarding everything
func NewNop() *zap.Logger {
	return zap.NewNop()
}
