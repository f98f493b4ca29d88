package logger

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// redactedValue replaces a sensitive field's value in log output.
const redactedValue = "***"

// sensitiveFields are the structured log keys this package never lets
// through to output as-is. They match the field names orchestrator and
// issuer code pass alongside operations that carry CL/revocation private
// key material or raw signing key hex: RevokeCredential's
// registryPrivateKey, IssueCredential's definitionPrivateKey, and
// AuthenticationOptions.PrivateKey.
var sensitiveFields = map[string]bool{
	"privateKey":           true,
	"privateKeyHex":        true,
	"definitionPrivateKey": true,
	"registryPrivateKey":   true,
}

// redact scrubs the values of any key=value pair in args whose key names a
// sensitive field, leaving the rest untouched.
func redact(args []interface{}) []interface{} {
	if len(args) == 0 {
		return args
	}
	out := make([]interface{}, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		if sensitiveFields[key] || strings.Contains(strings.ToLower(key), "secret") {
			out[i+1] = redactedValue
		}
	}
	return out
}

// Log for portability
type Log struct {
	logr.Logger
}

// New creates a default logger based on what kind of environment is used.
func New(name, logPath string, production bool) (*Log, error) {

	var zc zap.Config

	switch production {
	case true:
		zc = zap.NewProductionConfig()
	case false:
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zc.DisableCaller = true
	zc.DisableStacktrace = true

	if logPath != "" {
		if err := os.MkdirAll(logPath, fs.ModeDir); err != nil {
			return nil, err
		}

		zc.OutputPaths = []string{
			filepath.Join(logPath, fmt.Sprintf("%s.log", name)),
		}
	}

	z, err := zc.Build()
	if err != nil {
		return nil, err
	}

	log := zapr.NewLogger(z)

	return &Log{Logger: log.WithName(name)}, nil
}

// NewSimple creates a simple logger for barbaric purposes
func NewSimple(name string) *Log {
	return &Log{Logger: zapr.NewLogger(zap.L().Named(name))}
}

// New creates a sub-logger of the original one
func (l *Log) New(path string) *Log {
	return &Log{Logger: l.WithName(path)}
}

// Info log
func (l *Log) Info(msg string, args ...interface{}) {
	l.Logger.V(0).WithValues(redact(args)...).Info(msg)
}

// Debug log
func (l *Log) Debug(msg string, args ...interface{}) {
	l.Logger.V(1).WithValues(redact(args)...).Info(msg)
}

// Trace log
func (l *Log) Trace(msg string, args ...interface{}) {
	l.Logger.V(2).WithValues(redact(args)...).Info(msg)
}

// Error log
func (l *Log) Error(err error, msg string, args ...interface{}) {
	l.Logger.WithValues(redact(args)...).Error(err, msg)
}
