package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelInfo) })

	cases := []struct {
		in       string
		expected zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
	}
	for _, c := range cases {
		SetLevel(c.in)
		assert.Equalf(t, c.expected, zapLevel.Level(), "SetLevel(%q)", c.in)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelInfo) })

	var buf bytes.Buffer
	l := New(&buf)

	SetLevel(LevelInfo)
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")

	SetLevel(LevelDebug)
	l.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestPackageFuncsUseDefault(t *testing.T) {
	var buf bytes.Buffer
	old := Default
	Default = New(&buf)
	t.Cleanup(func() { Default = old })

	Warnf("%s already exists and will be overwritten", "agent.py")
	assert.Contains(t, buf.String(), "agent.py already exists and will be overwritten")
}
