package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_AttachesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetBase(zap.New(core))
	defer SetBase(nil)

	ctx := WithRequestID(context.Background(), "rid-42")
	FromContext(ctx).Error("projects.create", errors.New("boom"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "rid-42", fields["request_id"])
	assert.Equal(t, "projects.create", fields["operation"])
	assert.Equal(t, "boom", fields["error"])
}

func TestFromContext_UnknownRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetBase(zap.New(core))
	defer SetBase(nil)

	FromContext(context.Background()).Infof("jobs.sync", "synced %d clients", 3)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "synced 3 clients", entry.Message)
	assert.Equal(t, "unknown", entry.ContextMap()["request_id"])
}

func TestNew_FallsBackToInfoOnBadLevel(t *testing.T) {
	l, err := New("production", "chatty")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
