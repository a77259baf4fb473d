package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, AuditSinkDirect, cfg.AuditSink)
	assert.Equal(t, 1024, cfg.AuditBufferSize)
	assert.Equal(t, 5*time.Second, cfg.AuditWriteTimeout)
	assert.True(t, cfg.RetentionEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AUDIT_SINK", "queue")
	t.Setenv("AUDIT_BUFFER_SIZE", "64")
	t.Setenv("AUDIT_RETENTION_DAYS", "0")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, AuditSinkQueue, cfg.AuditSink)
	assert.Equal(t, 64, cfg.AuditBufferSize)
	assert.False(t, cfg.RetentionEnabled())
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfigRejectsUnknownSink(t *testing.T) {
	t.Setenv("AUDIT_SINK", "kafka")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "AUDIT_SINK")
}

func TestLoadConfigRejectsEmptyBuffer(t *testing.T) {
	t.Setenv("AUDIT_BUFFER_SIZE", "0")
	_, err := LoadConfig()
	assert.Error(t, err)
}
