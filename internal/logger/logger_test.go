package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_ProductionWritesJSON(t *testing.T) {
	// 1. Подготовка
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	// 2. Действие
	Info("Server started", "port", "3000")

	// 3. Проверка
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Server started", entry["msg"])
	assert.Equal(t, "pinkcollar", entry["service"])
	assert.Equal(t, "3000", entry["port"])
	assert.Same(t, GetLogger(), log)
}

func TestInitWithWriter_TestEnvKeepsOnlyWarnings(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("test", &buf)

	Info("quiet")
	Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestWorkerLog_Levels(t *testing.T) {
	// 1. Подготовка
	var buf bytes.Buffer
	InitWithWriter("development", &buf)

	// 2. Действие
	WorkerLog("invitation_expirer", "expire_invitations", 0, nil)
	idle := buf.String()
	buf.Reset()
	WorkerLog("invitation_expirer", "expire_invitations", 0, errors.New("db gone"))

	// 3. Проверка
	assert.Contains(t, idle, "level=DEBUG")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "db gone")
}

func TestFromContext_AddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "admin-1")

	CtxWithError(ctx, "Candidate hook failed", errors.New("timeout"), "hook", "geocode")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "admin-1", entry["user_id"])
	assert.Equal(t, "timeout", entry["error"])
	assert.Equal(t, "geocode", entry["hook"])
}
