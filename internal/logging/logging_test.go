package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusAdapterJSONOutput(t *testing.T) {
	underlying := logrus.New()
	underlying.SetFormatter(&logrus.JSONFormatter{})
	underlying.SetLevel(logrus.DebugLevel)
	var buf bytes.Buffer
	underlying.SetOutput(&buf)

	logger := NewLogrusAdapterFromLogger(underlying)
	logger.WithField(FieldProduct, "메쉬 체어").Info("classified")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "classified", entry["msg"])
	assert.Equal(t, "메쉬 체어", entry[FieldProduct])
	assert.Equal(t, "info", entry["level"])
}

func TestLogrusAdapterWithError(t *testing.T) {
	underlying := logrus.New()
	underlying.SetFormatter(&logrus.JSONFormatter{})
	var buf bytes.Buffer
	underlying.SetOutput(&buf)

	logger := NewLogrusAdapterFromLogger(underlying)
	logger.WithError(errors.New("boom")).Warn("something failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "warning", entry["level"])
}

func TestLogrusAdapterWithDoesNotMutateParent(t *testing.T) {
	underlying := logrus.New()
	underlying.SetFormatter(&logrus.JSONFormatter{})
	var buf bytes.Buffer
	underlying.SetOutput(&buf)

	logger := NewLogrusAdapterFromLogger(underlying)
	_ = logger.WithField("child", "x")
	logger.Info("parent message")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, present := entry["child"]
	assert.False(t, present, "derived fields must not leak into the parent")
}

func TestNewLogrusAdapterInvalidLevel(t *testing.T) {
	// Must not panic; falls back to info.
	logger := NewLogrusAdapter("loud", "text")
	require.NotNil(t, logger)
}

func TestMockLoggerRecords(t *testing.T) {
	mock := NewMockLogger()
	mock.Info("hello", Field{Key: FieldCount, Value: 3})
	mock.WithError(errors.New("bad")).Warn("uh oh")

	require.Len(t, mock.Entries, 2)
	assert.True(t, mock.HasEntry("INFO", "hello"))
	assert.True(t, mock.HasEntry("WARN", "uh oh"))
	assert.False(t, mock.HasEntry("ERROR", "hello"))
	assert.Equal(t, FieldCount, mock.Entries[0].Fields[0].Key)
	assert.EqualError(t, mock.Entries[1].Error, "bad")
}
