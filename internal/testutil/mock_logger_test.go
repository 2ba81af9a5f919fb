package testutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	v, ok := messages[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Named("dwp").Named("resolver").With(logging.String("benefit_type", "ESA")).Warn("miss")
	logger.WithError(errors.New("boom")).Error("failed")

	entry, ok := logger.Find("warn", "miss")
	require.True(t, ok)
	assert.Equal(t, "dwp.resolver", entry.Logger)
	v, _ := entry.Field("benefit_type")
	assert.Equal(t, "ESA", v)

	failed, ok := logger.Find("error", "failed")
	require.True(t, ok)
	e, _ := failed.Field("error")
	assert.Equal(t, "boom", e)
	assert.NoError(t, logger.Sync())
}
