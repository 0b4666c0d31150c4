package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sauportal/notifier/pkg/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)

	empty := logger.Error(nil)
	assert.Equal(t, slog.Attr{}, empty)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	attr := logger.Errors(errors.New("a"), nil, errors.New("b"))
	assert.Equal(t, "errors", attr.Key)
	assert.Len(t, attr.Value.Group(), 2)

	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
}

func TestIdentifierAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.UserID(""))
	assert.Equal(t, "u1", logger.UserID("u1").Value.String())
	assert.Equal(t, "notification_id", logger.NotificationID("n1").Key)
	assert.Equal(t, "group_id", logger.GroupID("g1").Key)
	assert.Equal(t, "recipient", logger.Recipient("a@b.c").Key)
	assert.Equal(t, int64(2), logger.Attempt(2).Value.Int64())
}
