package notifications_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauportal/notifier/pkg/notifications"
)

func TestUnitOfWork(t *testing.T) {
	t.Parallel()

	t.Run("hooks run after commit in registration order", func(t *testing.T) {
		t.Parallel()

		var order []int
		ctx, uow := notifications.Begin(context.Background())
		notifications.AfterCommit(ctx, func(context.Context) { order = append(order, 1) })
		notifications.AfterCommit(ctx, func(context.Context) { order = append(order, 2) })

		assert.Empty(t, order)
		uow.Commit(ctx)
		assert.Equal(t, []int{1, 2}, order)
	})

	t.Run("commit is idempotent", func(t *testing.T) {
		t.Parallel()

		calls := 0
		ctx, uow := notifications.Begin(context.Background())
		notifications.AfterCommit(ctx, func(context.Context) { calls++ })

		uow.Commit(ctx)
		uow.Commit(ctx)
		assert.Equal(t, 1, calls)
	})

	t.Run("rollback discards hooks", func(t *testing.T) {
		t.Parallel()

		calls := 0
		ctx, uow := notifications.Begin(context.Background())
		notifications.AfterCommit(ctx, func(context.Context) { calls++ })

		uow.Rollback()
		uow.Commit(ctx)
		assert.Zero(t, calls)
	})

	t.Run("hooks registered after completion are dropped", func(t *testing.T) {
		t.Parallel()

		calls := 0
		ctx, uow := notifications.Begin(context.Background())
		uow.Commit(ctx)

		notifications.AfterCommit(ctx, func(context.Context) { calls++ })
		uow.Commit(ctx)
		assert.Zero(t, calls)
	})

	t.Run("without active unit of work hooks run immediately", func(t *testing.T) {
		t.Parallel()

		calls := 0
		notifications.AfterCommit(context.Background(), func(context.Context) { calls++ })
		assert.Equal(t, 1, calls)
	})
}

func TestRunInUnitOfWork(t *testing.T) {
	t.Parallel()

	t.Run("success commits registered hooks", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := notifications.RunInUnitOfWork(context.Background(), func(ctx context.Context) error {
			notifications.AfterCommit(ctx, func(context.Context) { calls++ })
			assert.Zero(t, calls)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("error rolls back without running hooks", func(t *testing.T) {
		t.Parallel()

		calls := 0
		wantErr := errors.New("boom")
		err := notifications.RunInUnitOfWork(context.Background(), func(ctx context.Context) error {
			notifications.AfterCommit(ctx, func(context.Context) { calls++ })
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)
		assert.Zero(t, calls)
	})
}
