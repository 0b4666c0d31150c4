package notifications

import (
	"context"
	"sync"
)

// UnitOfWork collects side effects that must only run once the enclosing
// work has committed. It replaces transaction-synchronization callbacks: the
// dispatcher registers the email effect here, and the effect fires only
// after every row of the batch is durably written. If the unit of work is
// abandoned, registered effects never run.
type UnitOfWork struct {
	mu    sync.Mutex
	hooks []func(context.Context)
	done  bool
}

type uowContextKey struct{}

// Begin attaches a new unit of work to the context and returns both.
func Begin(ctx context.Context) (context.Context, *UnitOfWork) {
	uow := &UnitOfWork{}
	return context.WithValue(ctx, uowContextKey{}, uow), uow
}

// fromContext returns the active unit of work, if any.
func fromContext(ctx context.Context) (*UnitOfWork, bool) {
	uow, ok := ctx.Value(uowContextKey{}).(*UnitOfWork)
	return uow, ok
}

// AfterCommit schedules fn to run after the enclosing unit of work commits.
// When no unit of work is active, fn runs immediately - matching the
// behavior of dispatching outside any transaction.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	if uow, ok := fromContext(ctx); ok {
		uow.register(fn)
		return
	}
	fn(ctx)
}

func (u *UnitOfWork) register(fn func(context.Context)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return
	}
	u.hooks = append(u.hooks, fn)
}

// Commit drains the registered hooks in registration order. Hooks run at
// most once; a second Commit is a no-op.
func (u *UnitOfWork) Commit(ctx context.Context) {
	u.mu.Lock()
	if u.done {
		u.mu.Unlock()
		return
	}
	u.done = true
	hooks := u.hooks
	u.hooks = nil
	u.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

// Rollback discards all registered hooks without running them.
func (u *UnitOfWork) Rollback() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.done = true
	u.hooks = nil
}

// RunInUnitOfWork executes fn inside a fresh unit of work. Effects
// registered through AfterCommit run only when fn returns nil; on error
// they are discarded.
func RunInUnitOfWork(ctx context.Context, fn func(context.Context) error) error {
	ctx, uow := Begin(ctx)
	if err := fn(ctx); err != nil {
		uow.Rollback()
		return err
	}
	uow.Commit(ctx)
	return nil
}
