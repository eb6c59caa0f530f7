package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
)

// InjectedTxRunner runs the body without a database and can fail at begin or
// commit. Bodies run with a nil Tx, so repos fall back to their own handle.
type InjectedTxRunner struct {
	mu sync.Mutex

	FailBegin  error
	FailCommit error

	Begins    int
	Commits   int
	Rollbacks int
}

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.Begins++
	failBegin, failCommit := r.FailBegin, r.FailCommit
	r.mu.Unlock()
	if failBegin != nil {
		return failBegin
	}

	err := fn(dbctx.Context{Ctx: ctx})
	if err == nil && failCommit != nil {
		err = failCommit
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.Rollbacks++
		return err
	}
	r.Commits++
	return nil
}

func (r *InjectedTxRunner) Counters() (begins, commits, rollbacks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Begins, r.Commits, r.Rollbacks
}
