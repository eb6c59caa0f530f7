package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
)

type BaseDeps struct {
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	return d
}

// executeWrite runs fn in one transaction and reports the classified outcome to the hooks.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	mapped := MapError(op, deps.Runner.InTx(ctx, fn))

	code := CodeOf(mapped)
	switch code {
	case CodeConflict:
		deps.Hooks.IncConflict(op)
	case CodeRetryable:
		deps.Hooks.IncRetry(op)
	}
	deps.Hooks.ObserveOperation(op, string(code), time.Since(start))
	return mapped
}
