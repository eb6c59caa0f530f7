package aggregates

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
)

// TxRunner opens the transaction that a store write runs in.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// TxFunc adapts a plain function to TxRunner.
type TxFunc func(ctx context.Context, fn func(dbc dbctx.Context) error) error

func (f TxFunc) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error { return f(ctx, fn) }

var errNilDB = errors.New("aggregate.tx: nil db")

// NewGormTxRunner commits when fn returns nil and rolls back otherwise. fn sees the
// transaction through dbc.Tx, so repos called with dbc write inside it.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return TxFunc(func(ctx context.Context, fn func(dbc dbctx.Context) error) error {
		if db == nil {
			return errNilDB
		}
		if fn == nil {
			return nil
		}
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(dbctx.Context{Ctx: ctx, Tx: tx})
		})
	})
}
