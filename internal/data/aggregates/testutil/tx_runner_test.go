package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
)

func TestInjectedTxRunner(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name                string
		runner              *InjectedTxRunner
		body                error
		wantErr             error
		wantCalled          bool
		begins, commits, rb int
	}{
		{name: "commit", runner: &InjectedTxRunner{}, wantCalled: true, begins: 1, commits: 1},
		{name: "body error", runner: &InjectedTxRunner{}, body: boom, wantErr: boom, wantCalled: true, begins: 1, rb: 1},
		{name: "commit error", runner: &InjectedTxRunner{FailCommit: boom}, wantErr: boom, wantCalled: true, begins: 1, rb: 1},
		{name: "begin error", runner: &InjectedTxRunner{FailBegin: boom}, wantErr: boom, begins: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			err := tc.runner.InTx(context.Background(), func(dbctx.Context) error {
				called = true
				return tc.body
			})
			if !errors.Is(err, tc.wantErr) || (tc.wantErr == nil && err != nil) {
				t.Fatalf("unexpected err %v", err)
			}
			if called != tc.wantCalled {
				t.Fatalf("called=%v want %v", called, tc.wantCalled)
			}
			b, c, r := tc.runner.Counters()
			if b != tc.begins || c != tc.commits || r != tc.rb {
				t.Fatalf("counters begin=%d commit=%d rollback=%d", b, c, r)
			}
		})
	}
}
