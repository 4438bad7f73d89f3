package boardserver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func TestEveryConnectionEnforcesForeignKeys(t *testing.T) {
	store, err := OpenPath(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		conn, err := store.db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn: %v", err)
		}
		defer conn.Close()
		var enabled int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("read pragma: %v", err)
		}
		if enabled != 1 {
			t.Fatalf("connection %d: foreign_keys = %d", i, enabled)
		}
	}
}

type codedError int

func (e codedError) Error() string { return fmt.Sprintf("sqlite error %d", int(e)) }
func (e codedError) Code() int     { return int(e) }

func TestBusyRetry(t *testing.T) {
	retry := busyRetry{attempts: 3, base: time.Millisecond, ceiling: 2 * time.Millisecond}

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{name: "success", errs: []error{nil}, wantCalls: 1},
		{name: "busy then success", errs: []error{codedError(5), nil}, wantCalls: 2},
		{name: "extended locked code", errs: []error{codedError(262), nil}, wantCalls: 2},
		{name: "message only", errs: []error{errors.New("database is locked"), nil}, wantCalls: 2},
		{name: "gives up", errs: []error{codedError(5), codedError(5), codedError(5), nil}, wantCalls: 3, wantErr: codedError(5)},
		{name: "other errors are not retried", errs: []error{codedError(19)}, wantCalls: 1, wantErr: codedError(19)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := retry.run(context.Background(), func() error {
				err := tc.errs[calls]
				calls++
				return err
			})
			if calls != tc.wantCalls {
				t.Fatalf("calls = %d, want %d", calls, tc.wantCalls)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestBusyRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	retry := busyRetry{attempts: 5, base: time.Second, ceiling: time.Second}
	err := retry.run(ctx, func() error { return codedError(5) })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
