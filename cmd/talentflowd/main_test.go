package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"talentflow/internal/boardserver"
	"talentflow/internal/remote"
	"talentflow/internal/testsupport"
)

func TestRunServesSeededBoardAndHoldsLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, serveOptions{seed: true}, ready)
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not start")
	}

	client, err := remote.New(addr)
	if err != nil {
		t.Fatalf("remote.New: %v", err)
	}
	apps, err := client.Applications(context.Background(), "job-42")
	if err != nil {
		t.Fatalf("Applications: %v", err)
	}
	if len(apps) != 8 {
		t.Fatalf("expected 8 seeded applications, got %d", len(apps))
	}

	if err := run(context.Background(), cfg, serveOptions{}, nil); !errors.Is(err, boardserver.ErrAlreadyRunning) {
		t.Fatalf("second run err = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("server did not stop")
	}
}
