package testsupport

import (
	"context"
	"testing"

	"talentflow/internal/boardserver"
	"talentflow/internal/config"
	"talentflow/internal/pipeline"
)

// MustOpenStore opens a boardserver.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *boardserver.Store {
	t.Helper()

	store, err := boardserver.Open(cfg)
	if err != nil {
		t.Fatalf("boardserver.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// PutJob stores job and its applications for tests.
func PutJob(t testing.TB, store *boardserver.Store, job pipeline.Job, apps []pipeline.Application) {
	t.Helper()

	ctx := context.Background()
	if err := store.PutJob(ctx, job); err != nil {
		t.Fatalf("store.PutJob: %v", err)
	}
	if err := store.ReplaceApplications(ctx, job.ID, apps); err != nil {
		t.Fatalf("store.ReplaceApplications: %v", err)
	}
}
