package boardserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"talentflow/internal/api"
	"talentflow/internal/boardserver"
	"talentflow/internal/fallback"
	"talentflow/internal/remote"
	"talentflow/internal/services"
	"talentflow/internal/stage"
	"talentflow/internal/testsupport"
)

func newSeededServer(t *testing.T, opts ...boardserver.Option) *httptest.Server {
	t.Helper()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	cache, err := fallback.New()
	if err != nil {
		t.Fatalf("fallback.New: %v", err)
	}
	if _, err := store.SeedFixtures(context.Background(), cache); err != nil {
		t.Fatalf("SeedFixtures: %v", err)
	}
	srv := httptest.NewServer(boardserver.NewServer(store, stage.Default(), opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServerContractThroughRemoteClient(t *testing.T) {
	srv := newSeededServer(t)
	client, err := remote.New(srv.URL)
	if err != nil {
		t.Fatalf("remote.New: %v", err)
	}
	ctx := context.Background()

	if err := client.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}
	job, err := client.Job(ctx, "job-42")
	if err != nil || job.ID != "job-42" {
		t.Fatalf("Job = %+v, %v", job, err)
	}
	apps, err := client.Applications(ctx, "job-42")
	if err != nil {
		t.Fatalf("Applications: %v", err)
	}
	if len(apps) != 8 {
		t.Fatalf("expected 8 applications, got %d", len(apps))
	}

	updated, err := client.UpdateStatus(ctx, apps[0].ID, stage.Offered)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != stage.Offered || updated.Version != apps[0].Version+1 {
		t.Fatalf("updated = %q v%d", updated.Status, updated.Version)
	}

	outcomes, err := client.BulkUpdateStatus(ctx, []string{apps[1].ID, "missing"}, stage.Reviewed)
	if err != nil {
		t.Fatalf("BulkUpdateStatus: %v", err)
	}
	if len(outcomes) != 2 || !outcomes[0].OK || outcomes[1].OK || outcomes[1].Error == "" {
		t.Fatalf("outcomes = %+v", outcomes)
	}

	if _, err := client.Applications(ctx, "job-unknown"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unknown job err = %v, want not found", err)
	}
}

func TestServerStatusErrors(t *testing.T) {
	srv := newSeededServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown stage", http.MethodPatch, "/applications/job-42-app-1/status", `{"status":"on_hold"}`, http.StatusBadRequest},
		{"unknown application", http.MethodPatch, "/applications/nope/status", `{"status":"reviewed"}`, http.StatusNotFound},
		{"malformed body", http.MethodPatch, "/applications/job-42-app-1/status", `{"status":`, http.StatusBadRequest},
		{"bulk unknown stage", http.MethodPost, "/applications/bulk-status", `{"ids":["job-42-app-1"],"status":"nope"}`, http.StatusBadRequest},
		{"bulk empty ids", http.MethodPost, "/applications/bulk-status", `{"ids":[],"status":"reviewed"}`, http.StatusBadRequest},
		{"unknown job", http.MethodGet, "/jobs/job-unknown", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, tc.method, srv.URL+tc.path, tc.body, nil)
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
			var payload api.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if payload.Error == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestServerBearerAuth(t *testing.T) {
	srv := newSeededServer(t, boardserver.WithAPIToken("s3cret"))

	if resp := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("health without token = %d", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodGet, srv.URL+"/jobs/job-42", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("job without token = %d", resp.StatusCode)
	}
	wrong := http.Header{"Authorization": {"Bearer nope"}}
	if resp := doJSON(t, http.MethodGet, srv.URL+"/jobs/job-42", "", wrong); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("job with wrong token = %d", resp.StatusCode)
	}

	client, err := remote.New(srv.URL, remote.WithToken("s3cret"))
	if err != nil {
		t.Fatalf("remote.New: %v", err)
	}
	if _, err := client.Job(context.Background(), "job-42"); err != nil {
		t.Fatalf("Job with token: %v", err)
	}
}

func TestServerRequestIDAndCORS(t *testing.T) {
	srv := newSeededServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/health", "", http.Header{boardserver.RequestIDHeader: {"req-123"}})
	if got := resp.Header.Get(boardserver.RequestIDHeader); got != "req-123" {
		t.Fatalf("request id echo = %q", got)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/health", "", nil)
	if resp.Header.Get(boardserver.RequestIDHeader) == "" {
		t.Fatalf("expected a generated request id")
	}

	preflight := http.Header{
		"Origin":                        {"http://localhost:5173"},
		"Access-Control-Request-Method": {http.MethodPatch},
	}
	resp = doJSON(t, http.MethodOptions, srv.URL+"/applications/job-42-app-1/status", "", preflight)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}
