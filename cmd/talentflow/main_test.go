package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"talentflow/internal/api"
	"talentflow/internal/boardserver"
	"talentflow/internal/config"
	"talentflow/internal/fallback"
	"talentflow/internal/stage"
	"talentflow/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	store      *boardserver.Store
}

// setupCLITestEnv writes a config file for cfg options. When withServer is
// set a seeded board server backs the remote.
func setupCLITestEnv(t *testing.T, withServer bool, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TALENTFLOW_REMOTE_URL", "")
	t.Setenv("TALENTFLOW_API_TOKEN", "")

	env := &cliTestEnv{}
	if withServer {
		serverCfg := testsupport.NewConfig(t)
		env.store = testsupport.MustOpenStore(t, serverCfg)
		cache, err := fallback.New()
		if err != nil {
			t.Fatalf("fallback.New: %v", err)
		}
		if _, err := env.store.SeedFixtures(context.Background(), cache); err != nil {
			t.Fatalf("SeedFixtures: %v", err)
		}
		srv := httptest.NewServer(boardserver.NewServer(env.store, stage.Default()).Handler())
		t.Cleanup(srv.Close)
		opts = append(opts, testsupport.WithRemote(srv.URL))
	}

	env.cfg = testsupport.NewConfig(t, opts...)
	env.configPath = filepath.Join(testsupport.BaseDir(env.cfg), "config.toml")
	writeTestConfig(t, env.configPath, env.cfg)
	return env
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestStagesCommand(t *testing.T) {
	env := setupCLITestEnv(t, false)
	out, _, err := runCLI(t, []string{"stages"}, env.configPath)
	if err != nil {
		t.Fatalf("stages: %v", err)
	}
	requireContains(t, out, "interview_scheduled")
	requireContains(t, out, "Interview Scheduled")
	requireContains(t, out, "rejected")
}

func TestBoardCommandFallsBackWithoutRemote(t *testing.T) {
	env := setupCLITestEnv(t, false)
	out, _, err := runCLI(t, []string{"board", "job-42"}, env.configPath)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	requireContains(t, out, "Senior Backend Engineer at Northwind Labs")
	requireContains(t, out, "local fallback")
	requireContains(t, out, "8 applications")
	requireContains(t, out, "Unknown")
}

func TestListCommandFiltersAndSorts(t *testing.T) {
	env := setupCLITestEnv(t, false)
	out, _, err := runCLI(t, []string{"list", "job-42", "--skill-min", "85", "--sort", "skill_match", "--desc", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var resp api.ApplicationListResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode list output: %v\n%s", err, out)
	}
	var ids []string
	for _, item := range resp.Items {
		ids = append(ids, item.ID)
	}
	want := []string{"job-42-app-4", "job-42-app-1", "job-42-app-7"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
}

func TestListCommandRejectsUnknownSort(t *testing.T) {
	env := setupCLITestEnv(t, false)
	if _, _, err := runCLI(t, []string{"list", "job-42", "--sort", "salary"}, env.configPath); err == nil {
		t.Fatalf("expected unknown sort key error")
	}
}

func TestMoveCommandPersistsToRemote(t *testing.T) {
	env := setupCLITestEnv(t, true)
	out, _, err := runCLI(t, []string{"move", "job-42", "job-42-app-1", "reviewed"}, env.configPath)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	requireContains(t, out, "Moved job-42-app-1: Applied -> Reviewed")

	app, err := env.store.GetApplication(context.Background(), "job-42-app-1")
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if app.Status != stage.Reviewed {
		t.Fatalf("server status = %q, want reviewed", app.Status)
	}

	out, _, err = runCLI(t, []string{"move", "job-42", "job-42-app-1", "reviewed"}, env.configPath)
	if err != nil {
		t.Fatalf("second move: %v", err)
	}
	requireContains(t, out, "already in Reviewed")
}

func TestMoveCommandRejectsUnknownStage(t *testing.T) {
	env := setupCLITestEnv(t, false)
	if _, _, err := runCLI(t, []string{"move", "job-42", "job-42-app-1", "on_hold"}, env.configPath); err == nil {
		t.Fatalf("expected unknown stage error")
	}
}

func TestBulkCommandRequiresConfirmationForRejected(t *testing.T) {
	env := setupCLITestEnv(t, true)
	args := []string{"bulk", "job-42", "rejected", "job-42-app-7", "job-42-app-8"}

	_, _, err := runCLI(t, args, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected confirmation error, got %v", err)
	}

	out, _, err := runCLI(t, append(args, "--yes"), env.configPath)
	if err != nil {
		t.Fatalf("bulk --yes: %v", err)
	}
	requireContains(t, out, "2 of 2 moved to Rejected")
	for _, id := range []string{"job-42-app-7", "job-42-app-8"} {
		app, err := env.store.GetApplication(context.Background(), id)
		if err != nil {
			t.Fatalf("GetApplication %s: %v", id, err)
		}
		if app.Status != stage.Rejected {
			t.Fatalf("%s status = %q", id, app.Status)
		}
	}
}

func TestBulkCommandReportsPartialFailure(t *testing.T) {
	env := setupCLITestEnv(t, true)
	out, _, err := runCLI(t, []string{"bulk", "job-42", "reviewed", "job-42-app-7", "ghost"}, env.configPath)
	if err == nil {
		t.Fatalf("expected partial failure error")
	}
	requireContains(t, out, "1 of 2 moved to Reviewed")
	requireContains(t, out, "not on this board")

	app, getErr := env.store.GetApplication(context.Background(), "job-42-app-7")
	if getErr != nil || app.Status != stage.Reviewed {
		t.Fatalf("job-42-app-7 = %q, %v", app.Status, getErr)
	}
}

func TestHealthCommand(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		env := setupCLITestEnv(t, false)
		out, _, err := runCLI(t, []string{"health"}, env.configPath)
		if err != nil {
			t.Fatalf("health: %v", err)
		}
		requireContains(t, out, "not configured")
		requireContains(t, out, "local_fallback")
	})
	t.Run("remote up", func(t *testing.T) {
		env := setupCLITestEnv(t, true)
		out, _, err := runCLI(t, []string{"health"}, env.configPath)
		if err != nil {
			t.Fatalf("health: %v", err)
		}
		requireContains(t, out, "[OK] remote")
	})
	t.Run("remote down", func(t *testing.T) {
		srv := httptest.NewServer(nil)
		url := srv.URL
		srv.Close()
		env := setupCLITestEnv(t, false, testsupport.WithRemote(url))
		out, _, err := runCLI(t, []string{"health"}, env.configPath)
		if err != nil {
			t.Fatalf("health: %v", err)
		}
		requireContains(t, out, "[WARN] local_fallback")
	})
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t, false, testsupport.WithAPIToken("hunter2"))

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "********")
	if strings.Contains(out, "hunter2") {
		t.Fatalf("config show leaked the token:\n%s", out)
	}
}
