package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/pkg/metrics"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDiffCommand(t *testing.T) {
	out, err := run(t, "diff", "a,b,c", "c,a,b")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(out, "1 ops (insert=1)") {
		t.Errorf("expected a single insert:\n%s", out)
	}
	if !strings.Contains(out, "<ul><li>c</li><li>a</li><li>b</li></ul>") {
		t.Errorf("final order missing:\n%s", out)
	}
}

func TestDiffCommandMetrics(t *testing.T) {
	out, err := run(t, "diff", "--config", t.TempDir(), "a,b,c", "c,a,b")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if strings.Contains(out, "metrics") {
		t.Errorf("metrics printed without being enabled:\n%s", out)
	}

	out, err = run(t, "diff", "--config", t.TempDir(), "--metrics", "a,b,c", "c,a,b")
	if err != nil {
		t.Fatalf("diff --metrics: %v", err)
	}
	for _, want := range []string{"metrics (both renders):", `reactor_host_ops_total{op="insert"} `} {
		if !strings.Contains(out, want) {
			t.Errorf("diff --metrics output missing %q:\n%s", want, out)
		}
	}

	dir := t.TempDir()
	yaml := "metrics:\n  enabled: true\n  namespace: todo\n"
	if err := os.WriteFile(filepath.Join(dir, config.YAMLFileName), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "diff", "--config", dir, "a,b", "b,a")
	if err != nil {
		t.Fatalf("diff with metrics config: %v", err)
	}
	if !strings.Contains(out, `todo_host_ops_total{op="insert"} `) {
		t.Errorf("configured namespace not used:\n%s", out)
	}
}

func TestDiffCommandRejectsEmptyKeys(t *testing.T) {
	if _, err := run(t, "diff", "a,b", " , "); err == nil {
		t.Error("expected an error for an empty key list")
	}
}

func TestRenderCommand(t *testing.T) {
	out, err := run(t, "render", "--config", t.TempDir(), "--state", "--title", "Chores")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<section class="todos"><h1>Chores</h1>`,
		`<li class="item done">parse markup</li><li class="item">diff children</li>`,
		"<!--[-->1<!----> done<!--]-->",
		"<!--teleport start--><!--teleport end-->",
		"teleport #status: <!--teleport content start--><p>3 items</p><!--teleport content end-->",
		`"done": 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "init", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.YAMLFileName)); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := run(t, "init", dir); err == nil {
		t.Error("expected init to refuse an existing config")
	}
	if _, err := run(t, "init", "--force", "--json", dir); err != nil {
		t.Fatalf("init --force: %v", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hydration.Fallback != config.FallbackAbort {
		t.Errorf("fallback = %q", cfg.Hydration.Fallback)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q", out)
	}
}

func TestServeRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.New(metrics.WithRegistry(reg))
	var logs bytes.Buffer
	_, logger, err := loadConfig(t.TempDir(), &logs)
	if err != nil {
		t.Fatal(err)
	}
	mux := newRouter(config.New(), logger, collector, reg)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/?title=Chores", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Chores</title>") {
		t.Errorf("title missing:\n%s", body)
	}
	if !strings.Contains(body, `<div id="status"><!--teleport content start--><p>3 items</p><!--teleport content end--></div>`) {
		t.Errorf("teleport container missing:\n%s", body)
	}
	if !strings.Contains(body, `<script type="application/json" id="__reactor_state">`) {
		t.Errorf("state script missing:\n%s", body)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "reactor_ssr_duration_seconds_count 1") {
		t.Errorf("ssr metric missing:\n%s", rec.Body.String())
	}
}
