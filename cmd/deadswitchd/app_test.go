package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/deadswitch/internal/config"
	"github.com/danmuck/deadswitch/internal/custody"
	"github.com/danmuck/deadswitch/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
)

func TestBuildFromExampleConfig(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	cfg := config.Example()

	a, err := build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	st := a.wallet.State()
	if st.HeirCount != 2 || st.Status != custody.StatusAlive {
		t.Fatalf("unexpected wallet state: %+v", st)
	}
	bal := a.vault.BalanceOf(custody.NativeAsset, cfg.AccountAddress())
	if bal.String() != "90000000000000000000" {
		t.Fatalf("vault not seeded: %s", bal)
	}
	if a.events.Count() != 2 {
		t.Fatalf("expected heir registration events, got %d", a.events.Count())
	}

	tok, err := jwtFor(cfg).Issue(cfg.HeirAddresses()[0])
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	a.server.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("jwt-authenticated request failed: %d %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/wallet", nil)
	req.Header.Set("Authorization", "Bearer temp-owner-key")
	rr = httptest.NewRecorder()
	a.server.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("static-token request failed: %d %s", rr.Code, rr.Body.String())
	}
}

func TestConfigAndTokenCommands(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	run := func(args ...string) (string, error) {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(append([]string{"--config", path}, args...))
		err := root.Execute()
		return out.String(), err
	}

	if _, err := run("config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := run("config", "init"); err == nil {
		t.Fatalf("expected config init to refuse overwrite")
	}
	if out, err := run("config", "validate"); err != nil || !strings.Contains(out, "valid") {
		t.Fatalf("config validate: out=%q err=%v", out, err)
	}

	out, err := run("token", "issue", "--subject", "0x00000000000000000000000000000000000000a1")
	if err != nil {
		t.Fatalf("token issue: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	id, err := jwtFor(cfg).Validate(strings.TrimSpace(out))
	if err != nil || id != cfg.HeirAddresses()[0] {
		t.Fatalf("issued token invalid: id=%s err=%v", id.Hex(), err)
	}
	if _, err := run("token", "issue", "--subject", "bob"); err == nil {
		t.Fatalf("expected invalid subject to fail")
	}
}
