package cmd

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gift-redeem/redeemctl/internal/output"
	"github.com/gift-redeem/redeemctl/internal/storage"
)

func setupSessionTest(t *testing.T) {
	t.Helper()
	whoamiJSON = false
	loginCmd.Flags().Set("manual", "false")
	loginCmd.Flags().Set("return", "")
}

func TestLogout_IsLocalOnly(t *testing.T) {
	setupSessionTest(t)

	// Unreachable API proves logout never talks to the server
	cfgPath, statePath := writeTestConfig(t, "http://127.0.0.1:1")
	seedSession(t, statePath)

	if _, err := execute(t, "logout", "--config", cfgPath); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	kv, err := storage.NewFileStore(statePath)
	if err != nil {
		t.Fatalf("reopening state file: %v", err)
	}
	if _, ok := kv.Get(storage.KeyToken); ok {
		t.Error("expected token to be removed from state file")
	}
	if _, ok := kv.Get(storage.KeyUser); ok {
		t.Error("expected user to be removed from state file")
	}
}

func TestLogout_WhenLoggedOut(t *testing.T) {
	setupSessionTest(t)

	cfgPath, _ := writeTestConfig(t, "http://127.0.0.1:1")

	if _, err := execute(t, "logout", "--config", cfgPath); err != nil {
		t.Fatalf("logout while logged out should be a no-op, got: %v", err)
	}
}

func TestWhoami_JSON(t *testing.T) {
	setupSessionTest(t)

	srv := fakeAPI(t, map[string]http.HandlerFunc{
		"/auth/profile": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]any{"user": map[string]any{
				"id": 1, "username": "alice", "avatar_url": "https://example.com/a.png",
			}})
		},
	})
	cfgPath, statePath := writeTestConfig(t, srv.URL)
	seedSession(t, statePath)

	out, err := execute(t, "whoami", "--json", "--config", cfgPath)
	if err != nil {
		t.Fatalf("whoami failed: %v", err)
	}

	var user map[string]any
	if err := json.Unmarshal([]byte(out), &user); err != nil {
		t.Fatalf("invalid JSON output: %v\nGot: %s", err, out)
	}
	if user["username"] != "alice" {
		t.Errorf("expected username alice, got %v", user)
	}
}

func TestWhoami_ServerUnauthorizedClearsSession(t *testing.T) {
	setupSessionTest(t)

	srv := fakeAPI(t, map[string]http.HandlerFunc{
		"/auth/profile": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	})
	cfgPath, statePath := writeTestConfig(t, srv.URL)
	seedSession(t, statePath)

	_, err := execute(t, "whoami", "--config", cfgPath)
	if err == nil {
		t.Fatal("expected whoami to fail on a rejected token")
	}
	cliErr := output.ClassifyError(err)
	if cliErr.ExitCode != output.ExitAuth {
		t.Errorf("expected auth exit code, got %d", cliErr.ExitCode)
	}

	// The rejected token must be removed from persisted state
	kv, err := storage.NewFileStore(statePath)
	if err != nil {
		t.Fatalf("reopening state file: %v", err)
	}
	if _, ok := kv.Get(storage.KeyToken); ok {
		t.Error("expected token to be cleared after server 401")
	}
}

func TestLogin_ManualFlow(t *testing.T) {
	setupSessionTest(t)

	srv := fakeAPI(t, map[string]http.HandlerFunc{
		"/auth/providers": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]any{"providers": []map[string]string{
				{"name": "github", "display_name": "GitHub"},
			}})
		},
		"/auth/login/github": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]any{"auth_url": "https://example.com/oauth/authorize"})
		},
		"/auth/verify/github": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["code"] != "pasted-code" {
				t.Errorf("expected pasted code in verify body, got %v", body)
			}
			writeEnvelope(w, map[string]any{
				"token": "fresh-token",
				"user":  map[string]any{"id": 1, "username": "alice"},
			})
		},
	})
	cfgPath, statePath := writeTestConfig(t, srv.URL)

	rootCmd.SetIn(strings.NewReader("pasted-code\n"))
	defer rootCmd.SetIn(nil)

	if _, err := execute(t, "login", "github", "--manual", "--config", cfgPath); err != nil {
		t.Fatalf("manual login failed: %v", err)
	}

	kv, err := storage.NewFileStore(statePath)
	if err != nil {
		t.Fatalf("reopening state file: %v", err)
	}
	token, ok := kv.Get(storage.KeyToken)
	if !ok || token != "fresh-token" {
		t.Errorf("expected fresh token persisted, got %q (present=%v)", token, ok)
	}
}

func TestLogin_UnknownProvider(t *testing.T) {
	setupSessionTest(t)

	srv := fakeAPI(t, map[string]http.HandlerFunc{
		"/auth/providers": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]any{"providers": []map[string]string{
				{"name": "github", "display_name": "GitHub"},
			}})
		},
	})
	cfgPath, _ := writeTestConfig(t, srv.URL)

	_, err := execute(t, "login", "gitlab", "--config", cfgPath)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "gitlab") {
		t.Errorf("expected error to name the provider, got: %v", err)
	}
}
