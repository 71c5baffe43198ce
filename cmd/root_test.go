package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gift-redeem/redeemctl/internal/output"
	"github.com/gift-redeem/redeemctl/internal/storage"
)

// writeTestConfig writes a config file pointing at the given API server
// and a state file inside the test's temp dir. Returns the config path
// and the state file path.
func writeTestConfig(t *testing.T, baseURL string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	cfgPath := filepath.Join(dir, "config.yaml")

	content := fmt.Sprintf(`api:
  base_url: %q
auth:
  state_file: %q
output:
  colors: false
`, baseURL, statePath)
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return cfgPath, statePath
}

// seedSession persists a token and user into the state file so guarded
// commands see an authenticated session
func seedSession(t *testing.T, statePath string) {
	t.Helper()
	kv, err := storage.NewFileStore(statePath)
	if err != nil {
		t.Fatalf("opening state file: %v", err)
	}
	if err := kv.Set(storage.KeyToken, "test-token"); err != nil {
		t.Fatalf("seeding token: %v", err)
	}
	if err := kv.Set(storage.KeyUser, `{"id":1,"username":"alice"}`); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
}

// envelope mirrors the server response wrapper
type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope{Code: 0, Msg: "success", Data: data})
}

// fakeAPI builds an httptest server from path handlers
func fakeAPI(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range handlers {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Persistent flag values survive between Execute calls
	cfgFile = ""
	apiURL = ""
	verbose = false
	quiet = false

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("root --help failed: %v", err)
	}
	if !strings.Contains(out, "redeemctl") {
		t.Errorf("expected help output to contain 'redeemctl', got:\n%s", out)
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, err := execute(t, "nonexistent-command")
	if err == nil {
		t.Fatal("expected error for unknown command, got nil")
	}
}

func TestRootCmd_SubcommandsList(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("root --help failed: %v", err)
	}
	for _, name := range []string{"login", "logout", "whoami", "providers", "benefit", "show", "claim", "claims", "status", "config", "version"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected help to list %q command. Got:\n%s", name, out)
		}
	}
}

func TestGuard_DeniesWithoutSession(t *testing.T) {
	cfgPath, _ := writeTestConfig(t, "http://127.0.0.1:1")

	_, err := execute(t, "claims", "--config", cfgPath)
	if err == nil {
		t.Fatal("expected guarded command to fail without a session")
	}

	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected *output.CLIError, got %T: %v", err, err)
	}
	if cliErr.ExitCode != output.ExitAuth {
		t.Errorf("expected exit code %d, got %d", output.ExitAuth, cliErr.ExitCode)
	}
	if !strings.Contains(cliErr.Suggestion, "login") {
		t.Errorf("expected login suggestion, got %q", cliErr.Suggestion)
	}
	if !strings.Contains(cliErr.Suggestion, "claims") {
		t.Errorf("expected suggestion to carry the denied command, got %q", cliErr.Suggestion)
	}
}

func TestGuard_DeniesSubcommandUnderAuthParent(t *testing.T) {
	cfgPath, _ := writeTestConfig(t, "http://127.0.0.1:1")

	_, err := execute(t, "benefit", "list", "--config", cfgPath)
	if err == nil {
		t.Fatal("expected 'benefit list' to fail without a session")
	}

	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected *output.CLIError, got %T: %v", err, err)
	}
	if !strings.Contains(cliErr.Suggestion, "benefit list") {
		t.Errorf("expected suggestion to name 'benefit list', got %q", cliErr.Suggestion)
	}
}

func TestGuard_AllowsGuardedWithSession(t *testing.T) {
	srv := fakeAPI(t, map[string]http.HandlerFunc{
		"/claims/my": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("expected bearer token, got %q", got)
			}
			writeEnvelope(w, map[string]any{"claims": []map[string]any{
				{"claimed_at": "2026-08-01T10:00:00Z", "oauth_provider": "github",
					"benefit": map[string]any{"uuid": "u-1", "title": "Beta keys"}, "code": "KEY-7"},
			}})
		},
	})
	cfgPath, statePath := writeTestConfig(t, srv.URL)
	seedSession(t, statePath)

	out, err := execute(t, "claims", "--config", cfgPath)
	if err != nil {
		t.Fatalf("claims with session failed: %v", err)
	}
	if !strings.Contains(out, "Beta keys") || !strings.Contains(out, "KEY-7") {
		t.Errorf("expected claim listing, got:\n%s", out)
	}
}

func TestGuard_PublicCommandWithoutSession(t *testing.T) {
	srv := fakeAPI(t, map[string]http.HandlerFunc{
		"/auth/providers": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]any{"providers": []map[string]string{
				{"name": "github", "display_name": "GitHub"},
			}})
		},
	})
	cfgPath, _ := writeTestConfig(t, srv.URL)

	out, err := execute(t, "providers", "--config", cfgPath)
	if err != nil {
		t.Fatalf("providers without session failed: %v", err)
	}
	if !strings.Contains(out, "github") {
		t.Errorf("expected provider listing, got:\n%s", out)
	}
}
