package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const testAccounts = `
accounts:
  - code: "2000"
    metadata:
      category: vendor
  - code: "2001"
    metadata:
      category: vendor
  - code: "3000"
    metadata:
      category: internal
`

func writeFiles(t *testing.T, endpoint string) string {
	t.Helper()
	dir := t.TempDir()
	accounts := filepath.Join(dir, "accounts.yaml")
	require.NoError(t, os.WriteFile(accounts, []byte(testAccounts), 0o600))

	cfg := fmt.Sprintf(`
accounts:
  file: %s
routes:
  - category: vendor
    provider: modern_treasury
    amount: "12.34"
    currency: usd
providers:
  modern_treasury:
    endpoint: %s
    token: mt_test
`, accounts, endpoint)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDispatchCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer mt_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"po_1","status":"approved"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--config", writeFiles(t, srv.URL), "dispatch")
	require.NoError(t, err)

	var res dispatchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotEmpty(t, res.RunID)
	require.Equal(t, 2, res.Succeeded)
	require.Equal(t, 1, res.Failed)
	require.Len(t, res.Results, 3)
	require.Equal(t, "2000", res.Results[0].AccountCode)
	require.Equal(t, "po_1", res.Results[0].RawResponse["id"])
	require.Equal(t, "2001", res.Results[1].AccountCode)
	require.Equal(t, "3000", res.Results[2].AccountCode)
	require.Equal(t, "no matching provider", res.Results[2].Error)

	_, err = execute(t, "--config", writeFiles(t, srv.URL), "dispatch", "--fail-on-error")
	require.EqualError(t, err, "1 of 3 accounts failed")
}

func TestDispatchCommandConfigurationError(t *testing.T) {
	path := writeFiles(t, "http://127.0.0.1:1")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, bytes.Replace(b, []byte("token: mt_test"), []byte("token: \"\""), 1), 0o600))
	t.Setenv("MODERN_TREASURY_TOKEN", "")

	out, err := execute(t, "--config", path, "dispatch")
	require.Error(t, err)
	require.Contains(t, err.Error(), "providers.modern_treasury.token")
	require.Empty(t, out)
}

func TestRoutesCommand(t *testing.T) {
	out, err := execute(t, "--config", writeFiles(t, "http://127.0.0.1:1"), "routes")
	require.NoError(t, err)
	require.Contains(t, out, "category=vendor")
	require.Contains(t, out, "modern_treasury")
	require.Contains(t, out, "1234")
}

func TestAccountsListCommand(t *testing.T) {
	out, err := execute(t, "--config", writeFiles(t, "http://127.0.0.1:1"), "accounts", "list")
	require.NoError(t, err)
	require.Contains(t, out, `"code": "2001"`)
}

func TestLogLevelFromConfig(t *testing.T) {
	path := writeFiles(t, "http://127.0.0.1:1")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append([]byte("log_level: ERROR\n"), b...), 0o600))

	_, err = execute(t, "--config", path, "routes")
	require.NoError(t, err)
	require.False(t, zap.L().Core().Enabled(zapcore.InfoLevel))
	require.True(t, zap.L().Core().Enabled(zapcore.ErrorLevel))

	require.NoError(t, os.WriteFile(path, append([]byte("log_level: WARN\nproduction: true\n"), b...), 0o600))
	_, err = execute(t, "--config", path, "routes")
	require.NoError(t, err)
	require.False(t, zap.L().Core().Enabled(zapcore.InfoLevel))
	require.True(t, zap.L().Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, os.WriteFile(path, append([]byte("log_level: LOUD\n"), b...), 0o600))
	_, err = execute(t, "--config", path, "routes")
	require.Error(t, err)
	require.Contains(t, err.Error(), "log_level")
}
