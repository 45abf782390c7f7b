package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gibbs-bakehouse/stampcard/internal/config"
)

const (
	testPhone = "0412345678"
	testCode  = "209254"
	testPIN   = "1357"
)

// isolateConfig points HOME at an empty directory and clears the stampcard
// environment so only flags reach the command.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{config.EnvDB, config.EnvLogFile, config.EnvAddr} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// cliEnv runs commands against one database file.
type cliEnv struct {
	db string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	isolateConfig(t)
	return &cliEnv{db: filepath.Join(t.TempDir(), "stampcard.db")}
}

// run executes the root command and returns stdout, stderr and the exit code.
func (e *cliEnv) run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(append([]string{"--db", e.db}, args...), &out, &errOut)
	return out.String(), errOut.String(), code
}

// runJSON executes the command with --format json and decodes the envelope.
func (e *cliEnv) runJSON(t *testing.T, v any, args ...string) (CLIResponse, int) {
	t.Helper()
	out, _, code := e.run(t, append([]string{"--format", "json"}, args...)...)

	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), "output: %s", out)
	if v != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, v))
	}
	return raw.CLIResponse, code
}
