package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
)

// executeCommand runs the root command against the given server with the
// given args and returns stdout, stderr, and the execution error.
func executeCommand(t *testing.T, serverURL string, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(append([]string{"--server", serverURL}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// newFakeAPI serves canned responses per method+path.
func newFakeAPI(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":"REQ_001","message":"request not found"}`))
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"submit", "status", "list", "track", "appeal", "classify", "sweep"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_Version(t *testing.T) {
	root := NewRootCommand()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "commit:")
}

func TestGetCLIContext_MissingContext(t *testing.T) {
	cmd := &cobra.Command{Use: "orphan"}
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"frobnicate"})

	assert.Error(t, root.Execute())
}

func testLogger(t *testing.T) logging.Logger {
	t.Helper()
	return logging.NewNop()
}

func TestInitClient_Precedence(t *testing.T) {
	logger := testLogger(t)

	t.Run("flag wins", func(t *testing.T) {
		c, err := initClient(&RootOptions{ServerAddr: "http://flag:8080", Timeout: time.Second}, logger)
		require.NoError(t, err)
		require.NotNil(t, c)
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv("RTI_SERVER", "http://env:9090")
		c, err := initClient(&RootOptions{Timeout: time.Second}, logger)
		require.NoError(t, err)
		require.NotNil(t, c)
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("RTI_SERVER", "")
		c, err := initClient(&RootOptions{Timeout: time.Second}, logger)
		require.NoError(t, err)
		require.NotNil(t, c)
	})
}
