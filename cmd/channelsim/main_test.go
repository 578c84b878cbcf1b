package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/channelsim/internal/config"
)

func newBackendServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/round/current", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"frame":"TPT","manufacturerChoice":"accept","retailerChoice":"q=10","q":10,"temperature":0.7,"model":"gpt-4o"}`)
	})
	mux.HandleFunc("/results", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"frame":"LP","acceptanceRate":0.9,"conditionalEfficiency":0.8123,"meanRetailPrice":12.345,"model":"llama"}]`)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoundCommandPrintsSnapshot(t *testing.T) {
	isolateConfig(t)
	srv := newBackendServer(t)

	out, err := execute(t, "round", "--backend", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "For the current round:")
	assert.Contains(t, out, "Temperature : 0.70")
	assert.Contains(t, out, "q=10.00")
}

func TestResultsCommandPrintsTable(t *testing.T) {
	isolateConfig(t)
	srv := newBackendServer(t)

	out, err := execute(t, "results", "--backend", srv.URL)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "FRAME"))
	assert.Contains(t, lines[1], "0.81")
	assert.Contains(t, lines[1], "12.3")
	assert.Contains(t, lines[1], "0.9")
	assert.Contains(t, lines[1], "llama")
}

func TestHealthCommandUsesConfigFile(t *testing.T) {
	dir := isolateConfig(t)
	srv := newBackendServer(t)
	path := filepath.Join(dir, "channelsim", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nurl = \""+srv.URL+"\"\ntimeout = \"5s\"\n"), 0o644))

	out, err := execute(t, "health")
	require.NoError(t, err)
	assert.Equal(t, "backend at "+srv.URL+" is reachable\n", out)
	assert.Equal(t, 5*time.Second, timeout)
}

func TestFlagOverridesConfigFile(t *testing.T) {
	dir := isolateConfig(t)
	srv := newBackendServer(t)
	path := filepath.Join(dir, "channelsim", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nurl = \"http://127.0.0.1:1\"\n"), 0o644))

	_, err := execute(t, "health", "--backend", srv.URL)
	require.NoError(t, err)
}

func TestHealthCommandReportsUnreachableBackend(t *testing.T) {
	isolateConfig(t)
	srv := newBackendServer(t)
	url := srv.URL
	srv.Close()

	_, err := execute(t, "health", "--backend", url, "--timeout", "2s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load health")
}

func TestModelsCommandListsCatalog(t *testing.T) {
	isolateConfig(t)
	out, err := execute(t, "models")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o   GPT-4o\ngpt-4.1  GPT-4.1\nllama    LLaMA\n", out)
}

func TestResolveSettings(t *testing.T) {
	dir := isolateConfig(t)

	s, err := resolveSettings("http://localhost:8000", time.Minute, "", "warn")
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, s.logLevel)
	assert.Equal(t, filepath.Join(dir, "channelsim", "channelsim.log"), s.logFile)

	cases := []struct {
		name    string
		url     string
		timeout time.Duration
		level   string
		want    string
	}{
		{name: "scheme", url: "localhost:8000", level: "info", want: "http or https"},
		{name: "host", url: "http://", level: "info", want: "host"},
		{name: "timeout", url: "http://localhost", timeout: -time.Second, level: "info", want: "--timeout"},
		{name: "level", url: "http://localhost", level: "loud", want: "--log-level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolveSettings(tc.url, tc.timeout, "", tc.level)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Backend.URL)
	assert.Nil(t, cfg.Log.Level)
}

func TestInvalidTimeoutInConfig(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "channelsim", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[backend]\ntimeout = \"soon\"\n"), 0o644))

	_, err := execute(t, "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout in config")
}
