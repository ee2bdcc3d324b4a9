package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/diogo/chatbtc/internal/api"
	"github.com/diogo/chatbtc/internal/chat"
	"github.com/diogo/chatbtc/internal/config"
	apierrors "github.com/diogo/chatbtc/internal/errors"
	"github.com/diogo/chatbtc/internal/models"
	"github.com/diogo/chatbtc/internal/tui"
)

// fakeService is a closable answer service backed by the api mock
type fakeService struct {
	*api.MockAnswerClient
	closed bool
}

func (f *fakeService) Close() { f.closed = true }

// fakeTUI records the chat window it was asked to run
type fakeTUI struct {
	calls   int
	session *chat.Session
	service chat.AnswerService
	opts    int
}

func (f *fakeTUI) RunChat(session *chat.Session, service chat.AnswerService, opts ...tui.ModelOption) error {
	f.calls++
	f.session = session
	f.service = service
	f.opts = len(opts)
	return nil
}

type testEnv struct {
	deps     *Dependencies
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	service  *fakeService
	tui      *fakeTUI
	created  int
	copied   []string
	loadedAs config.Config
}

// isolateEnv keeps the developer's environment out of config loading
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, envs := range []string{
		"CHATBTC_BASE_URL", "VITE_BASE_URL",
		"CHATBTC_API_KEY", "VITE_API_KEY",
		"CHATBTC_SPEC_HASH", "VITE_SPEC_HASH",
		"CHATBTC_PIPELINE_FILE", "CHATBTC_TIMEOUT", "CHATBTC_THEME",
		"CHATBTC_VERBOSE", "CHATBTC_LOG_FILE", "CHATBTC_COPY_TO_CLIPBOARD",
		"CHATBTC_MARKDOWN_STYLE", "GLAMOUR_STYLE",
	} {
		t.Setenv(envs, "")
	}
	return home
}

// writeConfig writes a config file and returns its path
func writeConfig(t *testing.T, values map[string]any) string {
	t.Helper()
	data, err := json.Marshal(values)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// validConfig is the smallest config that passes validation
func validConfig(extra map[string]any) map[string]any {
	values := map[string]any{
		"base_url":  "https://api.example.com/run",
		"api_key":   "secret-key-1234",
		"spec_hash": "abc123",
		"markdown":  map[string]any{"style": "notty"},
	}
	for k, v := range extra {
		values[k] = v
	}
	return values
}

func newTestEnv(t *testing.T, mock *api.MockAnswerClient) *testEnv {
	t.Helper()
	isolateEnv(t)

	te := &testEnv{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		service: &fakeService{MockAnswerClient: mock},
		tui:     &fakeTUI{},
	}
	te.deps = &Dependencies{
		NewService: func(cfg config.Config, logger *zap.Logger) (AnswerService, error) {
			te.created++
			te.loadedAs = cfg
			return te.service, nil
		},
		TUI: te.tui,
		Clipboard: func(s string) error {
			te.copied = append(te.copied, s)
			return nil
		},
		Stdin:       &bytes.Buffer{},
		Stdout:      te.stdout,
		Stderr:      te.stderr,
		StdinPiped:  func() bool { return false },
		Interactive: func() bool { return false },
		TermWidth:   func() int { return 80 },
	}
	return te
}

func (te *testEnv) run(args ...string) error {
	cmd := NewRootCmd(te.deps)
	// A nil slice would make cobra read the test binary's flags
	cmd.SetArgs(append([]string{}, args...))
	return cmd.Execute()
}

func TestRootCommand_Help(t *testing.T) {
	cmd := NewRootCmd(nil)
	assert.Equal(t, "chatbtc", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["chat"])
	assert.True(t, names["ask"])
	assert.True(t, names["config"])

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCommand_VersionFlag(t *testing.T) {
	for _, flag := range []string{"-v", "--version"} {
		t.Run(flag, func(t *testing.T) {
			te := newTestEnv(t, &api.MockAnswerClient{})
			require.NoError(t, te.run(flag))
			assert.Equal(t, "chatbtc 0.1.0 (built unknown)\n", te.stdout.String())
			assert.Zero(t, te.tui.calls)
		})
	}
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	te := newTestEnv(t, &api.MockAnswerClient{})
	assert.Error(t, te.run("what is bitcoin"))
	assert.Zero(t, te.tui.calls)
}

func TestRootCommand_StartsChat(t *testing.T) {
	for _, args := range [][]string{nil, {"chat"}} {
		t.Run(caseName(args), func(t *testing.T) {
			te := newTestEnv(t, &api.MockAnswerClient{})
			path := writeConfig(t, validConfig(nil))

			require.NoError(t, te.run(append(args, "--config", path)...))

			require.Equal(t, 1, te.tui.calls)
			assert.Equal(t, []models.Message{models.AnswerMessage(models.Greeting)}, te.tui.session.Messages())
			assert.Equal(t, chat.AnswerService(te.service), te.tui.service)
			assert.Equal(t, 3, te.tui.opts)
			assert.True(t, te.service.closed, "service is closed when the window exits")
			assert.Equal(t, "https://api.example.com/run", te.loadedAs.BaseURL)
		})
	}
}

func caseName(args []string) string {
	if len(args) == 0 {
		return "root"
	}
	return args[0]
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"missing base url", map[string]any{"api_key": "k"}},
		{"missing api key", map[string]any{"base_url": "https://x"}},
		{"unknown theme", validConfig(map[string]any{"theme": "neon"})},
		{"negative timeout", validConfig(map[string]any{"timeout": "-1s"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t, &api.MockAnswerClient{})
			path := writeConfig(t, tt.values)

			err := te.run("--config", path)
			require.Error(t, err)
			assert.True(t, apierrors.IsConfigError(err), "got %v", err)
			assert.Zero(t, te.tui.calls)
			assert.Zero(t, te.created)
		})
	}
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	te := newTestEnv(t, &api.MockAnswerClient{})
	err := te.run("--config", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Zero(t, te.tui.calls)
}

func TestRootCommand_EnvironmentConfig(t *testing.T) {
	te := newTestEnv(t, &api.MockAnswerClient{})
	t.Setenv("VITE_BASE_URL", "https://widget.example.com")
	t.Setenv("CHATBTC_API_KEY", "env-key")

	require.NoError(t, te.run())
	assert.Equal(t, "https://widget.example.com", te.loadedAs.BaseURL)
	assert.Equal(t, "env-key", te.loadedAs.APIKey)
	assert.Equal(t, 1, te.tui.calls)
}

func TestRootCommand_VerboseWritesLog(t *testing.T) {
	te := newTestEnv(t, &api.MockAnswerClient{})
	logFile := filepath.Join(t.TempDir(), "logs", "chatbtc.log")
	path := writeConfig(t, validConfig(map[string]any{"log_file": logFile}))

	require.NoError(t, te.run("--config", path, "--verbose"))
	assert.True(t, te.loadedAs.Verbose)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
}
