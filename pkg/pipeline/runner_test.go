package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/recipegen/pkg/config"
	"github.com/matzehuels/recipegen/pkg/errors"
	"github.com/matzehuels/recipegen/pkg/integrations"
	"github.com/matzehuels/recipegen/pkg/observability"
	"github.com/matzehuels/recipegen/pkg/recipe"
)

var feedstocks = map[string]string{
	"six": `{% set version = "1.16.0" %}
package:
  name: six
  version: {{ version }}
test:
  imports:
    - six
  requires:
    - pip
  commands:
    - pip check
`,
	"attrs": `package:
  name: attrs
test:
  imports:
    - attr
    - attrs
`,
	"broken": "test:\n  imports: [six\n",
	"scalar": "test:\n  requires: pip\n",
	"tensorflow": `outputs:
  - name: tensorflow-base
    test:
      imports:
        - tensorflow
  - name: tensorflow
    test:
      commands:
        - echo wrong
`,
}

func feedstockServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "-feedstock/meta.yaml")
		if text, ok := feedstocks[name]; ok {
			io.WriteString(w, text)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, server *httptest.Server) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Fetch.URLTemplate = server.URL + "/{name}-feedstock/meta.yaml"
	cfg.Output.Root = filepath.Join(t.TempDir(), "recipes")
	return cfg
}

func writeDockerfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Dockerfile")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunner_Run(t *testing.T) {
	server := feedstockServer(t)
	cfg := testConfig(t, server)

	var out bytes.Buffer
	runner, err := NewFromConfig(cfg, &out, quietLogger())
	require.NoError(t, err)

	path := writeDockerfile(t, "FROM python:3.11\nRUN $PIP_INSTALL \\\n    six \\\n    nosuchpkg \\\n    attrs && \\\n    echo done\n")

	report, err := runner.Run(context.Background(), path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "dumped: six", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "ERROR: Could not load meta for nosuchpkg: "), lines[1])
	assert.Contains(t, lines[1], "FETCH_FAILED")
	assert.Equal(t, "dumped: attrs", lines[2])

	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, 4, report.Files())
	assert.True(t, stderrors.Is(report.Results[1].Err, integrations.ErrNotFound))

	root := cfg.Output.Root
	assertFile(t, filepath.Join(root, "imports", "six"), "six")
	assertFile(t, filepath.Join(root, "requires", "six"), "pip")
	assertFile(t, filepath.Join(root, "commands", "six"), "pip check")
	assertFile(t, filepath.Join(root, "imports", "attrs"), "attr\nattrs")
	assert.NoFileExists(t, filepath.Join(root, "imports", "nosuchpkg"))
	assert.NoFileExists(t, filepath.Join(root, "requires", "attrs"))
}

func TestRunner_Run_ErrorKinds(t *testing.T) {
	server := feedstockServer(t)
	cfg := testConfig(t, server)

	var out bytes.Buffer
	runner, err := NewFromConfig(cfg, &out, quietLogger())
	require.NoError(t, err)

	path := writeDockerfile(t, "RUN $PIP_INSTALL broken scalar tensorflow six && true\n")

	report, err := runner.Run(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, report.Results, 4)

	assert.True(t, errors.Is(report.Results[0].Err, errors.ErrCodeParse), "broken: %v", report.Results[0].Err)
	assert.True(t, errors.Is(report.Results[1].Err, errors.ErrCodeContract), "scalar: %v", report.Results[1].Err)
	assert.NoError(t, report.Results[2].Err)
	assert.NoError(t, report.Results[3].Err)

	assertFile(t, filepath.Join(cfg.Output.Root, "imports", "tensorflow"), "tensorflow")
	assert.NoFileExists(t, filepath.Join(cfg.Output.Root, "commands", "tensorflow"))

	assert.Equal(t, strings.Join([]string{
		"ERROR: Could not load meta for broken: " + report.Results[0].Err.Error(),
		"ERROR: Could not load meta for scalar: " + report.Results[1].Err.Error(),
		"dumped: tensorflow",
		"dumped: six",
	}, "\n")+"\n", out.String())
}

func TestRunner_Run_Duplicates(t *testing.T) {
	server := feedstockServer(t)
	cfg := testConfig(t, server)

	var out bytes.Buffer
	runner, err := NewFromConfig(cfg, &out, quietLogger())
	require.NoError(t, err)

	path := writeDockerfile(t, "RUN $PIP_INSTALL six && $PIP_INSTALL six\n")
	report, err := runner.Run(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "dumped: six\ndumped: six\n", out.String())
	assert.Equal(t, 2, report.Succeeded())
	assertFile(t, filepath.Join(cfg.Output.Root, "imports", "six"), "six")
}

func TestRunner_Run_NoCandidates(t *testing.T) {
	var out bytes.Buffer
	runner := NewRunner(failingFetcher{t}, recipe.NewWriter(recipe.PathsFor(t.TempDir())), Options{
		Out:    &out,
		Logger: quietLogger(),
	})

	report, err := runner.Run(context.Background(), writeDockerfile(t, "FROM scratch\nRUN pip install six\n"))
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Empty(t, out.String())
}

func TestRunner_Run_MissingBuildFile(t *testing.T) {
	var out bytes.Buffer
	runner := NewRunner(failingFetcher{t}, recipe.NewWriter(recipe.PathsFor(t.TempDir())), Options{
		Out:    &out,
		Logger: quietLogger(),
	})

	_, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "Dockerfile"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
	assert.Empty(t, out.String())
}

func TestRunner_Run_UnreadableBuildFile(t *testing.T) {
	runner := NewRunner(failingFetcher{t}, recipe.NewWriter(recipe.PathsFor(t.TempDir())), Options{
		Out:    io.Discard,
		Logger: quietLogger(),
	})

	_, err := runner.Run(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath), "got %v", err)
}

func TestRunner_Run_UnsafeNameNotFetched(t *testing.T) {
	var out bytes.Buffer
	root := t.TempDir()
	runner := NewRunner(failingFetcher{t}, recipe.NewWriter(recipe.PathsFor(root)), Options{
		Out:    &out,
		Logger: quietLogger(),
	})

	report, err := runner.Run(context.Background(), writeDockerfile(t, "RUN $PIP_INSTALL git+https://example.com/x.git && true\n"))
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.True(t, errors.Is(report.Results[0].Err, errors.ErrCodeInvalidPackage), "got %v", report.Results[0].Err)
	assert.True(t, strings.HasPrefix(out.String(), "ERROR: Could not load meta for git+https://example.com/x.git: INVALID_PACKAGE"), out.String())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunner_Scan_EmptyPath(t *testing.T) {
	runner := NewRunner(failingFetcher{t}, recipe.NewWriter(recipe.PathsFor(t.TempDir())), Options{
		Out:    io.Discard,
		Logger: quietLogger(),
	})

	for _, path := range []string{"", "  "} {
		_, err := runner.Scan(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "path %q: %v", path, err)
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &cancellingFetcher{cancel: cancel}

	var out bytes.Buffer
	runner := NewRunner(fetcher, recipe.NewWriter(recipe.PathsFor(t.TempDir())), Options{
		Out:    &out,
		Logger: quietLogger(),
	})

	report, err := runner.Run(ctx, writeDockerfile(t, "RUN $PIP_INSTALL a b c\n"))
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, report.Results, 1)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, "dumped: a\n", out.String())
}

func TestRunner_Hooks(t *testing.T) {
	server := feedstockServer(t)
	cfg := testConfig(t, server)

	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	runner, err := NewFromConfig(cfg, io.Discard, quietLogger())
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), writeDockerfile(t, "RUN $PIP_INSTALL six nosuchpkg\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, hooks.candidates)
	assert.Equal(t, []string{"six", "nosuchpkg"}, hooks.started)
	assert.Equal(t, map[string]int{"six": 3, "nosuchpkg": 0}, hooks.files)
	assert.Equal(t, 1, hooks.failures)
}

func TestNewFromConfig_Invalid(t *testing.T) {
	cfg := config.Default()
	cfg.Normalize.BraceMode = "sometimes"

	_, err := NewFromConfig(cfg, io.Discard, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner(failingFetcher{t}, nil, Options{})
	assert.NotNil(t, r.opts.Scanner)
	assert.Equal(t, recipe.BraceLine, r.opts.BraceMode)
	assert.Equal(t, os.Stdout, r.opts.Out)
	assert.NotNil(t, r.opts.Logger)
}

type failingFetcher struct{ t *testing.T }

func (f failingFetcher) FetchMeta(context.Context, string) (string, error) {
	f.t.Error("unexpected fetch")
	return "", stderrors.New("unexpected fetch")
}

type cancellingFetcher struct {
	cancel context.CancelFunc
	calls  int
}

func (f *cancellingFetcher) FetchMeta(_ context.Context, name string) (string, error) {
	f.calls++
	f.cancel()
	return "test:\n  imports:\n    - " + name + "\n", nil
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	candidates int
	started    []string
	files      map[string]int
	failures   int
}

func (h *recordingHooks) OnScanComplete(_ context.Context, _ string, n int) { h.candidates = n }

func (h *recordingHooks) OnPackageStart(_ context.Context, pkg string) {
	h.started = append(h.started, pkg)
}

func (h *recordingHooks) OnPackageComplete(_ context.Context, pkg string, files int, _ time.Duration, err error) {
	if h.files == nil {
		h.files = make(map[string]int)
	}
	h.files[pkg] = files
	if err != nil {
		h.failures++
	}
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}
