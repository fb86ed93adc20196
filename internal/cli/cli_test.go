package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/dataviewer/internal/cli"
	"github.com/rshade/dataviewer/internal/config"
	"github.com/rshade/dataviewer/internal/record"
	"github.com/rshade/dataviewer/internal/source"
)

const postsJSON = `[{"id":1,"title":"a"},{"id":2,"title":"b"}]`

var testEndpoints = []source.Endpoint{
	{Label: "API 1", URL: "https://example.test/posts"},
	{Label: "API 2", URL: "https://example.test/users"},
}

// fakeDeps serves bodies by URL; a URL without a body fails to load.
func fakeDeps(bodies map[string]string) cli.Deps {
	return cli.Deps{
		Endpoints: testEndpoints,
		Loader: source.LoaderFunc(func(_ context.Context, url string) ([]record.Record, error) {
			body, ok := bodies[url]
			if !ok {
				return nil, fmt.Errorf("%w: connection refused", source.ErrRetrievalFailed)
			}
			return record.ParseDataset([]byte(body))
		}),
	}
}

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(cli.EnvLogLevel, "error")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
}

func execute(t *testing.T, deps cli.Deps, args ...string) (string, string, error) {
	t.Helper()
	setupEnv(t)

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmdWithDeps("1.2.3", deps)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func numbered(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id":%d,"title":"post %d"}`, i+1, i+1)
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestNewRootCmd(t *testing.T) {
	cmd := cli.NewRootCmd("1.2.3")

	assert.Equal(t, "dataviewer", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"sources", "fetch", "version"})
}

func TestRootCmd_NonInteractiveListsSources(t *testing.T) {
	out, _, err := execute(t, fakeDeps(nil))

	require.NoError(t, err)
	assert.Contains(t, out, "needs a terminal")
	assert.Contains(t, out, "API 1")
	assert.Contains(t, out, "https://example.test/users")
	assert.Contains(t, out, "dataviewer fetch")
}

func TestRootCmd_PlainListsSources(t *testing.T) {
	out, _, err := execute(t, fakeDeps(nil), "--plain")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Available sources:"), out)
	assert.Contains(t, out, "API 2")
}

func TestRootCmd_PlainIsRootOnly(t *testing.T) {
	_, _, err := execute(t, fakeDeps(nil), "sources", "--plain")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestRootCmd_MissingExplicitConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, _, err := execute(t, fakeDeps(nil), "--config", missing, "sources")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, fakeDeps(nil), "version")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "dataviewer 1.2.3 ("))
}

func TestSourcesCmd(t *testing.T) {
	out, _, err := execute(t, fakeDeps(nil), "sources")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Label")
	assert.Contains(t, lines[2], "1")
	assert.Contains(t, lines[2], "API 1")
	assert.Contains(t, lines[3], "https://example.test/users")
}

func TestSourcesCmd_Probe(t *testing.T) {
	deps := fakeDeps(map[string]string{testEndpoints[0].URL: postsJSON})

	out, _, err := execute(t, deps, "sources", "--probe")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Records")
	assert.True(t, strings.HasSuffix(lines[2], "2"), lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "error"), lines[3])
}

func TestFetchCmd_Table(t *testing.T) {
	deps := fakeDeps(map[string]string{testEndpoints[0].URL: postsJSON})

	out, _, err := execute(t, deps, "fetch", "api 1")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, []string{"ID", "TITLE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "a"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "b"}, strings.Fields(lines[2]))
	assert.Contains(t, out, "2 records")
}

func TestFetchCmd_TableFlattensCells(t *testing.T) {
	deps := fakeDeps(map[string]string{testEndpoints[0].URL: `[{"id":1,"body":"line one\nline two"}]`})

	out, _, err := execute(t, deps, "fetch", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "line one line two")
}

func TestFetchCmd_EmptyDataset(t *testing.T) {
	deps := fakeDeps(map[string]string{testEndpoints[0].URL: `[]`})

	out, _, err := execute(t, deps, "fetch", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "No records.")
}

func TestFetchCmd_JSON(t *testing.T) {
	deps := fakeDeps(map[string]string{testEndpoints[0].URL: postsJSON})

	out, _, err := execute(t, deps, "fetch", "1", "--output", "json")

	require.NoError(t, err)
	assert.JSONEq(t, postsJSON, out)
}

func TestFetchCmd_NDJSONPreservesKeyOrder(t *testing.T) {
	deps := fakeDeps(map[string]string{testEndpoints[1].URL: `[{"name":"Leanne","id":1},{"name":"Ervin","id":2}]`})

	out, _, err := execute(t, deps, "fetch", "API 2", "-o", "ndjson")

	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"Leanne\",\"id\":1}\n{\"name\":\"Ervin\",\"id\":2}\n", out)
}

func TestFetchCmd_Page(t *testing.T) {
	deps := fakeDeps(map[string]string{testEndpoints[0].URL: numbered(7)})

	out, _, err := execute(t, deps, "fetch", "1", "--page", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "post 6")
	assert.Contains(t, out, "post 7")
	assert.NotContains(t, out, "post 5")
	assert.Contains(t, out, "Page 2/2 · 7 records")
}

func TestFetchCmd_PageOutOfRange(t *testing.T) {
	deps := fakeDeps(map[string]string{testEndpoints[0].URL: numbered(7)})

	_, _, err := execute(t, deps, "fetch", "1", "--page", "3")

	require.ErrorIs(t, err, cli.ErrPageOutOfRange)
}

func TestFetchCmd_FilterAndSort(t *testing.T) {
	deps := fakeDeps(map[string]string{testEndpoints[0].URL: numbered(12)})

	out, _, err := execute(t, deps, "fetch", "1",
		"--filter", "title=POST 1", "--sort", "id:desc", "-o", "ndjson")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.JSONEq(t, `{"id":12,"title":"post 12"}`, lines[0])
	assert.JSONEq(t, `{"id":1,"title":"post 1"}`, lines[3])
}

func TestFetchCmd_Errors(t *testing.T) {
	deps := fakeDeps(map[string]string{testEndpoints[0].URL: postsJSON})

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "unknown label", args: []string{"fetch", "API 9"}, wantErr: source.ErrUnknownSource},
		{name: "unlisted url", args: []string{"fetch", "https://evil.test/"}, wantErr: source.ErrUnknownSource},
		{name: "load failure", args: []string{"fetch", "2"}, wantErr: source.ErrRetrievalFailed},
		{name: "bad filter", args: []string{"fetch", "1", "--filter", "title"}, wantErr: cli.ErrInvalidFilter},
		{name: "unknown filter column", args: []string{"fetch", "1", "--filter", "x=1"}, wantErr: cli.ErrUnknownColumn},
		{name: "bad sort", args: []string{"fetch", "1", "--sort", "id:up"}, wantErr: cli.ErrInvalidSortFormat},
		{name: "bad output", args: []string{"fetch", "1", "-o", "xml"}, wantMsg: "unsupported output format"},
		{name: "negative page", args: []string{"fetch", "1", "--page", "-1"}, wantMsg: "page must be >= 0"},
		{name: "missing arg", args: []string{"fetch"}, wantMsg: "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, deps, tt.args...)

			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestFetchCmd_HTTPLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			_, _ = w.Write([]byte("<html>oops</html>"))
			return
		}
		_, _ = w.Write([]byte(postsJSON))
	}))
	t.Cleanup(srv.Close)

	deps := cli.Deps{
		Endpoints: []source.Endpoint{
			{Label: "Local", URL: srv.URL + "/posts"},
			{Label: "Broken", URL: srv.URL + "/broken"},
		},
		Loader: source.NewHTTPLoader(),
	}

	out, _, err := execute(t, deps, "fetch", "local", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, postsJSON, out)

	_, _, err = execute(t, deps, "fetch", "broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrRetrievalFailed))
}
