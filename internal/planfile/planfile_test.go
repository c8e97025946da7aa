package planfile

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const planJSON = `{"floorplan":{"corners":{},"walls":[],"rooms":[]},"items":[]}`

func writeBundle(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range []string{"readme.txt", "other.json", "../escape.json", "nested/plan.json"} {
		body, ok := files[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestResolveLocalPath(t *testing.T) {
	got, err := Resolve(context.Background(), "plans/house.json", t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "plans/house.json", got)
}

func TestExtractPlanPrefersPlanJSON(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "house.zip")
	writeBundle(t, bundle, map[string]string{
		"readme.txt":       "hi",
		"other.json":       "{}",
		"../escape.json":   "{}",
		"nested/plan.json": planJSON,
	})

	got, err := Resolve(context.Background(), bundle, filepath.Join(dir, "cache"))
	require.NoError(t, err)
	require.Equal(t, "plan.json", filepath.Base(got))
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	require.Equal(t, planJSON, string(data))
	require.NoFileExists(t, filepath.Join(dir, "escape.json"))
}

func TestExtractPlanEmptyBundle(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "empty.zip")
	writeBundle(t, bundle, map[string]string{"readme.txt": "hi"})
	_, err := ExtractPlan(bundle, filepath.Join(dir, "out"))
	require.ErrorIs(t, err, ErrNoPlan)
}

func TestResolveURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plans/house":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(planJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	dir := t.TempDir()

	got, err := Resolve(context.Background(), srv.URL+"/plans/house?v=2", dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "house.json"), got)
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	require.Equal(t, planJSON, string(data))

	_, err = Resolve(context.Background(), srv.URL+"/missing.json", dir)
	require.ErrorContains(t, err, "404")
}

func TestSavedName(t *testing.T) {
	resp := func(rawURL string, header map[string]string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, rawURL, nil)
		r := &http.Response{Header: http.Header{}, Request: req}
		for k, v := range header {
			r.Header.Set(k, v)
		}
		return r
	}
	require.Equal(t, "my_plan.json", savedName(resp("http://example.com/x", map[string]string{
		"Content-Disposition": `attachment; filename="my plan.json"`,
	})))
	require.Equal(t, "a.zip", savedName(resp("http://example.com/x", map[string]string{
		"Content-Disposition": `attachment; filename*=UTF-8''a.zip`,
	})))
	require.Equal(t, "bundle.zip", savedName(resp("http://example.com/dl/bundle", map[string]string{
		"Content-Type": "application/zip",
	})))
	require.Equal(t, "plan.json", savedName(resp("http://example.com/", nil)))
}
