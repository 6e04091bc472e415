package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cputable/internal/config"
	"cputable/internal/models"
)

const cpusCSV = `Manufacturer,Model,Platform,Cores
AMD,Ryzen 5,AM4,6
Intel,Core i7,LGA1700,8
AMD,Ryzen 9,AM5,16
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpus.csv")
	require.NoError(t, os.WriteFile(path, []byte(cpusCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderJSONToFile(t *testing.T) {
	data := writeDataset(t)
	out := filepath.Join(t.TempDir(), "view.json")

	_, err := run(t, "render", "--data", data, "--manufacturer", "AMD", "--sort", "Cores", "--desc", "-f", "json", "-o", out)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	var resp models.ViewResponse
	require.NoError(t, json.Unmarshal(content, &resp))

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Matches)
	require.Len(t, resp.Table.Rows, 2)
	assert.Equal(t, "Ryzen 9", resp.Table.Rows[0].Model)
	assert.Equal(t, "desc", resp.State.SortDir)
}

func TestRenderHTMLToStdout(t *testing.T) {
	data := writeDataset(t)

	out, err := run(t, "render", "--data", data, "--search", "xyz", "-f", "html")
	require.NoError(t, err)
	assert.Equal(t, `<table id="cpuTable"><thead></thead><tbody><tr><td colspan="4">No processors found.</td></tr></tbody></table>`, out)
}

func TestRenderPageUsesConfig(t *testing.T) {
	dir := t.TempDir()
	data := writeDataset(t)
	cfgPath := filepath.Join(dir, "cputable.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[dataset]
path = "`+filepath.ToSlash(data)+`"

[render]
title = "Desktop CPUs"
cores_label = "%s-core"
`), 0o644))

	out, err := run(t, "render", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Desktop CPUs</title>")
	assert.Contains(t, out, `<option value="16">16-core</option>`)
	assert.Contains(t, out, "3 of 3 processors")
}

func TestRenderErrors(t *testing.T) {
	data := writeDataset(t)

	_, err := run(t, "render")
	assert.ErrorContains(t, err, "no dataset")

	_, err = run(t, "render", "--data", data, "--sort", "Price")
	assert.ErrorContains(t, err, "unknown column")

	_, err = run(t, "render", "--data", data, "-f", "pdf")
	assert.ErrorContains(t, err, `invalid format "pdf"`)

	_, err = run(t, "render", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestNewServerServesAfterLoad(t *testing.T) {
	cfg := config.Default()
	cfg.Dataset.Path = writeDataset(t)
	e, h := NewServer(cfg)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/options", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ds, err := loadDataset(context.Background(), cfg)
	require.NoError(t, err)
	h.SetData(ds)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?q=ryzen", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), `class="cpu-row"`))
}
