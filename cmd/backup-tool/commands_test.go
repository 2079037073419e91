package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/storewise-backend/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSeed(t *testing.T, format string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed."+format)
	_, err := execute(t, "seed", "--format", format, "--out", path)
	require.NoError(t, err)
	return path
}

func TestValidateAcceptsSampleSeed(t *testing.T) {
	path := writeSeed(t, "json")

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 5 products, 2 transactions, 5 suppliers")
}

func TestValidateListsProblems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	body := `{"products":[{"id":"P001","name":"","category":"Produce","price":-1,"stock":1}],"transactions":[],"suppliers":[]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	require.ErrorIs(t, err, errInvalidBackup)
	assert.Contains(t, out, "  - ")
}

func TestValidateRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.json")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))

	_, err := execute(t, "validate", path)
	require.ErrorIs(t, err, errInvalidBackup)
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestSummaryTotals(t *testing.T) {
	path := writeSeed(t, "json")

	out, err := execute(t, "summary", path)
	require.NoError(t, err)
	assert.Contains(t, out, "store:        Sunny Corner Market")
	assert.Contains(t, out, "inventory:    $467.49")
	assert.Contains(t, out, "sales:        $22.84")
	assert.Contains(t, out, "low stock:    2")
	assert.Contains(t, out, "P002 Whole Milk 1 Gallon (8/15)")
}

func TestSeedYAMLLoadsBack(t *testing.T) {
	path := writeSeed(t, "yaml")

	doc, err := seed.Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Products, 5)
	assert.Equal(t, "P001", doc.Products[0].ID)
	assert.Equal(t, "2.99", doc.Products[0].Price.StringFixed(2))
}

func TestSeedRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "seed", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestSchemaReportsVersion(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Regexp(t, `schema version [1-9]\d*`, out)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "backup-tool dev\n", out)
}
