package results

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

func quietLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func writeResult(t *testing.T, root string, s model.Strategy, name, content string) {
	t.Helper()
	dir := filepath.Join(root, s.Dir())
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const bankRuns = `{
  "Bank": {"blackbox": [
    {"status": "success", "execution": {"totalInstructions": 100, "coverage": 40, "maxCoverage": 50, "averageCoverage": 30, "criticalInstructionsHits": 4, "detectedWeaknesses": ["reentrancy", "integer-overflow"]}},
    {"status": "error"},
    {"status": "success", "execution": {"totalInstructions": 0}}
  ]}
}`

const moreBankRuns = `{
  "Bank": {"blackbox": [
    {"status": "success", "execution": {"totalInstructions": 100, "maxCoverage": 70, "averageCoverage": 50, "criticalInstructionsHits": 6, "detectedWeaknesses": []}}
  ]},
  "Wallet": {"blackbox": [
    {"status": "failed", "execution": null}
  ]}
}`

func TestLoadFiltersIneligibleExecutions(t *testing.T) {
	root := t.TempDir()
	writeResult(t, root, model.Blackbox, "a.json", bankRuns)

	set, err := NewRepository(root, quietLogger()).Load(model.Blackbox)
	require.NoError(t, err)

	runs := set.For("Bank")
	require.Len(t, runs, 1)
	assert.Equal(t, 100, runs[0].TotalInstructions)
	assert.Equal(t, 50.0, runs[0].MaxCoverage)
	assert.Equal(t, 40.0, runs[0].Coverage)
	assert.True(t, runs[0].Detected(model.Reentrancy))
	assert.Len(t, runs[0].DetectedWeaknesses, 1, "unknown weaknesses are dropped")
}

func TestLoadConcatenatesAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeResult(t, root, model.Blackbox, "a.json", bankRuns)
	writeResult(t, root, model.Blackbox, "b.json", moreBankRuns)

	set, err := NewRepository(root, quietLogger()).Load(model.Blackbox)
	require.NoError(t, err)

	runs := set.For("Bank")
	require.Len(t, runs, 2)
	assert.Equal(t, 50.0, runs[0].MaxCoverage)
	assert.Equal(t, 70.0, runs[1].MaxCoverage)

	wallet, ok := set.Executions["Wallet"]
	assert.True(t, ok, "contracts without eligible executions are still recorded")
	assert.Empty(t, wallet)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := NewRepository(t.TempDir(), quietLogger()).Load(model.Greybox)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingResults))

	var missing *MissingResultsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, model.Greybox, missing.Strategy)
}

func TestLoadMalformedRecords(t *testing.T) {
	cases := map[string]string{
		"missing status":            `{"Bank": {"blackbox": [{"execution": {}}]}}`,
		"without execution data":    `{"Bank": {"blackbox": [{"status": "success"}]}}`,
		"missing totalInstructions": `{"Bank": {"blackbox": [{"status": "success", "execution": {"maxCoverage": 1}}]}}`,
		"missing maxCoverage":       `{"Bank": {"blackbox": [{"status": "success", "execution": {"totalInstructions": 10, "averageCoverage": 1, "criticalInstructionsHits": 0}}]}}`,
		"no \"blackbox\" entry":     `{"Bank": {"greybox": []}}`,
	}
	for reason, content := range cases {
		t.Run(reason, func(t *testing.T) {
			root := t.TempDir()
			writeResult(t, root, model.Blackbox, "a.json", content)

			_, err := NewRepository(root, quietLogger()).Load(model.Blackbox)
			var malformed *MalformedRecordError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, "Bank", malformed.Contract)
			assert.Contains(t, malformed.Error(), reason)
		})
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	root := t.TempDir()
	writeResult(t, root, model.Blackbox, "a.json", `{"Bank": [`)

	_, err := NewRepository(root, quietLogger()).Load(model.Blackbox)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestLoadAllStopsOnMissingStrategy(t *testing.T) {
	root := t.TempDir()
	writeResult(t, root, model.Blackbox, "a.json", bankRuns)

	_, err := NewRepository(root, quietLogger()).LoadAll()
	assert.ErrorIs(t, err, ErrMissingResults)
}

func TestLoadLogsSummary(t *testing.T) {
	root := t.TempDir()
	writeResult(t, root, model.Blackbox, "a.json", bankRuns)

	log, hook := test.NewNullLogger()
	_, err := NewRepository(root, log).Load(model.Blackbox)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "loaded results", entry.Message)
	assert.Equal(t, 1, entry.Data["kept"])
	assert.Equal(t, 2, entry.Data["skipped"])
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "run.zip")
	writeZip(t, archive, map[string]string{
		"blackbox_fuzzing/a.json": bankRuns,
	})
	dest := filepath.Join(dir, "out")

	extracted, err := Extract(archive, dest)
	require.NoError(t, err)
	assert.True(t, extracted)

	set, err := NewRepository(dest, quietLogger()).Load(model.Blackbox)
	require.NoError(t, err)
	assert.Len(t, set.For("Bank"), 1)

	require.NoError(t, os.Remove(archive))
	extracted, err = Extract(archive, dest)
	require.NoError(t, err, "existing destination must skip extraction")
	assert.False(t, extracted)
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")
	writeZip(t, archive, map[string]string{"../escape.json": "{}"})
	dest := filepath.Join(dir, "out")

	_, err := Extract(archive, dest)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "escape.json"))
	assert.NoDirExists(t, dest)
}

func TestExtractMissingArchive(t *testing.T) {
	dir := t.TempDir()
	_, err := Extract(filepath.Join(dir, "none.zip"), filepath.Join(dir, "out"))
	assert.Error(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}
