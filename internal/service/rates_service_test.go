package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"customs-web/internal/rates"
	"customs-web/internal/repository"
	"customs-web/internal/utils"
)

func newOfflineRatesService(ratesPath string) *RatesService {
	return NewRatesService(repository.NewRatesRepository(nil), ratesPath, utils.GetLogger())
}

func TestActiveDocumentFallsBackToDefaults(t *testing.T) {
	svc := newOfflineRatesService("")

	doc, err := svc.ActiveDocument()
	require.NoError(t, err)
	assert.Equal(t, "2025.1", doc.Version)
	assert.Equal(t, float64(10), doc.VATRatePercent)
}

func TestActiveDocumentLoadsConfiguredFile(t *testing.T) {
	doc := rates.DefaultDocument()
	doc.Version = "2025.2-draft"
	doc.VATRatePercent = 12

	raw, err := yaml.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	svc := newOfflineRatesService(path)

	got, err := svc.ActiveDocument()
	require.NoError(t, err)
	assert.Equal(t, "2025.2-draft", got.Version)
	assert.Equal(t, float64(12), got.VATRatePercent)
}

func TestSnapshotByVersionMatchesActive(t *testing.T) {
	svc := newOfflineRatesService("")

	snap, err := svc.SnapshotByVersion("2025.1")
	require.NoError(t, err)
	assert.Equal(t, "2025.1", snap.Version)

	snap, err = svc.SnapshotByVersion("")
	require.NoError(t, err)
	assert.Equal(t, "2025.1", snap.Version)
}

func TestSnapshotByVersionUnknown(t *testing.T) {
	svc := newOfflineRatesService("")

	_, err := svc.SnapshotByVersion("2019.7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"2019.7" not found`)
}
