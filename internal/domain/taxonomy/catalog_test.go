package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

const testCategories = `[
  {
    "id": "road_infrastructure",
    "name": "Roads",
    "central_office_id": "C004",
    "state_subject": true,
    "keywords": {"en": ["road", "pothole", "road repair"], "hi": ["सड़क"]},
    "default_questions": ["Q1", "Q2"]
  },
  {
    "id": "water",
    "name": "Water Supply",
    "central_office_id": "C012",
    "state_subject": true,
    "keywords": {"en": ["water", "pipeline"]},
    "default_questions": ["Q1"]
  },
  {
    "id": "other",
    "name": "General",
    "central_office_id": "C013",
    "keywords": {"en": []},
    "default_questions": ["Q1"]
  }
]`

const testOffices = `{
  "central": [
    {"id": "C004", "department": "Road Transport", "categories": ["road_infrastructure"]},
    {"id": "C012", "department": "Jal Shakti", "categories": ["water"]},
    {"id": "C013", "department": "DoPT", "categories": ["other"]}
  ],
  "state": {
    "Maharashtra": [
      {"id": "MH-PWD", "department": "PWD Maharashtra", "categories": ["road_infrastructure"]},
      {"id": "MH-WSSD", "department": "Water Supply Maharashtra", "categories": ["water"]}
    ],
    "Kerala": [
      {"id": "KL-KWA", "department": "Kerala Water Authority", "categories": ["water"]}
    ]
  }
}`

const testPlaces = `{"mumbai": "Maharashtra", "Kochi ": "Kerala"}`

func writeCatalogDir(t *testing.T, categories, offices, places string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, categoriesFile), []byte(categories), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, officesFile), []byte(offices), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, placesFile), []byte(places), 0o644))
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writeCatalogDir(t, testCategories, testOffices, testPlaces)

	snap, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Len(t, snap.Categories(), 3)
	assert.Equal(t, "road_infrastructure", snap.Categories()[0].ID)

	road := snap.CategoryByID("road_infrastructure")
	require.NotNil(t, road)
	assert.True(t, road.StateSubject)
	assert.Equal(t, "C004", road.CentralOfficeID)
	assert.Nil(t, snap.CategoryByID("missing"))

	office := snap.OfficeByID("MH-PWD")
	require.NotNil(t, office)
	assert.Equal(t, JurisdictionState, office.Jurisdiction)
	assert.Equal(t, "Maharashtra", office.Region)
	assert.True(t, snap.KnownOffice("C013"))
	assert.False(t, snap.KnownOffice("UNKNOWN"))
}

func TestLoadDirValidation(t *testing.T) {
	tests := []struct {
		name       string
		categories string
		offices    string
		places     string
		wantDetail string
	}{
		{
			name:       "missing other category",
			categories: `[{"id": "water", "central_office_id": "C012"}]`,
			offices:    testOffices,
			places:     testPlaces,
		},
		{
			name:       "duplicate category id",
			categories: `[{"id": "other"}, {"id": "other"}]`,
			offices:    testOffices,
			places:     testPlaces,
		},
		{
			name:       "dangling central binding",
			categories: `[{"id": "other", "central_office_id": "C099"}]`,
			offices:    testOffices,
			places:     testPlaces,
		},
		{
			name:       "duplicate office id",
			categories: testCategories,
			offices:    `{"central": [{"id": "C004"}, {"id": "C004"}, {"id": "C012"}, {"id": "C013"}]}`,
			places:     testPlaces,
		},
		{
			name:       "reserved office id",
			categories: testCategories,
			offices:    `{"central": [{"id": "UNRESOLVED"}, {"id": "C004"}, {"id": "C012"}, {"id": "C013"}]}`,
			places:     testPlaces,
		},
		{
			name:       "malformed json",
			categories: `[{`,
			offices:    testOffices,
			places:     testPlaces,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeCatalogDir(t, tt.categories, tt.offices, tt.places)
			_, err := LoadDir(dir)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogLoadFailed))
		})
	}
}

func TestLoadDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogLoadFailed))
}

func TestSnapshotOfficeSentinel(t *testing.T) {
	dir := writeCatalogDir(t, testCategories, testOffices, testPlaces)
	snap, err := LoadDir(dir)
	require.NoError(t, err)

	office := snap.OfficeByID(OfficeIDUnresolved)
	require.NotNil(t, office)
	assert.True(t, office.Unresolved())
	assert.False(t, snap.KnownOffice(OfficeIDUnresolved))
}

func TestSnapshotRegionalOffice(t *testing.T) {
	dir := writeCatalogDir(t, testCategories, testOffices, testPlaces)
	snap, err := LoadDir(dir)
	require.NoError(t, err)

	office := snap.RegionalOffice("Maharashtra", "road_infrastructure")
	require.NotNil(t, office)
	assert.Equal(t, "MH-PWD", office.ID)

	assert.Nil(t, snap.RegionalOffice("Kerala", "road_infrastructure"))
	assert.Nil(t, snap.RegionalOffice("Unknown", "water"))
}

func TestSnapshotCanonicalRegion(t *testing.T) {
	dir := writeCatalogDir(t, testCategories, testOffices, testPlaces)
	snap, err := LoadDir(dir)
	require.NoError(t, err)

	region, ok := snap.CanonicalRegion("Mumbai")
	require.True(t, ok)
	assert.Equal(t, "Maharashtra", region)

	// Alias keys are normalised at load time.
	region, ok = snap.CanonicalRegion("  kochi ")
	require.True(t, ok)
	assert.Equal(t, "Kerala", region)

	// Canonical region names resolve without an alias entry.
	region, ok = snap.CanonicalRegion("maharashtra")
	require.True(t, ok)
	assert.Equal(t, "Maharashtra", region)

	_, ok = snap.CanonicalRegion("atlantis")
	assert.False(t, ok)
	_, ok = snap.CanonicalRegion("")
	assert.False(t, ok)
}

func TestSnapshotRegions(t *testing.T) {
	dir := writeCatalogDir(t, testCategories, testOffices, testPlaces)
	snap, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"Kerala", "Maharashtra"}, snap.Regions())
}

func TestStoreReload(t *testing.T) {
	dir := writeCatalogDir(t, testCategories, testOffices, testPlaces)

	store, err := NewStore(dir, logging.NewNop())
	require.NoError(t, err)
	defer store.Close()

	before := store.Snapshot()
	require.NotNil(t, before.CategoryByID("water"))

	// A broken file must not disturb the published snapshot.
	require.NoError(t, os.WriteFile(filepath.Join(dir, categoriesFile), []byte("not json"), 0o644))
	require.Error(t, store.Reload())
	assert.Same(t, before, store.Snapshot())

	// A valid rewrite swaps in a new snapshot.
	require.NoError(t, os.WriteFile(filepath.Join(dir, categoriesFile), []byte(testCategories), 0o644))
	require.NoError(t, store.Reload())
	assert.NotSame(t, before, store.Snapshot())
	require.NotNil(t, store.Snapshot().CategoryByID("water"))
}
