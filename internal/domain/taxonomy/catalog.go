package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

// Catalog file names expected under the catalog directory.
const (
	categoriesFile = "categories.json"
	officesFile    = "offices.json"
	placesFile     = "places.json"
)

// Snapshot is one fully-loaded, immutable view of the reference data.
// Readers obtained a Snapshot keep seeing it even while a reload swaps in a
// newer one.
type Snapshot struct {
	categories   []*Category
	categoryByID map[string]*Category

	officeByID map[string]*Office

	// regionOffices maps canonical region name to its office list in
	// declaration order.
	regionOffices map[string][]*Office

	// placeAliases maps a lower-cased place name ("mumbai") to its canonical
	// region ("Maharashtra").
	placeAliases map[string]string
}

// Categories returns all categories in catalog declaration order. The slice
// must not be modified.
func (s *Snapshot) Categories() []*Category {
	return s.categories
}

// CategoryByID returns the category for id, or nil.
func (s *Snapshot) CategoryByID(id string) *Category {
	return s.categoryByID[id]
}

// OfficeByID returns the office for id. The unresolved sentinel is always
// known regardless of catalog contents.
func (s *Snapshot) OfficeByID(id string) *Office {
	if id == OfficeIDUnresolved {
		return UnresolvedOffice()
	}
	return s.officeByID[id]
}

// KnownOffice reports whether id names an office present in this snapshot.
func (s *Snapshot) KnownOffice(id string) bool {
	_, ok := s.officeByID[id]
	return ok
}

// RegionalOffice returns the first office in region serving categoryID, or
// nil when the region has no matching office.
func (s *Snapshot) RegionalOffice(region, categoryID string) *Office {
	for _, office := range s.regionOffices[region] {
		for _, c := range office.Categories {
			if c == categoryID {
				return office
			}
		}
	}
	return nil
}

// Regions returns the canonical region names with registered offices, sorted.
func (s *Snapshot) Regions() []string {
	out := make([]string, 0, len(s.regionOffices))
	for r := range s.regionOffices {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// CanonicalRegion resolves a free-form place mention ("kochi", "Mumbai",
// "maharashtra") to its canonical region name. ok is false for unknown input.
func (s *Snapshot) CanonicalRegion(place string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(place))
	if key == "" {
		return "", false
	}
	if region, ok := s.placeAliases[key]; ok {
		return region, true
	}
	// A canonical region name is always accepted, aliased or not.
	for region := range s.regionOffices {
		if strings.EqualFold(region, place) {
			return region, true
		}
	}
	return "", false
}

// PlaceAliases returns the alias table. The map must not be modified.
func (s *Snapshot) PlaceAliases() map[string]string {
	return s.placeAliases
}

type officesDocument struct {
	Central []*Office            `json:"central"`
	State   map[string][]*Office `json:"state"`
}

// LoadDir reads and cross-validates the three catalog files under dir,
// returning a fresh Snapshot. Nothing shared is touched; callers swap the
// result in atomically.
func LoadDir(dir string) (*Snapshot, error) {
	var categories []*Category
	if err := readJSONFile(filepath.Join(dir, categoriesFile), &categories); err != nil {
		return nil, err
	}
	var offices officesDocument
	if err := readJSONFile(filepath.Join(dir, officesFile), &offices); err != nil {
		return nil, err
	}
	placeAliases := map[string]string{}
	if err := readJSONFile(filepath.Join(dir, placesFile), &placeAliases); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		categories:    categories,
		categoryByID:  make(map[string]*Category, len(categories)),
		officeByID:    map[string]*Office{},
		regionOffices: map[string][]*Office{},
		placeAliases:  make(map[string]string, len(placeAliases)),
	}

	for _, cat := range categories {
		if cat.ID == "" {
			return nil, errors.New(errors.ErrCodeCatalogLoadFailed, "category with empty id")
		}
		if _, dup := snap.categoryByID[cat.ID]; dup {
			return nil, errors.Newf(errors.ErrCodeCatalogLoadFailed, "duplicate category id %q", cat.ID)
		}
		snap.categoryByID[cat.ID] = cat
	}
	if _, ok := snap.categoryByID[CategoryOther]; !ok {
		return nil, errors.Newf(errors.ErrCodeCatalogLoadFailed, "catalog must declare the %q category", CategoryOther)
	}

	for _, office := range offices.Central {
		office.Jurisdiction = JurisdictionCentral
		if err := snap.indexOffice(office); err != nil {
			return nil, err
		}
	}
	for region, list := range offices.State {
		for _, office := range list {
			office.Jurisdiction = JurisdictionState
			office.Region = region
			if err := snap.indexOffice(office); err != nil {
				return nil, err
			}
			snap.regionOffices[region] = append(snap.regionOffices[region], office)
		}
	}

	// Every central binding must resolve; a broken catalog is refused whole.
	for _, cat := range categories {
		if cat.CentralOfficeID == "" {
			continue
		}
		if _, ok := snap.officeByID[cat.CentralOfficeID]; !ok {
			return nil, errors.Newf(errors.ErrCodeCatalogLoadFailed,
				"category %q binds unknown office %q", cat.ID, cat.CentralOfficeID)
		}
	}

	for alias, region := range placeAliases {
		snap.placeAliases[strings.ToLower(strings.TrimSpace(alias))] = region
	}

	return snap, nil
}

func (s *Snapshot) indexOffice(office *Office) error {
	if office.ID == "" {
		return errors.New(errors.ErrCodeCatalogLoadFailed, "office with empty id")
	}
	if office.ID == OfficeIDUnresolved {
		return errors.Newf(errors.ErrCodeCatalogLoadFailed, "office id %q is reserved", OfficeIDUnresolved)
	}
	if _, dup := s.officeByID[office.ID]; dup {
		return errors.Newf(errors.ErrCodeCatalogLoadFailed, "duplicate office id %q", office.ID)
	}
	s.officeByID[office.ID] = office
	return nil
}

func readJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, fmt.Sprintf("failed to read %s", filepath.Base(path)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, fmt.Sprintf("failed to parse %s", filepath.Base(path)))
	}
	return nil
}

// Store hands out the current Snapshot and swaps in replacements atomically.
// Readers never observe a partially-loaded catalog: LoadDir builds the new
// snapshot off to the side and only a fully-validated result is published.
type Store struct {
	dir     string
	current atomic.Pointer[Snapshot]
	log     logging.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewStore loads dir and returns a Store serving that snapshot.
func NewStore(dir string, log logging.Logger) (*Store, error) {
	snap, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	s := &Store{dir: dir, log: log}
	s.current.Store(snap)
	return s, nil
}

// Snapshot returns the current catalog view.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload re-reads the catalog directory and swaps the snapshot on success.
// On failure the previous snapshot stays in place and the error is returned.
func (s *Store) Reload() error {
	snap, err := LoadDir(s.dir)
	if err != nil {
		return err
	}
	s.current.Store(snap)
	s.log.Info("catalog reloaded",
		logging.Int("categories", len(snap.categories)),
		logging.Int("offices", len(snap.officeByID)),
	)
	return nil
}

// Watch starts an fsnotify watcher on the catalog directory and reloads on
// every write. Reload failures are logged and the old snapshot is kept, so an
// editor mid-save never breaks in-flight requests. Call Close to stop.
func (s *Store) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to create catalog watcher")
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to watch catalog dir")
	}

	s.watcher = watcher
	s.done = make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := s.Reload(); err != nil {
					s.log.Warn("catalog reload failed, keeping previous snapshot",
						logging.String("file", event.Name), logging.Err(err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("catalog watcher error", logging.Err(err))
			case <-s.done:
				return
			}
		}
	}()
	return nil
}

// Close stops the watcher if one is running.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	close(s.done)
	return s.watcher.Close()
}
