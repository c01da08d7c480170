package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tomhendersonfl/conda/pkg/dist"
	"github.com/tomhendersonfl/conda/pkg/fs"
)

// MetaDirName is the name of the per-prefix metadata directory.
const MetaDirName = "conda-meta"

// Store is the linked-metadata store: a process-lifetime, per-prefix cache
// of conda-meta/*.json records, loaded lazily on first access to a given
// prefix.
type Store struct {
	mu       sync.Mutex
	byPrefix map[string]map[dist.Key]*Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byPrefix: make(map[string]map[dist.Key]*Record)}
}

// metaDir returns <prefix>/conda-meta.
func metaDir(prefix string) string {
	return filepath.Join(prefix, MetaDirName)
}

// Linked returns the map of distribution key to record currently linked
// into prefix, loading it from disk on first access for that prefix.
func (s *Store) Linked(prefix string) (map[dist.Key]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records, ok := s.byPrefix[prefix]; ok {
		return records, nil
	}

	records := make(map[dist.Key]*Record)
	entries, err := os.ReadDir(metaDir(prefix))
	if err != nil {
		if os.IsNotExist(err) {
			s.byPrefix[prefix] = records
			return records, nil
		}
		return nil, errors.Wrap(err, "unable to list conda-meta directory")
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		tail := strings.TrimSuffix(entry.Name(), ".json")
		record, err := s.load(prefix, tail)
		if err != nil {
			return nil, err
		}
		key := dist.WithChannel(record.SChannel, tail)
		records[key] = record
	}

	s.byPrefix[prefix] = records
	return records, nil
}

// load reads <prefix>/conda-meta/<tail>.json directly from disk.
func (s *Store) load(prefix, tail string) (*Record, error) {
	path := filepath.Join(metaDir(prefix), tail+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read metadata record %s", path)
	}
	record, err := unmarshalRecord(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse metadata record %s", path)
	}
	if record.SChannel == "" {
		record.SChannel = dist.ClassifyURL(record.URL)
	}
	return record, nil
}

// Load reads and caches the record for d in prefix, deriving schannel from
// the record's url field via the channel classifier when the record itself
// does not already carry one.
func (s *Store) Load(prefix string, d dist.Key) (*Record, error) {
	record, err := s.load(prefix, d.Tail())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byPrefix[prefix] == nil {
		s.byPrefix[prefix] = make(map[dist.Key]*Record)
	}
	s.byPrefix[prefix][d] = record
	return record, nil
}

// LoadMeta is a convenience accessor returning the cached record for d in
// prefix, loading the store for prefix first if necessary.
func (s *Store) LoadMeta(prefix string, d dist.Key) (*Record, bool, error) {
	records, err := s.Linked(prefix)
	if err != nil {
		return nil, false, err
	}
	record, ok := records[d]
	return record, ok, nil
}

// Save persists record as <prefix>/conda-meta/<tail>.json, pretty-printed
// with sorted keys, and updates the in-memory store.
func (s *Store) Save(prefix string, d dist.Key, record *Record) error {
	path := filepath.Join(metaDir(prefix), d.Tail()+".json")
	if err := fs.EnsureParentDirectory(path, 0755); err != nil {
		return errors.Wrap(err, "unable to create conda-meta directory")
	}

	data, err := marshalRecord(record)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "unable to write metadata record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byPrefix[prefix] == nil {
		s.byPrefix[prefix] = make(map[dist.Key]*Record)
	}
	s.byPrefix[prefix][d] = record
	return nil
}

// Delete drops d from the in-memory store for prefix and, if removeFile is
// true, unlinks its JSON file on disk.
func (s *Store) Delete(prefix string, d dist.Key, removeFile bool) error {
	s.mu.Lock()
	if records, ok := s.byPrefix[prefix]; ok {
		delete(records, d)
	}
	s.mu.Unlock()

	if !removeFile {
		return nil
	}
	path := filepath.Join(metaDir(prefix), d.Tail()+".json")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "unable to remove metadata record")
	}
	return nil
}

