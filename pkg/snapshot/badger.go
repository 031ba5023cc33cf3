package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerTracker persists fingerprint records in a Badger database so an
// incremental reindex survives process restarts.
type BadgerTracker struct {
	db *badger.DB
}

var keyPrefix = []byte("fp:")

// NewBadgerTracker opens (or creates) a tracker database at path.
func NewBadgerTracker(path string) (*BadgerTracker, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return &BadgerTracker{db: db}, nil
}

func trackerKey(skillID string) []byte {
	return append(append([]byte{}, keyPrefix...), skillID...)
}

func (t *BadgerTracker) HasChanged(skillID, fingerprint string) bool {
	rec, ok := t.Get(skillID)
	return !ok || rec.Fingerprint != fingerprint
}

func (t *BadgerTracker) Record(skillID, fingerprint string, indexedAt time.Time) error {
	data, err := json.Marshal(Record{Fingerprint: fingerprint, IndexedAt: indexedAt})
	if err != nil {
		return err
	}
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(trackerKey(skillID), data)
	})
}

func (t *BadgerTracker) Get(skillID string) (Record, bool) {
	var rec Record
	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(trackerKey(skillID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		// Missing and unreadable records are both treated as untracked;
		// the next reindex rewrites them.
		return Record{}, false
	}
	return rec, true
}

func (t *BadgerTracker) Remove(skillID string) error {
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(trackerKey(skillID))
	})
}

func (t *BadgerTracker) StaleIDs(currentIDs map[string]struct{}) []string {
	var stale []string
	_ = t.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: keyPrefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			id := string(it.Item().Key()[len(keyPrefix):])
			if _, ok := currentIDs[id]; !ok {
				stale = append(stale, id)
			}
		}
		return nil
	})
	return stale
}

func (t *BadgerTracker) Len() int {
	count := 0
	_ = t.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: keyPrefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}

func (t *BadgerTracker) LastIndexedAt() time.Time {
	var latest time.Time
	_ = t.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: keyPrefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err == nil && rec.IndexedAt.After(latest) {
				latest = rec.IndexedAt
			}
		}
		return nil
	})
	return latest
}

func (t *BadgerTracker) Close() error {
	return t.db.Close()
}
