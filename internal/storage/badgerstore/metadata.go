package badgerstore

import (
	"errors"

	"github.com/huntline/huntline/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// CurrentSchemaVersion is bumped whenever a JobRecord field is added,
// removed, or reinterpreted in a way that needs a read-migration.
const CurrentSchemaVersion = 1

type metadataRecord struct {
	Key           string `badgerhold:"key"`
	SchemaVersion int
}

const metadataKey = "schema"

// EnsureSchema reads the stored schema version, read-migrating forward to
// CurrentSchemaVersion on first access if it is stale, per the forward-only
// upgrade policy in §6.
func (s *Store) EnsureSchema() error {
	var meta metadataRecord
	err := s.db.Get(metadataKey, &meta)
	if errors.Is(err, badgerhold.ErrNotFound) {
		meta = metadataRecord{Key: metadataKey, SchemaVersion: CurrentSchemaVersion}
		if err := s.db.Insert(metadataKey, meta); err != nil {
			return common.Transient("Store.EnsureSchema", err)
		}
		return nil
	}
	if err != nil {
		return common.Transient("Store.EnsureSchema", err)
	}
	if meta.SchemaVersion < CurrentSchemaVersion {
		meta.SchemaVersion = CurrentSchemaVersion
		if err := s.db.Update(metadataKey, meta); err != nil {
			return common.Transient("Store.EnsureSchema", err)
		}
	}
	return nil
}
