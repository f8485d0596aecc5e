package metrics

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable, versioned record set for one dataset version.
// It keeps a private copy of the records and hands out copies, so no
// consumer can change what another one sees. A refresh builds a new
// Snapshot.
type Snapshot struct {
	version  uuid.UUID
	source   string
	loadedAt time.Time
	records  []StudentTermRecord
}

// NewSnapshot copies records into a new snapshot.
func NewSnapshot(source string, records []StudentTermRecord) *Snapshot {
	return &Snapshot{
		version:  uuid.New(),
		source:   source,
		loadedAt: time.Now().UTC(),
		records:  slices.Clone(records),
	}
}

// Version identifies this dataset version.
func (s *Snapshot) Version() uuid.UUID { return s.version }

// Source names where the records came from.
func (s *Snapshot) Source() string { return s.source }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of records.
func (s *Snapshot) Len() int { return len(s.records) }

// Records returns a copy of the records.
func (s *Snapshot) Records() []StudentTermRecord {
	return slices.Clone(s.records)
}
