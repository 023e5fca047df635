package db

import "github.com/dsjohal14/peoplepicker/internal/scope/record"

// Storage is the read side of a record store
type Storage interface {
	// All returns every record in store order
	All() []record.Record

	// Get looks a record up by id
	Get(id string) (record.Record, bool)

	// Count returns the number of records
	Count() int

	// Close releases the storage
	Close() error
}

var _ Storage = (*Store)(nil)
