// Package inmemdb provides an in-memory activity.Repository used in dev
// mode and tests; it mirrors the mongo repository's filtering semantics.
package inmemdb

import (
	"sync"

	"github.com/trezcool/idara/core/activity"
)

type table struct {
	recs  map[string]activity.Record
	order []string // insertion order, for stable ties
}

type DB struct {
	mutex     sync.RWMutex
	tables    map[string]*table // keyed by collection
	sequences map[string]int64
}

func NewDB() *DB {
	return &DB{
		tables:    make(map[string]*table),
		sequences: make(map[string]int64),
	}
}

var emptyTable = &table{}

func (db *DB) table(collection string) *table {
	tbl, ok := db.tables[collection]
	if !ok {
		tbl = &table{recs: make(map[string]activity.Record)}
		db.tables[collection] = tbl
	}
	return tbl
}

// lookup is the read-only variant of table; safe under a read lock.
func (db *DB) lookup(collection string) *table {
	if tbl, ok := db.tables[collection]; ok {
		return tbl
	}
	return emptyTable
}

// Reset drops all data; tests call this between cases.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.tables = make(map[string]*table)
	db.sequences = make(map[string]int64)
}
