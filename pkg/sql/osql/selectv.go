// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// SelectvEntry is a row read by a selectv, to be validated when the session
// is applied.
type SelectvEntry struct {
	Table        string
	TableVersion int64
	Genid        uint64
	// WriteLock is set when the session later updated or deleted the row.
	WriteLock bool
}

type selectvKey struct {
	table        string
	tableVersion int64
	genid        uint64
}

// CacheSelectv records that the session read the row genid of its current
// table. Recording the same row again is a no-op.
func (s *Session) CacheSelectv(genid uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.cacheSelectvLocked(genid)
	return err
}

func (s *Session) cacheSelectvLocked(genid uint64) (added bool, _ error) {
	rs := &s.mu.reorder
	if rs.table == "" {
		return false, ErrNoTable
	}
	k := selectvKey{table: rs.table, tableVersion: rs.tableVersion, genid: genid}
	if _, ok := s.mu.selectv[k]; ok {
		return false, nil
	}
	if s.mu.selectv == nil {
		s.mu.selectv = make(map[selectvKey]*SelectvEntry)
	}
	s.mu.selectv[k] = &SelectvEntry{Table: rs.table, TableVersion: rs.tableVersion, Genid: genid}
	return true, nil
}

// markSelectvWriteLockedLocked flags a cached row of the current table that
// the session is about to modify.
func (s *Session) markSelectvWriteLockedLocked(genid uint64) {
	if !s.mu.selectvWriteLock {
		return
	}
	rs := &s.mu.reorder
	if e, ok := s.mu.selectv[selectvKey{table: rs.table, tableVersion: rs.tableVersion, genid: genid}]; ok {
		e.WriteLock = true
	}
}

// ProcessSelectv drains the selectv cache, calling visit once for every
// distinct row. It stops at the first error returned by visit; the rows
// not yet visited are dropped with the rest of the cache.
func (s *Session) ProcessSelectv(visit func(SelectvEntry) error) error {
	s.mu.Lock()
	cache := s.mu.selectv
	s.mu.selectv = nil
	s.mu.Unlock()

	entries := make([]SelectvEntry, 0, len(cache))
	for _, e := range cache {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		if a.TableVersion != b.TableVersion {
			return a.TableVersion < b.TableVersion
		}
		return a.Genid < b.Genid
	})
	for _, e := range entries {
		if err := visit(e); err != nil {
			return errors.Wrapf(err, "validating selectv row %s/%d", e.Table, e.Genid)
		}
	}
	return nil
}
