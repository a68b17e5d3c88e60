// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

// reorderState tracks the current table and the rows touched by a session
// to derive the sort key of each record.
type reorderState struct {
	on bool

	table        string
	tableVersion int64
	tblIdx       int32
	// tables assigns an index to each table in order of first use.
	tables map[string]int32

	lastGenid uint64
	insSeq    uint64
	lastIsIns bool
	lastKey   SortKey
}

func (r *reorderState) useTable(name string, version int64) {
	if r.tables == nil {
		r.tables = make(map[string]int32)
	}
	idx, ok := r.tables[name]
	if !ok {
		idx = int32(len(r.tables))
		r.tables[name] = idx
	}
	r.table = name
	r.tableVersion = version
	r.tblIdx = idx
}

// key returns the sort key of op, which has been validated against the
// current table.
func (r *reorderState) key(op *Op) SortKey {
	switch op.Kind {
	case OpInsert:
		r.insSeq++
		r.lastIsIns = true
		r.lastKey = SortKey{TblIdx: r.tblIdx, InsSeq: r.insSeq}
	case OpUpdate, OpDelete:
		r.lastGenid = op.Genid
		r.lastIsIns = false
		r.lastKey = SortKey{TblIdx: r.tblIdx, Genid: op.Genid}
	case OpQBlob, OpUpdCols:
		// Blobs and column lists belong to the preceding row operation.
	default:
		return SortKey{}
	}
	if !r.on {
		return SortKey{}
	}
	return r.lastKey
}
