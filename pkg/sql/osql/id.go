// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"github.com/cockroachdb/redact"
	"github.com/google/uuid"
)

// UseUUID is the reserved request id telling that the UUID, not the numeric
// request id, names the session.
const UseUUID uint64 = 1

// ID names one offload session for its lifetime.
type ID struct {
	RqID uint64
	UUID uuid.UUID
}

// MakeUUIDID returns an ID matched on u.
func MakeUUIDID(u uuid.UUID) ID {
	return ID{RqID: UseUUID, UUID: u}
}

// idKey is the registry key of an ID. The field that does not take part in
// matching is zeroed.
type idKey struct {
	rqid uint64
	uuid uuid.UUID
}

func (id ID) key() idKey {
	if id.RqID == UseUUID {
		return idKey{rqid: UseUUID, uuid: id.UUID}
	}
	return idKey{rqid: id.RqID}
}

func (id ID) valid() bool {
	if id.RqID == UseUUID {
		return id.UUID != uuid.Nil
	}
	return id.RqID != 0
}

// SafeFormat implements redact.SafeFormatter.
func (id ID) SafeFormat(w redact.SafePrinter, _ rune) {
	if id.RqID == UseUUID {
		w.SafeString(redact.SafeString(id.UUID.String()))
		return
	}
	w.SafeUint(redact.SafeUint(id.RqID))
}

func (id ID) String() string { return redact.StringWithoutMarkers(id) }
