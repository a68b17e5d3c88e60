// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// ReqType is the offload protocol variant a session was created for.
type ReqType int8

const (
	ReqTypeInvalid ReqType = iota
	ReqTypeSock
	ReqTypeSockCost
	ReqTypeRecom
	ReqTypeSnapIsol
	ReqTypeSerial
	ReqTypeSnapUID
	numReqTypes
)

var reqTypeNames = [...]string{
	ReqTypeInvalid:  "invalid",
	ReqTypeSock:     "sock",
	ReqTypeSockCost: "sockcost",
	ReqTypeRecom:    "recom",
	ReqTypeSnapIsol: "snapisol",
	ReqTypeSerial:   "serial",
	ReqTypeSnapUID:  "snapuid",
}

func (t ReqType) String() string {
	if t < 0 || t >= numReqTypes {
		return fmt.Sprintf("ReqType(%d)", int8(t))
	}
	return reqTypeNames[t]
}

// SafeValue implements redact.SafeValue.
func (ReqType) SafeValue() {}

// IsSorese returns whether t is a socket-based remote execution, i.e. one
// whose operations arrive over the network rather than from a local
// executor.
func (t ReqType) IsSorese() bool {
	return t > ReqTypeInvalid && t < numReqTypes
}

// ParseReqType returns the ReqType named s.
func ParseReqType(s string) (ReqType, error) {
	for i, name := range reqTypeNames {
		if name == s && ReqType(i) != ReqTypeInvalid {
			return ReqType(i), nil
		}
	}
	return ReqTypeInvalid, errors.Newf("unknown request type %q", s)
}

// OpKind is the kind of one operation in an offloaded transaction.
type OpKind int8

const (
	OpUnknown OpKind = iota
	OpUseDB
	OpInsert
	OpUpdate
	OpDelete
	OpQBlob
	OpUpdCols
	OpRecGenid
	OpSerial
	OpSchemaChange
	OpDbgLog
	OpDone
	OpDoneXerr
	numOpKinds
)

var opKindNames = [...]string{
	OpUnknown:      "unknown",
	OpUseDB:        "usedb",
	OpInsert:       "insert",
	OpUpdate:       "update",
	OpDelete:       "delete",
	OpQBlob:        "qblob",
	OpUpdCols:      "updcols",
	OpRecGenid:     "recgenid",
	OpSerial:       "serial",
	OpSchemaChange: "schemachange",
	OpDbgLog:       "dbglog",
	OpDone:         "done",
	OpDoneXerr:     "donexerr",
}

func (k OpKind) String() string {
	if k < 0 || k >= numOpKinds {
		return fmt.Sprintf("OpKind(%d)", int8(k))
	}
	return opKindNames[k]
}

// SafeValue implements redact.SafeValue.
func (OpKind) SafeValue() {}

// ParseOpKind returns the OpKind named s.
func ParseOpKind(s string) (OpKind, error) {
	for i, name := range opKindNames {
		if name == s && OpKind(i) != OpUnknown {
			return OpKind(i), nil
		}
	}
	return OpUnknown, errors.Newf("unknown operation kind %q", s)
}

// IsRowMutation returns whether the operation adds, updates or deletes a row.
func (k OpKind) IsRowMutation() bool {
	return k == OpInsert || k == OpUpdate || k == OpDelete
}

// IsDone returns whether the operation ends the stream of a session.
func (k OpKind) IsDone() bool {
	return k == OpDone || k == OpDoneXerr
}

func (k OpKind) needsTable() bool {
	switch k {
	case OpInsert, OpUpdate, OpDelete, OpQBlob, OpUpdCols, OpRecGenid:
		return true
	}
	return false
}

// ErrStat is the error status reported by the transaction-application
// component. It is carried through unchanged.
type ErrStat struct {
	Code int32
	Msg  string
}

// Err returns the status as an error, or nil if Code is zero.
func (e ErrStat) Err() error {
	if e.Code == 0 {
		return nil
	}
	return errors.Newf("rc %d: %s", e.Code, e.Msg)
}

// TerminateResult is the outcome of Session.TryTerminate.
type TerminateResult int8

const (
	TerminateInternalError TerminateResult = -1
	// TerminatedNow means the call moved the session to the terminated state.
	TerminatedNow TerminateResult = 0
	// AlreadyTerminal means the session had completed or had been terminated
	// before the call.
	AlreadyTerminal TerminateResult = 1
)

func (r TerminateResult) String() string {
	switch r {
	case TerminatedNow:
		return "terminated"
	case AlreadyTerminal:
		return "already-terminal"
	default:
		return "internal-error"
	}
}

// State is the externally visible lifecycle state of a session.
type State int8

const (
	StateCreated State = iota
	StateActive
	StateDispatched
	StateCompleted
	StateTerminated
	StateClosed
)

var stateNames = [...]string{
	StateCreated:    "created",
	StateActive:     "active",
	StateDispatched: "dispatched",
	StateCompleted:  "completed",
	StateTerminated: "terminated",
	StateClosed:     "closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int8(s))
	}
	return stateNames[s]
}

// SafeValue implements redact.SafeValue.
func (State) SafeValue() {}

// Terminal returns whether the session reached an outcome.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateTerminated || s == StateClosed
}

// Op is one operation of an offloaded transaction. The payload is opaque to
// this package.
type Op struct {
	Kind OpKind
	// Table and TableVersion are set on OpUseDB.
	Table        string
	TableVersion int64
	// Genid is the row version targeted by update, delete and recgenid.
	Genid   uint64
	Payload []byte
	// Xerr is set on OpDoneXerr.
	Xerr ErrStat
}

// SortKey orders the records of a session when reordering is enabled.
type SortKey struct {
	TblIdx int32
	Genid  uint64
	InsSeq uint64
}

func (k SortKey) String() string {
	return fmt.Sprintf("%d/%d/%d", k.TblIdx, k.Genid, k.InsSeq)
}

// Record is an operation as appended to the transaction log of a session.
type Record struct {
	Seq uint64
	Key SortKey
	Op  Op
}

var _ redact.SafeValue = ReqType(0)
var _ redact.SafeValue = OpKind(0)
var _ redact.SafeValue = State(0)
