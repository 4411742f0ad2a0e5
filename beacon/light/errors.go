// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package light implements the altair/capella light client sync protocol:
// the LightClientStore state machine, update validation, the update
// comparator and the force-update timeout.
package light

import "errors"

// ErrValidation is the sentinel wrapped by every ValidationError,
// allowing callers to use errors.Is(err, light.ErrValidation) regardless
// of Kind.
var ErrValidation = errors.New("light client update validation failed")

// Kind enumerates the reasons validate_light_client_update can reject an
// update (§7 ValidationError), in the order the checks run, except
// KindInvalidExecutionPayload, which is checked after the merkle branches
// and before the participant count.
type Kind int

const (
	// KindBadFinalityBranchLength: finality branch present but its
	// length doesn't match the fixed depth required for its update type.
	KindBadFinalityBranchLength Kind = iota
	// KindBadNextCommitteeBranchLength: next sync committee branch
	// present but its length doesn't match the fixed depth.
	KindBadNextCommitteeBranchLength
	// KindFutureSignatureSlot: signature_slot is newer than the caller's
	// current slot.
	KindFutureSignatureSlot
	// KindStaleSignatureSlot: signature_slot <= attested_header.slot.
	KindStaleSignatureSlot
	// KindAttestedNotNewer: attested_header.slot < finalized_header.slot.
	KindAttestedNotNewer
	// KindUnknownCommitteePeriod: the update's signature period is
	// neither the store's current period nor, when the next committee is
	// already known, the store's next period.
	KindUnknownCommitteePeriod
	// KindNotRelevant: the update neither advances the finalized header
	// nor carries a next sync committee the store doesn't already know.
	KindNotRelevant
	// KindNextCommitteeMismatch: the update's next sync committee root
	// conflicts with one already known for that period.
	KindNextCommitteeMismatch
	// KindInvalidFinalityBranch: finality merkle branch check failed.
	KindInvalidFinalityBranch
	// KindInvalidNextCommitteeBranch: next sync committee merkle branch
	// check failed.
	KindInvalidNextCommitteeBranch
	// KindInsufficientParticipants: sync_aggregate has fewer than
	// MIN_SYNC_COMMITTEE_PARTICIPANTS bits set.
	KindInsufficientParticipants
	// KindUnknownSigningCommittee: the signing sync committee (current
	// or next, as determined by signature_slot's period) is not known
	// to the store.
	KindUnknownSigningCommittee
	// KindBadSignature: the aggregate BLS signature does not verify.
	KindBadSignature
	// KindInvalidExecutionPayload: a header's execution payload branch
	// does not verify, or is absent/present when the fork schedule
	// requires the opposite (§4.3).
	KindInvalidExecutionPayload
)

func (k Kind) String() string {
	switch k {
	case KindBadFinalityBranchLength:
		return "bad finality branch length"
	case KindBadNextCommitteeBranchLength:
		return "bad next sync committee branch length"
	case KindFutureSignatureSlot:
		return "signature slot newer than current slot"
	case KindStaleSignatureSlot:
		return "signature slot not newer than attested header"
	case KindAttestedNotNewer:
		return "attested header older than finalized header"
	case KindUnknownCommitteePeriod:
		return "update period not adjacent to store"
	case KindNotRelevant:
		return "update not relevant to store"
	case KindNextCommitteeMismatch:
		return "next sync committee root mismatch"
	case KindInvalidFinalityBranch:
		return "invalid finality merkle branch"
	case KindInvalidNextCommitteeBranch:
		return "invalid next sync committee merkle branch"
	case KindInsufficientParticipants:
		return "insufficient sync committee participants"
	case KindUnknownSigningCommittee:
		return "unknown signing sync committee"
	case KindBadSignature:
		return "invalid sync committee signature"
	case KindInvalidExecutionPayload:
		return "invalid execution payload proof"
	default:
		return "unknown validation error"
	}
}

// ValidationError reports why validate_light_client_update rejected an
// update, carrying enough structure for callers to branch on Kind
// without string matching.
type ValidationError struct {
	Kind Kind
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return "light client: " + e.Kind.String() + ": " + e.Msg
	}
	return "light client: " + e.Kind.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(kind Kind, msg string) error {
	return &ValidationError{Kind: kind, Msg: msg}
}
