// Sub-hash engine.
//
// Each sub-hash is a single pass of the pinned digest over the concatenated
// canonical encodings of one repeated field group, in transaction order:
//
//	sequencesHash  = H(sequence_0 || sequence_1 || ...)
//	outputsHash    = H(value_0 || scriptPubKey_0 || value_1 || ...)
//	scriptSigsHash = H(scriptSig_0 || scriptSig_1 || ...)   (optional)
//	outpointsHash  = H(txid_0 || vout_0 || txid_1 || ...)   (optional)
//
// A transaction with zero inputs or zero outputs still yields a defined
// sub-hash: the digest of the empty string. That behavior is part of the
// commitment semantics, not an error.
package ctv

import (
	"crypto/sha256"
	"fmt"
)

// HashFunc is the digest applied to every preimage in this package. It is
// passed explicitly through Engine rather than read from package state, so
// callers can substitute a different convention for testing or a future
// protocol revision.
type HashFunc func([]byte) [32]byte

// SingleSHA256 is the digest convention pinned by BIP-119: one application
// of SHA-256 for the top-level hash and every sub-hash. Not double SHA-256.
func SingleSHA256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// Engine computes sub-hashes and template hashes under a fixed digest
// convention. The zero value is not usable; use DefaultEngine or NewEngine.
type Engine struct {
	hash HashFunc
}

// DefaultEngine computes hashes under the BIP-119 convention.
var DefaultEngine = Engine{hash: SingleSHA256}

// NewEngine returns an Engine using h as its digest.
func NewEngine(h HashFunc) Engine {
	return Engine{hash: h}
}

// SubHashSet bundles the sub-hashes feeding one template hash computation.
// ScriptSigs is nil when the commitment mode leaves scriptSigs free. The
// outpoints sub-hash never feeds the template hash and is computed
// separately via OutpointsHash.
type SubHashSet struct {
	Sequences  [32]byte
	Outputs    [32]byte
	ScriptSigs *[32]byte
}

// SequencesHash hashes the sequence number of every input, in input order.
func (e Engine) SequencesHash(tx *TxView) [32]byte {
	buf := make([]byte, 0, len(tx.Inputs)*4)
	for _, in := range tx.Inputs {
		buf = AppendUint32(buf, in.Sequence)
	}
	return e.hash(buf)
}

// OutputsHash hashes the consensus encoding of every output (amount then
// length-prefixed scriptPubKey), in output order.
func (e Engine) OutputsHash(tx *TxView) [32]byte {
	buf := make([]byte, 0, 64)
	for _, out := range tx.Outputs {
		buf = AppendInt64(buf, out.Value)
		buf = AppendScript(buf, out.ScriptPubKey)
	}
	return e.hash(buf)
}

// ScriptSigsHash hashes the length-prefixed scriptSig of every input, in
// input order. The caller decides whether the result participates in the
// template hash; see Mode.
func (e Engine) ScriptSigsHash(tx *TxView) [32]byte {
	buf := make([]byte, 0, 64)
	for _, in := range tx.Inputs {
		buf = AppendScript(buf, in.ScriptSig)
	}
	return e.hash(buf)
}

// OutpointsHash hashes the previous outpoint (txid then vout) of every
// input, in input order. The template hash deliberately leaves prevouts
// free and no Mode folds this in; a covenant that must also pin its exact
// funding outpoints carries this digest alongside the template hash and
// checks the two independently.
func (e Engine) OutpointsHash(tx *TxView) [32]byte {
	buf := make([]byte, 0, len(tx.Inputs)*36)
	for _, in := range tx.Inputs {
		buf = append(buf, in.PrevTxID[:]...)
		buf = AppendUint32(buf, in.PrevVout)
	}
	return e.hash(buf)
}

// SubHashes computes the sub-hash bundle for tx under the given commitment
// mode. ModeWithScriptSigs fails with an InputError when no input carries
// scriptSig data, since there would be nothing backing the commitment. A
// mode outside the defined set is an InputError, never a silent fallback.
func (e Engine) SubHashes(tx *TxView, mode Mode) (SubHashSet, error) {
	set := SubHashSet{
		Sequences: e.SequencesHash(tx),
		Outputs:   e.OutputsHash(tx),
	}
	switch mode {
	case ModeDefault:
		// Commit scriptSigs only when at least one is non-empty,
		// matching DefaultCheckTemplateVerifyHash.
		if tx.hasScriptSigs() {
			h := e.ScriptSigsHash(tx)
			set.ScriptSigs = &h
		}
	case ModeWithScriptSigs:
		if !tx.hasScriptSigs() {
			return SubHashSet{}, &InputError{
				Code:    ErrMissingScriptSigs,
				Message: "scriptSigs commitment requested but every scriptSig is empty",
			}
		}
		h := e.ScriptSigsHash(tx)
		set.ScriptSigs = &h
	default:
		return SubHashSet{}, &InputError{
			Code:    ErrUnknownMode,
			Message: fmt.Sprintf("unknown commitment mode %d", mode),
		}
	}
	return set, nil
}
