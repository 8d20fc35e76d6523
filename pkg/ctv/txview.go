// Package ctv implements BIP-119 CheckTemplateVerify template hashes.
//
// A template hash is a deterministic commitment to the shape of a future
// spending transaction: its version, lock time, input and output structure,
// and sequence numbers. The exact inputs being spent (txid/vout) are left
// free until spend time, which is what makes the commitment useful for
// covenants, vaults and congestion control trees.
//
// This implementation corresponds to:
//   - BIP-119: https://github.com/bitcoin/bips/blob/master/bip-0119.mediawiki
//   - GetDefaultCheckTemplateVerifyHash in the reference implementation
//
// The package is pure: every operation is a function of its explicit
// arguments, performs no I/O, and retains nothing after returning. It is
// safe for unlimited concurrent use.
package ctv

import (
	"github.com/btcsuite/btcd/wire"
)

// TxIn is the per-input slice of a transaction that the template hash can
// commit to. PrevTxID/PrevVout only participate in the optional outpoints
// sub-hash; the standard commitment leaves them free.
type TxIn struct {
	PrevTxID  [32]byte // Previous output txid (internal byte order)
	PrevVout  uint32   // Previous output index
	ScriptSig []byte   // Unlocking script (usually empty pre-segwit-spend)
	Sequence  uint32   // Sequence number
}

// TxOut is the per-output slice of a transaction committed to by the
// outputs sub-hash.
type TxOut struct {
	Value        int64  // Amount in satoshis
	ScriptPubKey []byte // Locking script
}

// TxView is a read-only projection of a transaction exposing exactly the
// fields the template hash algorithm consumes. It is typically produced by
// an external decoder; ViewFromMsgTx adapts a btcd wire transaction. The
// package never mutates a view.
type TxView struct {
	Version  int32
	LockTime uint32
	Inputs   []TxIn
	Outputs  []TxOut
}

// ViewFromMsgTx projects a decoded wire transaction into a TxView.
//
// Witness data is intentionally not carried over: the template hash does
// not commit to witnesses.
func ViewFromMsgTx(tx *wire.MsgTx) *TxView {
	view := &TxView{
		Version:  tx.Version,
		LockTime: tx.LockTime,
		Inputs:   make([]TxIn, len(tx.TxIn)),
		Outputs:  make([]TxOut, len(tx.TxOut)),
	}
	for i, in := range tx.TxIn {
		view.Inputs[i] = TxIn{
			PrevVout:  in.PreviousOutPoint.Index,
			ScriptSig: in.SignatureScript,
			Sequence:  in.Sequence,
		}
		copy(view.Inputs[i].PrevTxID[:], in.PreviousOutPoint.Hash[:])
	}
	for i, out := range tx.TxOut {
		view.Outputs[i] = TxOut{
			Value:        out.Value,
			ScriptPubKey: out.PkScript,
		}
	}
	return view
}

// hasScriptSigs reports whether any input carries a non-empty scriptSig.
// The default commitment mode includes the scriptSigs sub-hash exactly in
// that case, mirroring the reference implementation.
func (v *TxView) hasScriptSigs() bool {
	for _, in := range v.Inputs {
		if len(in.ScriptSig) > 0 {
			return true
		}
	}
	return false
}
