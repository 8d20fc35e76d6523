// Package api provides the high-level public API for template hash
// operations.
//
// This is the main entry point for applications working with raw
// transaction bytes rather than pre-built views. It marshals untrusted
// encodings in (raw transactions via the btcd wire decoder, template
// contexts via JSON) and hands hashes, scripts and verification verdicts
// out:
//
//  1. DecodeTransaction - Projects raw transaction bytes into a view
//  2. TemplateHash / OutpointsHash - Commitments over a raw transaction
//  3. VerifyHash / VerifyScript - Recompute-and-compare verification
//  4. Summarize - Expands a template context into hash/script/address
//
// The core in pkg/ctv never touches raw bytes itself; everything here is
// the decoding collaborator it expects.
package api

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/wire"

	"github.com/suffix-labs/bitcoin-ctv/pkg/ctv"
	"github.com/suffix-labs/bitcoin-ctv/pkg/template"
)

// DecodeTransaction parses raw transaction bytes (with or without witness
// data) into the view the template hash algorithm consumes.
func DecodeTransaction(raw []byte) (*ctv.TxView, error) {
	var msg wire.MsgTx
	if err := msg.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("decoding transaction: %w", err)
	}
	return ctv.ViewFromMsgTx(&msg), nil
}

// DecodeTransactionHex is DecodeTransaction over a hex string.
func DecodeTransactionHex(hexTx string) (*ctv.TxView, error) {
	raw, err := hex.DecodeString(hexTx)
	if err != nil {
		return nil, fmt.Errorf("decoding transaction hex: %w", err)
	}
	return DecodeTransaction(raw)
}

// TemplateHash computes the template hash of a raw transaction at
// inputIndex under the given commitment mode.
func TemplateHash(rawTx []byte, mode ctv.Mode, inputIndex uint32) (ctv.TemplateHash, error) {
	view, err := DecodeTransaction(rawTx)
	if err != nil {
		return ctv.TemplateHash{}, err
	}
	return ctv.ComputeTemplateHash(view, mode, inputIndex)
}

// OutpointsHash computes the prevout commitment of a raw transaction. The
// template hash leaves prevouts free, so a covenant pinning its exact
// funding outpoints checks this digest alongside the template hash.
func OutpointsHash(rawTx []byte) ([32]byte, error) {
	view, err := DecodeTransaction(rawTx)
	if err != nil {
		return [32]byte{}, err
	}
	return ctv.DefaultEngine.OutpointsHash(view), nil
}

// VerifyHash reports whether a raw spending transaction reproduces target
// at inputIndex. Decode failures surface as errors; a well-formed
// transaction that simply does not match reads as false.
func VerifyHash(target ctv.TemplateHash, rawTx []byte, mode ctv.Mode, inputIndex uint32) (bool, error) {
	view, err := DecodeTransaction(rawTx)
	if err != nil {
		return false, err
	}
	return ctv.Verify(target, view, inputIndex, mode), nil
}

// VerifyScript is VerifyHash with the target taken from a locking script.
func VerifyScript(script []byte, rawTx []byte, mode ctv.Mode, inputIndex uint32) (bool, error) {
	view, err := DecodeTransaction(rawTx)
	if err != nil {
		return false, err
	}
	return ctv.VerifyScript(script, view, inputIndex, mode), nil
}

// CovenantSummary is the displayable expansion of a template context.
type CovenantSummary struct {
	Hash          string `json:"hash"`           // Template hash, lowercase hex
	LockingScript string `json:"locking_script"` // Locking script, hex
	Address       string `json:"address"`        // P2WSH address carrying the script
}

// Summarize expands a template context into its hash, locking script and
// address.
func Summarize(c *template.Context) (*CovenantSummary, error) {
	hash, err := c.Hash()
	if err != nil {
		return nil, err
	}
	script, err := c.LockingScript()
	if err != nil {
		return nil, err
	}
	addr, err := c.Address()
	if err != nil {
		return nil, err
	}
	return &CovenantSummary{
		Hash:          hash.Hex(),
		LockingScript: hex.EncodeToString(script),
		Address:       addr.EncodeAddress(),
	}, nil
}
