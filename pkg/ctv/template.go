// Template hash computer.
//
// The top-level digest is assembled over the transaction-level fields and
// the sub-hashes in a fixed order:
//
//	H( version || locktime || [scriptSigsHash] ||
//	   u32(inputCount) || sequencesHash ||
//	   u32(outputCount) || outputsHash || u32(inputIndex) )
//
// The order and widths come from BIP-119 and must not change: any
// permutation produces a plausible-looking but non-interoperable digest.
// Note the input and output counts are fixed 4-byte little-endian values
// here, not CompactSize, again per BIP-119.
package ctv

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// HashSize is the byte length of a template hash.
const HashSize = 32

// TemplateHash is the 32-byte CheckTemplateVerify commitment.
type TemplateHash [HashSize]byte

// NewTemplateHash copies b into a TemplateHash. b must be exactly 32 bytes.
func NewTemplateHash(b []byte) (TemplateHash, error) {
	var h TemplateHash
	if len(b) != HashSize {
		return h, &InputError{
			Code:    ErrInvalidHashLength,
			Message: fmt.Sprintf("template hash must be %d bytes, got %d", HashSize, len(b)),
		}
	}
	copy(h[:], b)
	return h, nil
}

// ParseTemplateHash decodes a 64-character hex string into a TemplateHash.
func ParseTemplateHash(s string) (TemplateHash, error) {
	var h TemplateHash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("decoding template hash: %w", err)
	}
	return NewTemplateHash(b)
}

// Hex returns the lowercase hex rendering of the hash.
func (h TemplateHash) Hex() string {
	return hex.EncodeToString(h[:])
}

func (h TemplateHash) String() string {
	return h.Hex()
}

// Equal reports whether two hashes hold identical bytes. The comparison is
// constant-time; the hash is not secret, but its whole job is equality
// checking, so the comparison cost should not depend on where bytes differ.
func (h TemplateHash) Equal(other TemplateHash) bool {
	return subtle.ConstantTimeCompare(h[:], other[:]) == 1
}

// Mode selects which optional field groups the template hash commits to.
// It is a closed set: the two defined modes are the only valid values, and
// every computation rejects anything else with an InputError.
type Mode int

const (
	// ModeDefault commits to version, locktime, input count, sequences,
	// output count, outputs and the input index. The scriptSigs hash is
	// included if and only if some input carries a non-empty scriptSig,
	// which is the reference DefaultCheckTemplateVerifyHash behavior.
	ModeDefault Mode = iota

	// ModeWithScriptSigs additionally requires and always commits the
	// scriptSigs hash. Computations under this mode fail with an
	// InputError when no scriptSig data was supplied.
	ModeWithScriptSigs
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeWithScriptSigs:
		return "with-scriptsigs"
	default:
		return "unknown"
	}
}

// TemplateHash computes the BIP-119 commitment for spending tx at
// inputIndex under the given mode.
//
// inputIndex is the position within the *spending* transaction of the input
// carrying this commitment, so the same template can be referenced by
// several inputs of a larger transaction. An index past the end of the
// inputs yields an InputError before any hashing happens.
func (e Engine) TemplateHash(tx *TxView, mode Mode, inputIndex uint32) (TemplateHash, error) {
	if uint64(inputIndex) >= uint64(len(tx.Inputs)) {
		return TemplateHash{}, &InputError{
			Code: ErrIndexOutOfRange,
			Message: fmt.Sprintf("input index %d out of range for %d input(s)",
				inputIndex, len(tx.Inputs)),
		}
	}

	sub, err := e.SubHashes(tx, mode)
	if err != nil {
		return TemplateHash{}, err
	}

	buf := make([]byte, 0, 4+4+32+4+32+4+32+4)
	buf = AppendInt32(buf, tx.Version)
	buf = AppendUint32(buf, tx.LockTime)
	if sub.ScriptSigs != nil {
		buf = append(buf, sub.ScriptSigs[:]...)
	}
	buf = AppendUint32(buf, uint32(len(tx.Inputs)))
	buf = append(buf, sub.Sequences[:]...)
	buf = AppendUint32(buf, uint32(len(tx.Outputs)))
	buf = append(buf, sub.Outputs[:]...)
	buf = AppendUint32(buf, inputIndex)

	return TemplateHash(e.hash(buf)), nil
}

// ComputeTemplateHash computes the commitment under the BIP-119 digest
// convention. Shorthand for DefaultEngine.TemplateHash.
func ComputeTemplateHash(tx *TxView, mode Mode, inputIndex uint32) (TemplateHash, error) {
	return DefaultEngine.TemplateHash(tx, mode, inputIndex)
}
