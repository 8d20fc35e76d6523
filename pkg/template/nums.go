// NUMS point derivation.
package template

import (
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// NUMSPoint derives a "nothing up my sleeve" public key from arbitrary
// data: the data is hashed, and the digest re-hashed, until it is a valid
// secp256k1 x coordinate. The result is useful as a taproot internal key
// with no known discrete log, so the only way to spend is through the
// script path carrying the CTV covenant.
//
// The derivation is deterministic and total; it always terminates because
// roughly half of all 32-byte strings are valid x coordinates.
func NUMSPoint(data []byte) *secp256k1.PublicKey {
	digest := sha256.Sum256(data)
	candidate := make([]byte, 33)
	candidate[0] = secp256k1.PubKeyFormatCompressedEven
	for {
		copy(candidate[1:], digest[:])
		if key, err := secp256k1.ParsePubKey(candidate); err == nil {
			return key
		}
		digest = sha256.Sum256(digest[:])
	}
}
