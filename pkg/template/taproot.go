// Taproot script-path construction.
//
// A taproot covenant commits the locking script as the only tapscript leaf
// under the context's internal key. Spending always takes the script path:
// the witness reveals the leaf script and a control block naming the
// internal key, and the leaf itself carries the CheckTemplateVerify check.
// Pair a NUMS internal key (see NUMSPoint) with this to make the script
// path the only spend path.
package template

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// internalKey parses the context's x-only internal key.
func (c *Context) internalKey() (*btcec.PublicKey, error) {
	if c.InternalKey == "" {
		return nil, &TemplateError{
			Code:    ErrInvalidInternalKey,
			Message: "taproot tx type requires an internal key",
		}
	}
	raw, err := hex.DecodeString(c.InternalKey)
	if err != nil {
		return nil, &TemplateError{
			Code:    ErrInvalidInternalKey,
			Message: fmt.Sprintf("decoding internal key %q", c.InternalKey),
			Cause:   err,
		}
	}
	key, err := schnorr.ParsePubKey(raw)
	if err != nil {
		return nil, &TemplateError{
			Code:    ErrInvalidInternalKey,
			Message: "internal key is not a valid x-only public key",
			Cause:   err,
		}
	}
	return key, nil
}

// taprootAddress derives the P2TR address whose script tree is the single
// leaf holding script.
func (c *Context) taprootAddress(script []byte, params *chaincfg.Params) (btcutil.Address, error) {
	key, err := c.internalKey()
	if err != nil {
		return nil, err
	}
	tree := txscript.AssembleTaprootScriptTree(txscript.NewBaseTapLeaf(script))
	root := tree.RootNode.TapHash()
	outputKey := txscript.ComputeTaprootOutputKey(key, root[:])
	addr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), params)
	if err != nil {
		return nil, fmt.Errorf("deriving P2TR address: %w", err)
	}
	return addr, nil
}

// controlBlock serializes the script-path control block revealing script
// as the tree's single leaf.
func (c *Context) controlBlock(script []byte) ([]byte, error) {
	key, err := c.internalKey()
	if err != nil {
		return nil, err
	}
	tree := txscript.AssembleTaprootScriptTree(txscript.NewBaseTapLeaf(script))
	cb := tree.LeafMerkleProofs[0].ToControlBlock(key)
	raw, err := cb.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing control block: %w", err)
	}
	return raw, nil
}
