// Spending transaction construction.
package template

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// SpendingTransactions builds the transaction chain that satisfies this
// covenant, starting from the funding outpoint (txid, vout).
//
// The first transaction spends the funding output with the template's first
// sequence number and a witness revealing the locking script (for taproot,
// plus the control block for its leaf). If the template's first output is a
// nested tree, the chain continues: each child spends output zero of its
// parent, in order. Transactions are returned ready for broadcast, parents
// before children.
func (c *Context) SpendingTransactions(txid *chainhash.Hash, vout uint32) ([]*wire.MsgTx, error) {
	params, err := c.params()
	if err != nil {
		return nil, err
	}
	if len(c.Fields.Sequences) == 0 {
		return nil, &TemplateError{
			Code:    ErrMissingSequence,
			Message: "template has no sequences to spend with",
		}
	}

	locking, err := c.LockingScript()
	if err != nil {
		return nil, err
	}
	witness, err := c.witness(locking)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(c.Fields.Version)
	tx.LockTime = c.Fields.LockTime
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: *txid, Index: vout},
		Sequence:         c.Fields.Sequences[0],
		Witness:          witness,
	})
	for i := range c.Fields.Outputs {
		out := &c.Fields.Outputs[i]
		pkScript, err := out.pkScript(params)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		tx.AddTxOut(&wire.TxOut{Value: out.amount(), PkScript: pkScript})
	}

	transactions := []*wire.MsgTx{tx}

	// A tree in the first output position continues the chain: the child
	// covenant spends output zero of this transaction.
	if len(c.Fields.Outputs) > 0 && c.Fields.Outputs[0].Tree != nil {
		sub := c.Fields.Outputs[0].Tree
		if sub.Network == "" {
			inherited := *sub
			inherited.Network = params.Name
			sub = &inherited
		}
		childTxid := tx.TxHash()
		children, err := sub.SpendingTransactions(&childTxid, 0)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, children...)
	}

	return transactions, nil
}

// witness builds the script-reveal witness for the context's tx type. The
// segwit stack is just the witness script; taproot adds the control block.
func (c *Context) witness(locking []byte) (wire.TxWitness, error) {
	if c.txType() != TxTypeTaproot {
		return wire.TxWitness{locking}, nil
	}
	cb, err := c.controlBlock(locking)
	if err != nil {
		return nil, err
	}
	return wire.TxWitness{locking, cb}, nil
}
