// Package template builds CheckTemplateVerify covenants from declarative
// descriptions.
//
// A Context describes the future spending transaction (version, locktime,
// sequences, outputs) plus the network it lives on. From that description
// the package derives the template hash, the locking script, the address
// carrying it (P2WSH, or P2TR with the script as the sole tapleaf), and
// the chain of spending transactions that satisfy the covenant. Nested
// templates form a congestion control tree, where each child template is
// committed as output zero of its parent.
//
// The heavy lifting happens in pkg/ctv; this package only expands the
// declarative form into a transaction view and back into wire transactions.
package template

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/suffix-labs/bitcoin-ctv/pkg/ctv"
)

// Output is one committed output of a template. Exactly one of Address,
// Data or Tree must be set:
//
//   - Address sends Amount satoshis to a Bitcoin address.
//   - Data commits an OP_RETURN output carrying the literal bytes (amount
//     is always zero).
//   - Tree commits Amount satoshis to a nested template, building a
//     covenant tree.
type Output struct {
	Address string   `json:"address,omitempty"`
	Data    string   `json:"data,omitempty"`
	Tree    *Context `json:"tree,omitempty"`
	Amount  int64    `json:"amount,omitempty"`
}

// Fields is the committed shape of the spending transaction.
type Fields struct {
	Version    int32    `json:"version"`
	LockTime   uint32   `json:"locktime"`
	Sequences  []uint32 `json:"sequences"`
	Outputs    []Output `json:"outputs"`
	InputIndex uint32   `json:"input_index"`
}

// Transaction types a covenant can be locked under.
const (
	// TxTypeSegwit locks the covenant behind a P2WSH output whose
	// witness script is the locking script. The default.
	TxTypeSegwit = "segwit"

	// TxTypeTaproot locks the covenant behind a P2TR output committing
	// to the locking script as the sole tapscript leaf. Requires an
	// internal key; a NUMS point disables the key-path spend entirely.
	TxTypeTaproot = "taproot"
)

// Context is a template bound to a network. It is the main interface type
// for building CTV covenants declaratively.
//
// TxType selects whether the covenant address is P2WSH or P2TR; an empty
// TxType means segwit. InternalKey is the x-only taproot internal key in
// hex and is required for (and exclusive to) the taproot type.
type Context struct {
	Network     string `json:"network"`
	TxType      string `json:"tx_type,omitempty"`
	InternalKey string `json:"internal_key,omitempty"`
	Fields      Fields `json:"fields"`
}

// FromJSON decodes and validates a Context.
func FromJSON(data []byte) (*Context, error) {
	var c Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding template context: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ToJSON encodes the context for storage or interchange.
func (c *Context) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

func (c *Context) validate() error {
	if _, err := c.params(); err != nil {
		return err
	}
	switch c.txType() {
	case TxTypeSegwit:
		if c.InternalKey != "" {
			return &TemplateError{
				Code:    ErrInvalidInternalKey,
				Message: "internal key is only valid with the taproot tx type",
			}
		}
	case TxTypeTaproot:
		if _, err := c.internalKey(); err != nil {
			return err
		}
	default:
		return &TemplateError{
			Code:    ErrInvalidTxType,
			Message: fmt.Sprintf("unknown tx type %q", c.TxType),
		}
	}
	for i := range c.Fields.Outputs {
		if err := c.Fields.Outputs[i].validate(); err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
	}
	return nil
}

// params resolves the context's network name.
func (c *Context) params() (*chaincfg.Params, error) {
	switch c.Network {
	case "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	default:
		return nil, &TemplateError{
			Code:    ErrUnknownNetwork,
			Message: fmt.Sprintf("unknown network %q", c.Network),
		}
	}
}

// TxView expands the template into the transaction view whose hash the
// covenant commits to: one input per sequence (prevouts left free,
// scriptSigs empty) and the expanded outputs.
func (c *Context) TxView() (*ctv.TxView, error) {
	params, err := c.params()
	if err != nil {
		return nil, err
	}

	view := &ctv.TxView{
		Version:  c.Fields.Version,
		LockTime: c.Fields.LockTime,
		Inputs:   make([]ctv.TxIn, len(c.Fields.Sequences)),
		Outputs:  make([]ctv.TxOut, len(c.Fields.Outputs)),
	}
	for i, seq := range c.Fields.Sequences {
		view.Inputs[i] = ctv.TxIn{Sequence: seq}
	}
	for i := range c.Fields.Outputs {
		out := &c.Fields.Outputs[i]
		pkScript, err := out.pkScript(params)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		view.Outputs[i] = ctv.TxOut{Value: out.amount(), ScriptPubKey: pkScript}
	}
	return view, nil
}

// Hash computes the template hash this context commits to.
func (c *Context) Hash() (ctv.TemplateHash, error) {
	view, err := c.TxView()
	if err != nil {
		return ctv.TemplateHash{}, err
	}
	// Template-built transactions carry no scriptSigs, so the default
	// commitment mode is always the right one here.
	return ctv.ComputeTemplateHash(view, ctv.ModeDefault, c.Fields.InputIndex)
}

// LockingScript returns the CheckTemplateVerify locking script for this
// context's hash.
func (c *Context) LockingScript() ([]byte, error) {
	hash, err := c.Hash()
	if err != nil {
		return nil, err
	}
	return ctv.BuildTemplateScript(hash)
}

// txType normalizes the context's transaction type; segwit when unset.
func (c *Context) txType() string {
	if c.TxType == "" {
		return TxTypeSegwit
	}
	return c.TxType
}

// Address returns the address locking the covenant: P2WSH with the locking
// script as witness script, or P2TR with the locking script as the sole
// tapscript leaf under the internal key.
func (c *Context) Address() (btcutil.Address, error) {
	params, err := c.params()
	if err != nil {
		return nil, err
	}
	script, err := c.LockingScript()
	if err != nil {
		return nil, err
	}
	switch c.txType() {
	case TxTypeTaproot:
		return c.taprootAddress(script, params)
	case TxTypeSegwit:
		hash := ctv.SingleSHA256(script)
		addr, err := btcutil.NewAddressWitnessScriptHash(hash[:], params)
		if err != nil {
			return nil, fmt.Errorf("deriving P2WSH address: %w", err)
		}
		return addr, nil
	default:
		return nil, &TemplateError{
			Code:    ErrInvalidTxType,
			Message: fmt.Sprintf("unknown tx type %q", c.TxType),
		}
	}
}

func (o *Output) validate() error {
	variants := 0
	if o.Address != "" {
		variants++
	}
	if o.Data != "" {
		variants++
	}
	if o.Tree != nil {
		variants++
	}
	if variants != 1 {
		return &TemplateError{
			Code:    ErrInvalidOutput,
			Message: "exactly one of address, data or tree must be set",
		}
	}
	if o.Amount < 0 {
		return &TemplateError{
			Code:    ErrInvalidOutput,
			Message: "amount cannot be negative",
		}
	}
	if o.Tree != nil {
		for i := range o.Tree.Fields.Outputs {
			if err := o.Tree.Fields.Outputs[i].validate(); err != nil {
				return fmt.Errorf("tree output %d: %w", i, err)
			}
		}
	}
	return nil
}

// amount returns the committed value of the output. Data outputs always
// carry zero.
func (o *Output) amount() int64 {
	if o.Data != "" {
		return 0
	}
	return o.Amount
}

// pkScript expands the output into its locking script on the given network.
func (o *Output) pkScript(params *chaincfg.Params) ([]byte, error) {
	switch {
	case o.Address != "":
		addr, err := btcutil.DecodeAddress(o.Address, params)
		if err != nil {
			return nil, &TemplateError{
				Code:    ErrInvalidAddress,
				Message: fmt.Sprintf("decoding address %q", o.Address),
				Cause:   err,
			}
		}
		if !addr.IsForNet(params) {
			return nil, &TemplateError{
				Code:    ErrInvalidAddress,
				Message: fmt.Sprintf("address %q is not valid for %s", o.Address, params.Name),
			}
		}
		return txscript.PayToAddrScript(addr)

	case o.Data != "":
		script, err := txscript.NullDataScript([]byte(o.Data))
		if err != nil {
			return nil, &TemplateError{
				Code:    ErrInvalidOutput,
				Message: "building OP_RETURN output",
				Cause:   err,
			}
		}
		return script, nil

	case o.Tree != nil:
		sub := o.Tree
		if sub.Network == "" {
			// Nested templates inherit the parent network unless they
			// name their own.
			inherited := *sub
			inherited.Network = params.Name
			sub = &inherited
		}
		addr, err := sub.Address()
		if err != nil {
			return nil, err
		}
		return txscript.PayToAddrScript(addr)

	default:
		return nil, &TemplateError{
			Code:    ErrInvalidOutput,
			Message: "output has no variant set",
		}
	}
}
