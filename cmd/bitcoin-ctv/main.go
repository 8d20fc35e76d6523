// bitcoin-ctv CLI - CheckTemplateVerify covenant toolkit
//
// This CLI demonstrates the bitcoin-ctv library's capabilities for
// computing BIP-119 template hashes, deriving covenant addresses, and
// building the spending transactions that satisfy them.
//
// Example usage:
//
//	# Compute the template hash of a raw transaction at input 0
//	bitcoin-ctv hash <hex_tx> 0
//
//	# Build the locking script for a template hash
//	bitcoin-ctv script <hash_hex>
//
//	# Derive hash, script and address from a template description
//	bitcoin-ctv address template.json
//
//	# Build the spending transaction chain for a funded covenant
//	bitcoin-ctv spend template.json <txid> <vout>
//
//	# Verify a spending transaction against a hash or locking script
//	bitcoin-ctv verify <hex_tx> 0 <hash_or_script_hex>
package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/suffix-labs/bitcoin-ctv/pkg/api"
	"github.com/suffix-labs/bitcoin-ctv/pkg/bip21"
	"github.com/suffix-labs/bitcoin-ctv/pkg/ctv"
	"github.com/suffix-labs/bitcoin-ctv/pkg/template"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "hash":
		cmdHash()
	case "script":
		cmdScript()
	case "address":
		cmdAddress()
	case "spend":
		cmdSpend()
	case "verify":
		cmdVerify()
	case "outpoints":
		cmdOutpoints()
	case "parse-uri":
		cmdParseURI()
	case "nums":
		cmdNums()
	case "version":
		cmdVersion()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bitcoin-ctv - CheckTemplateVerify covenant toolkit

Usage:
  bitcoin-ctv <command> [options]

Commands:
  hash <hex_tx> <input_index> [--with-scriptsigs]
                               Compute the BIP-119 template hash
  script <hash_hex>            Build the locking script for a hash
  address <template.json|->    Derive hash, script and P2WSH address
  spend <template.json|-> <txid> <vout>
                               Build the spending transaction chain
  verify <hex_tx> <input_index> <hash_or_script_hex>
                               Verify a spending transaction
  outpoints <hex_tx>           Compute the prevout commitment hash
  parse-uri <uri>              Parse a BIP 21 payment request URI
  nums <hex_data>              Derive a NUMS point from data
  version                      Show version information
  help                         Show this help message

Template descriptions are JSON documents:
  {
    "network": "mainnet",
    "tx_type": "segwit",
    "fields": {
      "version": 2,
      "locktime": 0,
      "sequences": [4294967293],
      "outputs": [{"address": "bc1q...", "amount": 90000}],
      "input_index": 0
    }
  }

Set "tx_type" to "taproot" (with an x-only "internal_key") to lock the
covenant behind a P2TR script path instead of P2WSH.`)
}

func cmdVersion() {
	fmt.Println("bitcoin-ctv v0.1.0")
	fmt.Println("BIP-119 CheckTemplateVerify template hash library")
}

func cmdHash() {
	if len(os.Args) < 4 {
		fatalUsage("Usage: bitcoin-ctv hash <hex_tx> <input_index> [--with-scriptsigs]")
	}

	mode := ctv.ModeDefault
	if len(os.Args) > 4 && os.Args[4] == "--with-scriptsigs" {
		mode = ctv.ModeWithScriptSigs
	}

	raw := mustHex(os.Args[2], "transaction")
	index := mustUint32(os.Args[3], "input index")

	hash, err := api.TemplateHash(raw, mode, index)
	if err != nil {
		fatal(err)
	}
	fmt.Println(hash.Hex())
}

func cmdScript() {
	if len(os.Args) < 3 {
		fatalUsage("Usage: bitcoin-ctv script <hash_hex>")
	}

	hash, err := ctv.ParseTemplateHash(os.Args[2])
	if err != nil {
		fatal(err)
	}
	script, err := ctv.BuildTemplateScript(hash)
	if err != nil {
		fatal(err)
	}
	fmt.Println(hex.EncodeToString(script))
}

func cmdAddress() {
	if len(os.Args) < 3 {
		fatalUsage("Usage: bitcoin-ctv address <template.json|->")
	}

	summary, err := api.Summarize(mustContext(os.Args[2]))
	if err != nil {
		fatal(err)
	}
	fmt.Printf("hash:    %s\n", summary.Hash)
	fmt.Printf("script:  %s\n", summary.LockingScript)
	fmt.Printf("address: %s\n", summary.Address)
}

func cmdSpend() {
	if len(os.Args) < 5 {
		fatalUsage("Usage: bitcoin-ctv spend <template.json|-> <txid> <vout>")
	}

	c := mustContext(os.Args[2])
	txid, err := parseTxid(os.Args[3])
	if err != nil {
		fatal(err)
	}
	vout := mustUint32(os.Args[4], "vout")

	txs, err := c.SpendingTransactions(txid, vout)
	if err != nil {
		fatal(err)
	}
	for i, tx := range txs {
		var buf bytes.Buffer
		if err := tx.Serialize(&buf); err != nil {
			fatal(err)
		}
		fmt.Printf("tx %d (%s):\n%s\n", i, tx.TxHash(), hex.EncodeToString(buf.Bytes()))
	}
}

func cmdVerify() {
	if len(os.Args) < 5 {
		fatalUsage("Usage: bitcoin-ctv verify <hex_tx> <input_index> <hash_or_script_hex>")
	}

	raw := mustHex(os.Args[2], "transaction")
	index := mustUint32(os.Args[3], "input index")
	target := os.Args[4]

	var (
		ok  bool
		err error
	)
	if hash, hashErr := ctv.ParseTemplateHash(target); hashErr == nil {
		ok, err = api.VerifyHash(hash, raw, ctv.ModeDefault, index)
	} else {
		ok, err = api.VerifyScript(mustHex(target, "script"), raw, ctv.ModeDefault, index)
	}
	if err != nil {
		fatal(err)
	}
	if !ok {
		fmt.Println("MISMATCH")
		os.Exit(1)
	}
	fmt.Println("OK")
}

func cmdOutpoints() {
	if len(os.Args) < 3 {
		fatalUsage("Usage: bitcoin-ctv outpoints <hex_tx>")
	}

	raw := mustHex(os.Args[2], "transaction")
	hash, err := api.OutpointsHash(raw)
	if err != nil {
		fatal(err)
	}
	fmt.Println(hex.EncodeToString(hash[:]))
}

func cmdParseURI() {
	if len(os.Args) < 3 {
		fatalUsage("Usage: bitcoin-ctv parse-uri <uri>")
	}

	req, err := bip21.Parse(os.Args[2])
	if err != nil {
		fatal(err)
	}
	fmt.Printf("address: %s\n", req.Address)
	if req.Amount != nil {
		fmt.Printf("amount:  %s\n", req.Amount)
	}
	if req.Label != nil {
		fmt.Printf("label:   %s\n", *req.Label)
	}
	if req.Message != nil {
		fmt.Printf("message: %s\n", *req.Message)
	}
}

func cmdNums() {
	if len(os.Args) < 3 {
		fatalUsage("Usage: bitcoin-ctv nums <hex_data>")
	}

	data := mustHex(os.Args[2], "data")
	key := template.NUMSPoint(data)
	compressed := key.SerializeCompressed()
	fmt.Printf("compressed: %s\n", hex.EncodeToString(compressed))
	// The x-only form is what a taproot template's internal_key takes.
	fmt.Printf("x-only:     %s\n", hex.EncodeToString(compressed[1:]))
}

// mustContext loads a template context from a file path, or stdin for "-".
func mustContext(path string) *template.Context {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		fatal(fmt.Errorf("reading template: %w", err))
	}

	c, err := template.FromJSON(data)
	if err != nil {
		fatal(err)
	}
	return c
}

// parseTxid parses a display-order (reversed) transaction id.
func parseTxid(s string) (*chainhash.Hash, error) {
	txid, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return nil, fmt.Errorf("invalid txid: %w", err)
	}
	return txid, nil
}

func mustHex(s, what string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		fatal(fmt.Errorf("invalid %s hex: %w", what, err))
	}
	return b
}

func mustUint32(s, what string) uint32 {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		fatal(fmt.Errorf("invalid %s: %w", what, err))
	}
	return uint32(n)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

func fatalUsage(usage string) {
	fmt.Fprintln(os.Stderr, usage)
	os.Exit(1)
}
