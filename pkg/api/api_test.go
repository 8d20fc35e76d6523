package api

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/bitcoin-ctv/pkg/ctv"
	"github.com/suffix-labs/bitcoin-ctv/pkg/template"
)

const (
	scenarioTxHex = "02000000010000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000ffffffff01a086010000000000160014010203040506070809" +
		"0a0b0c0d0e0f101112131400000000"
	scenarioHashHex = "0f5998300c8178043d83677de99378519bbe14ea954fe796fb6291bb728e7850"
)

func TestTemplateHashFromRaw(t *testing.T) {
	raw, err := hex.DecodeString(scenarioTxHex)
	require.NoError(t, err)

	hash, err := TemplateHash(raw, ctv.ModeDefault, 0)
	require.NoError(t, err)
	assert.Equal(t, scenarioHashHex, hash.Hex())
}

func TestDecodeTransactionHex(t *testing.T) {
	view, err := DecodeTransactionHex(scenarioTxHex)
	require.NoError(t, err)
	assert.Len(t, view.Inputs, 1)
	assert.Len(t, view.Outputs, 1)

	_, err = DecodeTransactionHex("zz")
	assert.Error(t, err)

	_, err = DecodeTransactionHex("0200")
	assert.Error(t, err, "truncated transactions must not decode")
}

func TestOutpointsHash(t *testing.T) {
	raw, err := hex.DecodeString(scenarioTxHex)
	require.NoError(t, err)

	// One input spending the all-zero outpoint: the digest of 36 zero
	// bytes (txid then vout).
	hash, err := OutpointsHash(raw)
	require.NoError(t, err)
	assert.Equal(t, "6db65fd59fd356f6729140571b5bcd6bb3b83492a16e1bf0a3884442fc3c8a0e",
		hex.EncodeToString(hash[:]))

	_, err = OutpointsHash([]byte{0x02})
	assert.Error(t, err)
}

func TestVerifyEndToEnd(t *testing.T) {
	raw, err := hex.DecodeString(scenarioTxHex)
	require.NoError(t, err)
	target, err := ctv.ParseTemplateHash(scenarioHashHex)
	require.NoError(t, err)

	ok, err := VerifyHash(target, raw, ctv.ModeDefault, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	script, err := ctv.BuildTemplateScript(target)
	require.NoError(t, err)
	ok, err = VerifyScript(script, raw, ctv.ModeDefault, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	// Wrong index: negative verdict, not an error.
	ok, err = VerifyHash(target, raw, ctv.ModeDefault, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	c := &template.Context{
		Network: "mainnet",
		Fields: template.Fields{
			Version:   2,
			Sequences: []uint32{0xfffffffd},
			Outputs: []template.Output{{
				Address: "bc1qqypqxpq9qcrsszg2pvxq6rs0zqg3yyc5fcj4z3",
				Amount:  90000,
			}},
		},
	}

	summary, err := Summarize(c)
	require.NoError(t, err)
	assert.Equal(t, "fd5db9af46aff534cae1c8bf585e7338b106edab444150dba24fe986afc125c4", summary.Hash)
	assert.Equal(t, "20"+summary.Hash+"b3", summary.LockingScript)
	assert.Equal(t, "bc1q03795es6jv8sc3hcg8m7s503dvp9h8zra3vssqeecu92zcdu7l2qyckgtc", summary.Address)
}
