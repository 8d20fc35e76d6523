package ctv

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Pinned against the reference implementation at implementation time:
// version=2, locktime=0, one input with sequence 0xffffffff and an empty
// scriptSig, one output of 100000 satoshis to a fixed 22-byte scriptPubKey,
// input index 0, scriptSigs not committed.
const (
	scenarioTxHex = "02000000010000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000ffffffff01a086010000000000160014010203040506070809" +
		"0a0b0c0d0e0f101112131400000000"
	scenarioHashHex = "0f5998300c8178043d83677de99378519bbe14ea954fe796fb6291bb728e7850"

	scenarioScriptPubKeyHex = "00140102030405060708090a0b0c0d0e0f1011121314"

	// The same template with a single OP_TRUE scriptSig on its input,
	// which forces the scriptSigs hash into the commitment.
	scenarioWithSigHashHex = "5c95777c08121cce58f4379cdb32b3852e9489d6a73007c107145dea393224b2"
)

// scenarioView rebuilds the pinned scenario transaction as a literal view.
func scenarioView(t *testing.T) *TxView {
	t.Helper()
	return &TxView{
		Version:  2,
		LockTime: 0,
		Inputs:   []TxIn{{Sequence: 0xffffffff}},
		Outputs:  []TxOut{{Value: 100000, ScriptPubKey: hexDecode(t, scenarioScriptPubKeyHex)}},
	}
}

func hexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err, "invalid hex in test data")
	return b
}

// decodeTxHex parses a raw transaction through the wire decoder and
// projects it into a view, the same path production callers take.
func decodeTxHex(t *testing.T, s string) *TxView {
	t.Helper()
	raw := hexDecode(t, s)
	var msg wire.MsgTx
	require.NoError(t, msg.Deserialize(bytes.NewReader(raw)), "deserializing transaction")
	return ViewFromMsgTx(&msg)
}

func TestReferenceScenario(t *testing.T) {
	view := scenarioView(t)

	got, err := ComputeTemplateHash(view, ModeDefault, 0)
	require.NoError(t, err)
	assert.Equal(t, scenarioHashHex, got.Hex(), "scenario hash mismatch")

	// The decoded raw transaction must produce the identical digest.
	decoded := decodeTxHex(t, scenarioTxHex)
	fromRaw, err := ComputeTemplateHash(decoded, ModeDefault, 0)
	require.NoError(t, err)
	assert.True(t, got.Equal(fromRaw), "literal view and decoded view disagree")
}

// templateVector mirrors the reference vector format: hex_tx is a raw
// transaction, result[i] is the default-mode hash at spend_index[i].
type templateVector struct {
	HexTx      string   `json:"hex_tx"`
	SpendIndex []uint32 `json:"spend_index"`
	Result     []string `json:"result"`
}

func loadTemplateVectors(t *testing.T) []templateVector {
	t.Helper()

	_, filename, _, _ := runtime.Caller(0)
	jsonPath := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "vectors", "ctvhash.json")
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err, "reading vector file")

	// The file interleaves comment strings with vector objects.
	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw), "parsing vector file")

	var vectors []templateVector
	for _, entry := range raw {
		if len(entry) > 0 && entry[0] == '"' {
			continue
		}
		var v templateVector
		require.NoError(t, json.Unmarshal(entry, &v), "parsing vector entry")
		vectors = append(vectors, v)
	}
	require.NotEmpty(t, vectors)
	return vectors
}

func TestTemplateHashVectors(t *testing.T) {
	for i, v := range loadTemplateVectors(t) {
		t.Run(fmt.Sprintf("vector_%d", i), func(t *testing.T) {
			view := decodeTxHex(t, v.HexTx)
			require.Equal(t, len(v.SpendIndex), len(v.Result), "malformed vector")

			for j, idx := range v.SpendIndex {
				got, err := ComputeTemplateHash(view, ModeDefault, idx)
				require.NoError(t, err)
				assert.Equal(t, v.Result[j], got.Hex(), "hash mismatch at spend index %d", idx)
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	view := scenarioView(t)
	first, err := ComputeTemplateHash(view, ModeDefault, 0)
	require.NoError(t, err)
	second, err := ComputeTemplateHash(view, ModeDefault, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInputIndexSensitivity(t *testing.T) {
	view := &TxView{
		Version: 2,
		Inputs:  []TxIn{{Sequence: 0xfffffffd}, {Sequence: 0xfffffffe}},
		Outputs: []TxOut{{Value: 1, ScriptPubKey: []byte{0x51}}},
	}

	for _, mode := range []Mode{ModeDefault, ModeWithScriptSigs} {
		if mode == ModeWithScriptSigs {
			view.Inputs[0].ScriptSig = []byte{0x51}
		}
		h0, err := ComputeTemplateHash(view, mode, 0)
		require.NoError(t, err)
		h1, err := ComputeTemplateHash(view, mode, 1)
		require.NoError(t, err)
		assert.False(t, h0.Equal(h1), "mode %s: index must be committed", mode)
	}
}

func TestOutputOrderSensitivity(t *testing.T) {
	a := TxOut{Value: 1000, ScriptPubKey: []byte{0x51}}
	b := TxOut{Value: 2000, ScriptPubKey: []byte{0x52}}

	ab := &TxView{Version: 2, Inputs: []TxIn{{}}, Outputs: []TxOut{a, b}}
	ba := &TxView{Version: 2, Inputs: []TxIn{{}}, Outputs: []TxOut{b, a}}

	hashAB, err := ComputeTemplateHash(ab, ModeDefault, 0)
	require.NoError(t, err)
	hashBA, err := ComputeTemplateHash(ba, ModeDefault, 0)
	require.NoError(t, err)
	assert.False(t, hashAB.Equal(hashBA), "output order must be committed")
}

func TestInputIndexOutOfRange(t *testing.T) {
	view := scenarioView(t)

	_, err := ComputeTemplateHash(view, ModeDefault, 1)
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, ErrIndexOutOfRange, inputErr.Code)

	// A zero-input transaction has no valid index at all.
	empty := &TxView{Version: 2}
	_, err = ComputeTemplateHash(empty, ModeDefault, 0)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, ErrIndexOutOfRange, inputErr.Code)
}

func TestScriptSigModes(t *testing.T) {
	view := scenarioView(t)

	// ModeWithScriptSigs has no backing data here.
	_, err := ComputeTemplateHash(view, ModeWithScriptSigs, 0)
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, ErrMissingScriptSigs, inputErr.Code)

	// With an OP_TRUE scriptSig both modes commit it and agree.
	view.Inputs[0].ScriptSig = []byte{0x51}
	withSig, err := ComputeTemplateHash(view, ModeWithScriptSigs, 0)
	require.NoError(t, err)
	assert.Equal(t, scenarioWithSigHashHex, withSig.Hex())

	defaulted, err := ComputeTemplateHash(view, ModeDefault, 0)
	require.NoError(t, err)
	assert.True(t, withSig.Equal(defaulted),
		"default mode must pick up non-empty scriptSigs")
	assert.NotEqual(t, scenarioHashHex, withSig.Hex(),
		"scriptSig commitment must change the digest")
}

func TestUnknownModeRejected(t *testing.T) {
	view := scenarioView(t)

	var inputErr *InputError
	_, err := ComputeTemplateHash(view, Mode(99), 0)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, ErrUnknownMode, inputErr.Code)

	_, err = DefaultEngine.SubHashes(view, Mode(-1))
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, ErrUnknownMode, inputErr.Code)

	assert.Equal(t, "unknown", Mode(99).String())
}

func TestAlternateDigestConvention(t *testing.T) {
	// An engine with a different convention must stay self-consistent
	// while disagreeing with the pinned BIP-119 digest.
	double := NewEngine(func(b []byte) [32]byte {
		first := SingleSHA256(b)
		return SingleSHA256(first[:])
	})

	view := scenarioView(t)
	got, err := double.TemplateHash(view, ModeDefault, 0)
	require.NoError(t, err)
	assert.NotEqual(t, scenarioHashHex, got.Hex())

	again, err := double.TemplateHash(view, ModeDefault, 0)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestParseTemplateHash(t *testing.T) {
	h, err := ParseTemplateHash(scenarioHashHex)
	require.NoError(t, err)
	assert.Equal(t, scenarioHashHex, h.Hex())
	assert.Equal(t, scenarioHashHex, h.String())

	_, err = ParseTemplateHash("zz")
	assert.Error(t, err)

	_, err = ParseTemplateHash("abcd")
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, ErrInvalidHashLength, inputErr.Code)
}
