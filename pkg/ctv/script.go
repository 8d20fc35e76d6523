// Template locking script construction and recognition.
//
// The canonical CheckTemplateVerify output script is a minimal push of the
// 32-byte template hash followed by OP_NOP4 (0xb3, the opcode BIP-119
// redefines as OP_CHECKTEMPLATEVERIFY):
//
//	OP_DATA_32 <32-byte hash> OP_NOP4
//
// always exactly 34 bytes.
package ctv

import (
	"github.com/btcsuite/btcd/txscript"
)

// templateScriptLen is the length of a canonical template script:
// one push opcode, 32 hash bytes, OP_NOP4.
const templateScriptLen = 1 + HashSize + 1

// BuildTemplateScript returns the canonical locking script committing to h.
func BuildTemplateScript(h TemplateHash) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddData(h[:]).
		AddOp(txscript.OP_NOP4).
		Script()
}

// ParseTemplateScript recognizes a canonical template script and extracts
// its hash. The second return value is false for any other script shape;
// that is a classification, not an error, since unrelated scripts are
// routinely encountered when scanning outputs.
func ParseTemplateScript(script []byte) (TemplateHash, bool) {
	var h TemplateHash
	if len(script) != templateScriptLen {
		return h, false
	}
	if script[0] != txscript.OP_DATA_32 || script[templateScriptLen-1] != txscript.OP_NOP4 {
		return h, false
	}
	copy(h[:], script[1:1+HashSize])
	return h, true
}

// IsTemplateScript reports whether script has the canonical template shape.
func IsTemplateScript(script []byte) bool {
	_, ok := ParseTemplateScript(script)
	return ok
}
