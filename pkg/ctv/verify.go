// Verifier: recompute-and-compare against a target hash or script.
//
// Two strictness levels are offered. The package-level Verify/VerifyScript
// functions collapse every failure into false, which suits callers scanning
// candidate transactions. The Engine Check/CheckScript methods return typed
// errors describing what went wrong, which suits callers validating a
// transaction they expect to match.
package ctv

// Check recomputes the template hash of tx at inputIndex and compares it
// against target. It returns nil on an exact match, an InputError when the
// computation itself is impossible, and a VerificationFailure carrying both
// hashes on a mismatch. Equality is all-or-nothing; there is no partial
// match.
func (e Engine) Check(target TemplateHash, tx *TxView, inputIndex uint32, mode Mode) error {
	got, err := e.TemplateHash(tx, mode, inputIndex)
	if err != nil {
		return err
	}
	if !got.Equal(target) {
		return &VerificationFailure{
			Code:    ErrHashMismatch,
			Message: "recomputed template hash does not match target",
			Want:    target,
			Got:     got,
		}
	}
	return nil
}

// CheckScript extracts the target hash from a template locking script and
// then behaves like Check. A script that is not a canonical template output
// yields a VerificationFailure with code ErrNotTemplateScript.
func (e Engine) CheckScript(script []byte, tx *TxView, inputIndex uint32, mode Mode) error {
	target, ok := ParseTemplateScript(script)
	if !ok {
		return &VerificationFailure{
			Code:    ErrNotTemplateScript,
			Message: "script is not a CheckTemplateVerify output",
		}
	}
	return e.Check(target, tx, inputIndex, mode)
}

// Verify reports whether tx at inputIndex reproduces target under the
// BIP-119 digest convention. Out-of-range indexes and mode errors read as
// false rather than surfacing an error.
func Verify(target TemplateHash, tx *TxView, inputIndex uint32, mode Mode) bool {
	return DefaultEngine.Check(target, tx, inputIndex, mode) == nil
}

// VerifyScript is Verify with the target taken from a locking script.
// Non-template scripts read as false.
func VerifyScript(script []byte, tx *TxView, inputIndex uint32, mode Mode) bool {
	return DefaultEngine.CheckScript(script, tx, inputIndex, mode) == nil
}
