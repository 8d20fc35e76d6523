// Error types returned by the template hash computer and the strict
// verifier. All errors are local and recoverable; the package never logs
// and never returns a partial result alongside an error.
package ctv

import "fmt"

// InputError is returned when a computation is asked for something its
// transaction view cannot back: an input index past the end of the inputs,
// or a scriptSigs commitment with no scriptSig data supplied.
type InputError struct {
	Code    string // Error code (e.g., ErrIndexOutOfRange)
	Message string // Human-readable error message
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error [%s]: %s", e.Code, e.Message)
}

// VerificationFailure is returned by the strict verifier when a candidate
// spending transaction does not reproduce the target template hash, or when
// the supplied script is not a CheckTemplateVerify output at all.
type VerificationFailure struct {
	Code    string       // Error code (e.g., ErrHashMismatch)
	Message string       // Human-readable error message
	Want    TemplateHash // Target hash (zero when unknown)
	Got     TemplateHash // Recomputed hash (zero when none was computed)
}

func (e *VerificationFailure) Error() string {
	return fmt.Sprintf("verification failed [%s]: %s", e.Code, e.Message)
}

// Error codes used by this package.
const (
	ErrIndexOutOfRange   = "INDEX_OUT_OF_RANGE"  // Input index >= input count
	ErrMissingScriptSigs = "MISSING_SCRIPT_SIGS" // scriptSigs commitment requested, no data
	ErrUnknownMode       = "UNKNOWN_MODE"        // Commitment mode is not a defined value
	ErrHashMismatch      = "HASH_MISMATCH"       // Recomputed hash differs from target
	ErrNotTemplateScript = "NOT_TEMPLATE_SCRIPT" // Script is not the expected shape
	ErrInvalidHashLength = "INVALID_HASH_LENGTH" // Hash bytes are not 32 bytes long
)
