// Template construction error type.
package template

import "fmt"

// TemplateError is returned when a context cannot be expanded into a
// transaction view or spending transaction.
type TemplateError struct {
	Code    string // Error code (e.g., ErrInvalidOutput)
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("template error [%s]: %s", e.Code, e.Message)
}

func (e *TemplateError) Unwrap() error { return e.Cause }

// Error codes used by this package.
const (
	ErrUnknownNetwork     = "UNKNOWN_NETWORK"      // Network name is not recognized
	ErrInvalidOutput      = "INVALID_OUTPUT"       // Output variant selection or value is invalid
	ErrInvalidAddress     = "INVALID_ADDRESS"      // Address cannot be decoded for the network
	ErrMissingSequence    = "MISSING_SEQUENCE"     // Spending needs at least one sequence
	ErrInvalidTxType      = "INVALID_TX_TYPE"      // tx_type is neither segwit nor taproot
	ErrInvalidInternalKey = "INVALID_INTERNAL_KEY" // Taproot internal key missing or malformed
)
