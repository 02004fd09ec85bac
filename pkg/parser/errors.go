package parser

import (
	"errors"
	"fmt"
)

// Parsing itself never fails: syntax anomalies become Error nodes and
// INVALID tokens inside the returned tree. The only errors this package
// returns are caller contract violations on the incremental entry point.

// ErrInvalidEdit is returned by Reparse when the edit descriptor does not
// fit the previous tree's source. This is a programming-error class, kept
// distinct from input-syntax anomalies.
var ErrInvalidEdit = errors.New("edit out of range")

// editError wraps ErrInvalidEdit with the offending descriptor.
func editError(e Edit, srcLen int) error {
	return fmt.Errorf("%w: [%d, %d) -> [%d, %d) over %d bytes",
		ErrInvalidEdit, e.StartByte, e.OldEndByte, e.StartByte, e.NewEndByte, srcLen)
}
