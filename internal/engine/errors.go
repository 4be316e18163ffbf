package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/relnoir/sqlitelite/internal/record"
)

// Kind classifies an Error into one of the taxonomy's buckets.
type Kind int

const (
	IO Kind = iota
	FormatCorruption
	SchemaInconsistency
	LexError
	ParseError
	SemanticError
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case FormatCorruption:
		return "FormatCorruption"
	case SchemaInconsistency:
		return "SchemaInconsistency"
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case SemanticError:
		return "SemanticError"
	case Unsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// Error wraps a failure with the operation that produced it and a Kind drawn
// from a seven-bucket taxonomy, so callers can branch on failure class
// without string-matching messages.
type Error struct {
	Kind Kind
	Operation string
	Err error
	Context map[string]any
}

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v (context: %+v)", e.Kind, e.Operation, e.Err, e.Context)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, operation string, err error, context map[string]any) *Error {
	return &Error{Kind: kind, Operation: operation, Err: err, Context: context}
}

func newIOError(operation string, err error) *Error {
	return newError(IO, operation, err, nil)
}

func newSchemaError(operation string, err error) *Error {
	return newError(SchemaInconsistency, operation, err, nil)
}

func newSemanticError(operation string, err error) *Error {
	return newError(SemanticError, operation, err, nil)
}

// classifyDecodeError maps a page/record-decoding failure to FormatCorruption
// or Unsupported depending on what internal/record signalled.
func classifyDecodeError(operation string, err error) *Error {
	if errors.Is(err, record.ErrUnsupported) {
		return newError(Unsupported, operation, err, nil)
	}
	return newError(FormatCorruption, operation, err, nil)
}

// classifyFrontEndError maps a tokenizer/parser failure to LexError or
// ParseError by sniffing the message the sqlfront package produces; both
// packages are internal to this module so this coupling is intentional
// rather than a layering violation.
func classifyFrontEndError(operation string, err error) *Error {
	if strings.Contains(err.Error(), "lex error") {
		return newError(LexError, operation, err, nil)
	}
	return newError(ParseError, operation, err, nil)
}
