// Package parsererror defines the error taxonomy shared by all message
// parsers. Every error is a deterministic function of its input and is never
// retried; the first error encountered is surfaced with full context.
package parsererror

import (
	"fmt"

	"bankstmt/iso20022/internal/models"
)

// MalformedXMLError reports input that is not well-formed XML. It is raised
// before any schema validation is attempted.
type MalformedXMLError struct {
	Line int
	Err  error
}

func (e *MalformedXMLError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed XML on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed XML: %v", e.Err)
}

func (e *MalformedXMLError) Unwrap() error {
	return e.Err
}

// UnrecognizedNamespaceError reports a document whose root namespace is not
// an ISO 20022 message namespace at all.
type UnrecognizedNamespaceError struct {
	Namespace string
}

func (e *UnrecognizedNamespaceError) Error() string {
	if e.Namespace == "" {
		return "document root declares no namespace"
	}
	return fmt.Sprintf("unrecognized document namespace %q", e.Namespace)
}

// UnsupportedVersionError reports a recognized message family with a version
// for which no schema is bundled, or a family mismatch against the declared
// message type.
type UnsupportedVersionError struct {
	Family  models.MessageFamily
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported %s version %q", e.Family, e.Version)
}

// SchemaValidationError carries the full list of schema violations for a
// document that is well-formed but not schema-valid.
type SchemaValidationError struct {
	Version models.MessageVersion
	Result  models.ValidationResult
}

func (e *SchemaValidationError) Error() string {
	n := len(e.Result.Violations)
	if n == 0 {
		return fmt.Sprintf("document does not conform to %s", e.Version)
	}
	return fmt.Sprintf("document does not conform to %s: %d violation(s), first at %s",
		e.Version, n, e.Result.Violations[0])
}

// IncompleteEntryError reports a statement entry missing a required field.
// The whole extraction fails; partial record sets are never returned.
type IncompleteEntryError struct {
	StatementID string
	EntryIndex  int
	Field       string
}

func (e *IncompleteEntryError) Error() string {
	if e.StatementID != "" {
		return fmt.Sprintf("statement %s entry %d: missing required field %s",
			e.StatementID, e.EntryIndex, e.Field)
	}
	return fmt.Sprintf("entry %d: missing required field %s", e.EntryIndex, e.Field)
}

// InvalidInstructionError reports a payment instruction that violates a
// structural invariant. It is raised before any XML is emitted.
type InvalidInstructionError struct {
	Reason string
}

func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid payment instruction: %s", e.Reason)
}
