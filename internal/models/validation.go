package models

import "fmt"

// Violation is a single schema conformance failure, located by line and
// column in the source document. Violations are reported in document order.
type Violation struct {
	Line    int
	Column  int
	Message string
}

// String renders the violation in a grep-friendly line:column form.
func (v Violation) String() string {
	return fmt.Sprintf("%d:%d: %s", v.Line, v.Column, v.Message)
}

// ValidationResult is the outcome of validating one document against its
// schema. It is produced once per parse call and never mutated afterwards.
type ValidationResult struct {
	Valid      bool
	Violations []Violation
}
