// Package errors provides the collected, structured diagnostic type shared
// by every pass of the middle-end: a pass appends findings to a *Bag and
// keeps walking, rather than returning on the first failure (spec.md §7).
package errors

// ErrorKind is the closed variant of every failure the middle-end can
// report, per spec.md §6.
type ErrorKind string

const (
	// Lowering (spec.md §4.2)
	KindUnknownIdentifier   ErrorKind = "UnknownIdentifier"
	KindRedeclaration       ErrorKind = "Redeclaration"
	KindDuplicateDeclaration ErrorKind = "DuplicateDeclaration"
	KindRedeclaredOutput    ErrorKind = "RedeclaredOutput"

	// Type checking (spec.md §4.3)
	KindIncompatibleTypes ErrorKind = "IncompatibleTypes"
	KindExpectArith       ErrorKind = "ExpectArith"
	KindExpectArray       ErrorKind = "ExpectArray"
	KindExpectInput       ErrorKind = "ExpectInput"
	KindExpectOption      ErrorKind = "ExpectOption"
	KindExpectTuple       ErrorKind = "ExpectTuple"
	KindArityMismatch     ErrorKind = "ArityMismatch"
	KindUnknownField      ErrorKind = "UnknownField"
	KindIndexOutOfBounds  ErrorKind = "IndexOutOfBounds"
	KindUnknownEnumeration ErrorKind = "UnknownEnumeration"

	// Causality (spec.md §4.5)
	KindNotCausalSignal    ErrorKind = "NotCausalSignal"
	KindNotCausalComponent ErrorKind = "NotCausalComponent"

	// Warnings (spec.md §7) — never block IR2 production.
	KindUnusedImport ErrorKind = "UnusedImport"
	KindUnusedIdent  ErrorKind = "UnusedIdent"

	// Internal invariant violations (spec.md §4.1, §7) — never surfaced
	// to the user. No pass constructs an error of this kind: internal
	// invariant violations panic instead.
	KindInternal ErrorKind = "Internal"
)

// Severity distinguishes warnings (never fatal) from errors.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (k ErrorKind) Severity() Severity {
	switch k {
	case KindUnusedImport, KindUnusedIdent:
		return SeverityWarning
	default:
		return SeverityError
	}
}
