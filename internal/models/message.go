// Package models provides the data structures used throughout the application.
package models

import "fmt"

// MessageFamily identifies one of the supported ISO 20022 message families.
// The set is closed: every switch over a MessageFamily must handle all values.
type MessageFamily int

const (
	// FamilyCamt053 is the bank-to-customer statement family (camt.053).
	FamilyCamt053 MessageFamily = iota
	// FamilyPain001 is the customer credit transfer initiation family (pain.001).
	FamilyPain001
)

// String returns the CLI-facing name of the family.
func (f MessageFamily) String() string {
	switch f {
	case FamilyCamt053:
		return "camt"
	case FamilyPain001:
		return "pain001"
	default:
		return fmt.Sprintf("MessageFamily(%d)", int(f))
	}
}

// Prefix returns the ISO 20022 message identifier prefix of the family,
// as used in namespace URIs and schema file names.
func (f MessageFamily) Prefix() string {
	switch f {
	case FamilyCamt053:
		return "camt"
	case FamilyPain001:
		return "pain"
	default:
		return ""
	}
}

// ParseFamily converts a CLI type tag ("camt" or "pain001") to a MessageFamily.
func ParseFamily(s string) (MessageFamily, error) {
	switch s {
	case "camt":
		return FamilyCamt053, nil
	case "pain001":
		return FamilyPain001, nil
	default:
		return 0, fmt.Errorf("unknown message type %q (want \"camt\" or \"pain001\")", s)
	}
}

// MessageVersion identifies a concrete schema variant of a message family,
// e.g. {FamilyCamt053, "053.001.02"}. It is immutable once resolved from a
// document's root namespace and is the cache key of the schema registry.
type MessageVersion struct {
	Family  MessageFamily
	Version string
}

// Namespace returns the ISO 20022 namespace URI for this version, e.g.
// "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02".
func (v MessageVersion) Namespace() string {
	return "urn:iso:std:iso:20022:tech:xsd:" + v.Family.Prefix() + "." + v.Version
}

// String returns the message identifier, e.g. "camt.053.001.02".
func (v MessageVersion) String() string {
	return v.Family.Prefix() + "." + v.Version
}
