package wsdl

import (
	"fmt"

	"github.com/tjbrewster/wsdlgen/qname"
)

// MissingRequiredChild is raised when a required child element is absent
// (§4.2, §7).
type MissingRequiredChild struct {
	Parent string
	Name   string
}

func (e *MissingRequiredChild) Error() string {
	return fmt.Sprintf("%s: missing required child %q", e.Parent, e.Name)
}

// DuplicateName describes two top-level declarations of the same kind
// sharing a qualified name (§3 invariant, §7). Neither Unmarshal nor
// Parse returns it: duplicate messages, port types, bindings and
// services are all kept in Definitions. Duplicate schema declarations
// are reported by the resolver's own DuplicateName.
type DuplicateName struct {
	Name qname.QName
	Kind string
}

func (e *DuplicateName) Error() string {
	return fmt.Sprintf("duplicate %s %s", e.Kind, e.Name)
}

// UnsupportedBinding is raised for a non-SOAP-1.1 binding, or a SOAP
// binding using rpc/encoded style (§4.2, §9 Open Questions). The
// WebServiceDescription remains usable if at least one binding is
// SOAP/document/literal.
type UnsupportedBinding struct {
	Name   qname.QName
	Reason string
}

func (e *UnsupportedBinding) Error() string {
	return fmt.Sprintf("unsupported binding %s: %s", e.Name, e.Reason)
}
