// Package wsdl parses WSDL 1.1 documents into a WebServiceDescription
// (§3, §4.2), delegating the wsdl:types schema fragments to package xsd
// and following wsdl:import transitively through a shared
// xmltree.Fetcher.
//
// This generalizes the teacher's original wsdl.Definitions, which held
// a single Schema/PortType/Binding/Service, to the plural form §3
// specifies (SPEC_FULL.md §12): a WSDL may declare several port types,
// bindings, and services, and wsdl:import may pull in more of each.
package wsdl

import (
	"github.com/tjbrewster/wsdlgen/qname"
	"github.com/tjbrewster/wsdlgen/xsd"
)

// OperationStyle is request-response or one-way (§3).
type OperationStyle int

const (
	RequestResponse OperationStyle = iota
	OneWay
)

// BindingStyle is document or rpc (§3). Only document is supported past
// resolution; rpc bindings are rejected with UnsupportedBinding (§4.2,
// §9 Open Questions).
type BindingStyle int

const (
	StyleDocument BindingStyle = iota
	StyleRPC
)

// Use is literal or encoded (§3). Only literal is supported for
// emission, per the §1 non-goal on RPC/encoded style.
type Use int

const (
	UseLiteral Use = iota
	UseEncoded
)

// Definitions is the WebServiceDescription of §3.
type Definitions struct {
	TargetNamespace string
	SourceLocation  string

	Schemas   []*xsd.Schema
	Messages  []*Message
	PortTypes []*PortType
	Bindings  []*Binding
	Services  []*Service
}

// Message is a WSDL message: a name and an ordered list of parts (§3).
type Message struct {
	Name  qname.QName
	Parts []*Part
}

// Part references either a schema element or a schema type for one part
// of a message (§3). Exactly one of Element/Type is non-zero.
type Part struct {
	Name    string
	Element qname.QName
	Type    qname.QName
}

// PortType groups a set of operations (§3).
type PortType struct {
	Name       qname.QName
	Operations []*Operation
}

// Operation is one operation of a PortType (§3).
type Operation struct {
	Name   string
	Doc    string
	Input  *MessageRef
	Output *MessageRef
	Faults []*MessageRef
	Style  OperationStyle
}

// MessageRef names a message used as an operation's input, output, or
// fault.
type MessageRef struct {
	Name    string
	Message qname.QName
}

// Binding binds a PortType to SOAP 1.1 wire details (§3).
type Binding struct {
	Name       qname.QName
	PortType   qname.QName
	Style      BindingStyle
	Transport  string
	Operations []*BindingOperation
}

// BindingOperation carries the SOAP-specific details of one bound
// operation (§3).
type BindingOperation struct {
	Name       string
	SOAPAction string
	InputUse   Use
	OutputUse  Use
}

// Service is a named group of ports (§3).
type Service struct {
	Name  qname.QName
	Ports []*Port
}

// Port binds a service endpoint address to a Binding (§3).
type Port struct {
	Name    string
	Binding qname.QName
	Address string
}
