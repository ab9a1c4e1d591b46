// Package ir is the Code IR Builder (§4.4): it lowers a resolved
// WebServiceDescription plus its TypeMap and strongly connected
// components into a language-neutral list of nodes in a stable emission
// order, so the emitter (package wsdlgo) never has to re-derive
// cardinality or cycle information from raw WSDL/XSD elements.
package ir

import "github.com/tjbrewster/wsdlgen/qname"

// Cardinality is the lowered field cardinality of §4.4's table.
type Cardinality int

const (
	// Required is minOccurs=1, maxOccurs=1, not nillable.
	Required Cardinality = iota
	// Optional is minOccurs=0, maxOccurs=1: a pointer field, nil when absent.
	Optional
	// OptionalWrapper is nillable=true: a pointer field with the same
	// omitempty tag as Optional. xsi:nil is neither written nor read, so
	// on the wire a nil value is the same as simple absence.
	OptionalWrapper
	// Repeated is maxOccurs>1 or unbounded: a slice field, possibly empty.
	Repeated
)

// TypeRef names the Go type a field or alias target resolves to.
type TypeRef struct {
	QName     qname.QName // zero for a Go primitive
	GoName    string       // mangled Go identifier, or primitive name (e.g. "string")
	Primitive bool
	// Indirect is true when this reference crosses into a cyclic type
	// group and must be taken through a pointer to let the Go type
	// definition compile (§4.3 cycle policy, §9).
	Indirect bool
}

// Field is one struct field lowered from a particle or attribute.
type Field struct {
	Name        string // mangled Go field name
	XMLName     qname.QName
	Attribute   bool // true for an XSD attribute, false for an element
	Type        TypeRef
	Cardinality Cardinality
	Doc         string
}

// Node is implemented by every IR node kind §4.4 names.
type Node interface {
	isNode()
	Ident() string // the mangled Go identifier this node emits as
}

// Struct is IR.Struct: a Go struct type from a complexType.
type Struct struct {
	Name   string
	QName  qname.QName
	Base   *TypeRef // embedded base type from extension/restriction, nil if none
	Fields []Field
	Mixed  bool
	Doc    string
}

func (*Struct) isNode()         {}
func (s *Struct) Ident() string { return s.Name }

// EnumVariant is one member of an IR.Enum.
type EnumVariant struct {
	Name    string
	QName   qname.QName
	Payload *TypeRef
}

// Enum is IR.Enum: a tagged union, from a choice particle or a
// simpleType union. Substitution groups are not lowered to an Enum.
type Enum struct {
	Name     string
	QName    qname.QName
	Variants []EnumVariant
	Doc      string
}

func (*Enum) isNode()         {}
func (e *Enum) Ident() string { return e.Name }

// Alias is IR.Alias: a named type with no added structure, from a
// simpleType restriction without an enumeration facet.
type Alias struct {
	Name   string
	QName  qname.QName
	Target TypeRef
	Doc    string
}

func (*Alias) isNode()         {}
func (a *Alias) Ident() string { return a.Name }

// StringEnum is IR.StringEnum: a named string type with a closed set of
// cases, from a simpleType restriction's enumeration facet.
type StringEnum struct {
	Name  string
	QName qname.QName
	Cases []string
	Doc   string
}

func (*StringEnum) isNode()         {}
func (s *StringEnum) Ident() string { return s.Name }

// List is IR.List: a named slice type, from an xs:list simpleType.
type List struct {
	Name    string
	QName   qname.QName
	Element TypeRef
	Doc     string
}

func (*List) isNode()         {}
func (l *List) Ident() string { return l.Name }

// Op is one IR.ServiceClient operation.
type Op struct {
	Name       string
	SOAPAction string
	Input      TypeRef
	Output     *TypeRef
	Faults     []TypeRef
	OneWay     bool
	Doc        string
}

// ServiceClient is IR.ServiceClient: a typed client for one WSDL binding
// bound to one port address.
type ServiceClient struct {
	Name       string
	QName      qname.QName
	Address    string
	Operations []Op
	Doc        string
}

func (*ServiceClient) isNode()         {}
func (s *ServiceClient) Ident() string { return s.Name }
