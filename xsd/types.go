// Package xsd parses the XML Schema (XSD) fragments of a WSDL document
// into a normalized object model (§3, §4.1 of the toolchain design).
//
// The parser is deliberately tolerant: unknown facets become warnings,
// not errors, and only the constructs needed to describe a SOAP client's
// wire types are modeled (no schema-validation-grade fidelity).
package xsd

import "github.com/tjbrewster/wsdlgen/qname"

// Unbounded is the sentinel maxOccurs value for "unbounded".
const Unbounded = -1

// Schema is the ordered sequence of top-level declarations from one
// xs:schema element, per §3.
type Schema struct {
	TargetNamespace    string
	ElementFormDefault string // "qualified" or "unqualified"
	SourceLocation     string // the document this schema was parsed from, for error messages

	Elements        []*Element
	SimpleTypes     []*SimpleType
	ComplexTypes    []*ComplexType
	Attributes      []*Attribute
	Groups          []*Group
	AttributeGroups []*AttributeGroup
	Imports         []*Import
}

// Import is a resolved or not-yet-resolved xs:import/xs:include.
type Import struct {
	Namespace      string
	SchemaLocation string
	Include        bool // true for xs:include (no namespace change)
}

// Element is an element declaration, top-level or local to a particle.
type Element struct {
	Name qname.QName

	// At most one of TypeRef or Inline is set (the parser rejects an
	// element carrying both). Both are zero when Ref is set instead (an
	// ElementRef sentinel, resolved later against the global element
	// table, per §4.1) or when the declaration names no type at all.
	TypeRef qname.QName
	Inline  Type // *ComplexType or *SimpleType, for anonymous inline content
	Ref     qname.QName

	Nillable bool
	Min      int
	Max      int // Unbounded sentinel for "unbounded"

	Abstract          bool
	SubstitutionGroup qname.QName

	Doc string
}

// Type is implemented by *SimpleType and *ComplexType, so Element.Inline
// and other type-valued fields can hold either without an interface{}.
type Type interface{ isXSDType() }

// SimpleType is one of restriction, list, or union (§3).
type SimpleType struct {
	Name qname.QName // for an anonymous inline type, the name synthesized from its container

	Restriction *Restriction
	List        *ListType
	Union       *UnionType

	Doc string
}

func (*SimpleType) isXSDType() {}

// Restriction narrows a base type by facets.
type Restriction struct {
	Base   qname.QName
	Facets Facets
}

// Facets is an open map of restriction facets. Enumeration is modeled
// separately (as an ordered slice) because it is the one facet the IR
// builder lowers into a distinct node kind (IR.StringEnum); everything
// else is carried through opaquely per §4.1 ("unknown facets become a
// warning, not an error").
type Facets struct {
	Enumeration  []string
	Pattern      string
	MinInclusive string
	MaxInclusive string
	MinExclusive string
	MaxExclusive string
	Length       string
	MinLength    string
	MaxLength    string
	TotalDigits  string
	FractionDig  string
	Other        map[string]string
}

// ListType is xs:list.
type ListType struct {
	ItemType qname.QName
}

// UnionType is xs:union.
type UnionType struct {
	MemberTypes []qname.QName
}

// ComplexType describes a struct-shaped type (§3).
type ComplexType struct {
	Name     qname.QName // for an anonymous inline type, the name synthesized from its container
	Abstract bool
	Mixed    bool
	Doc      string

	// Base is set when Content is simpleExtension/simpleRestriction or
	// complexExtension/complexRestriction.
	Base        qname.QName
	HasBase     bool
	BaseExtends bool // true: extension, false: restriction

	// Content is nil for an empty content model, or set to the particle
	// tree for complex content.
	Content Particle

	// SimpleContentBase/IsSimpleContent: a complexType/simpleContent
	// whose character data is typed, commonly used to add attributes to
	// an otherwise-simple value.
	IsSimpleContent   bool
	SimpleContentBase qname.QName

	Attributes []*Attribute
}

func (*ComplexType) isXSDType() {}

// Particle is the recursive content-model tree (§3, §9): Sequence,
// Choice, All, GroupRef, ElementParticle, or Any.
type Particle interface {
	isParticle()
	Occurs() (min, max int)
}

type occurs struct{ Min, Max int }

func (o occurs) Occurs() (int, int) { return o.Min, o.Max }

// Sequence is an ordered particle group.
type Sequence struct {
	occurs
	Particles []Particle
}

func (*Sequence) isParticle() {}

// Choice is a tagged-union particle group (§9: lowered to a sum type).
type Choice struct {
	occurs
	Particles []Particle
}

func (*Choice) isParticle() {}

// All is an unordered particle group where each member occurs 0 or 1 times.
type All struct {
	occurs
	Particles []Particle
}

func (*All) isParticle() {}

// GroupRef references a named xs:group by QName, resolved later.
type GroupRef struct {
	occurs
	Ref qname.QName
}

func (*GroupRef) isParticle() {}

// ElementParticle wraps an Element as a particle.
type ElementParticle struct {
	occurs
	Element *Element
}

func (*ElementParticle) isParticle() {}

// Any is xs:any: an element of undeclared type/name.
type Any struct {
	occurs
}

func (*Any) isParticle() {}

// Group is a named, reusable particle group (xs:group).
type Group struct {
	Name    qname.QName
	Content Particle
	Doc     string
}

// AttributeGroup is a named, reusable set of attributes (xs:attributeGroup).
type AttributeGroup struct {
	Name       qname.QName
	Attributes []*Attribute
	Doc        string
}

// AttributeUse is the use ∈ {required, optional, prohibited} of §3.
type AttributeUse int

const (
	UseOptional AttributeUse = iota
	UseRequired
	UseProhibited
)

// Attribute is an attribute declaration, top-level or local.
type Attribute struct {
	Name    qname.QName
	TypeRef qname.QName
	Ref     qname.QName
	Use     AttributeUse
	Default string
	Doc     string
}
