package xsd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tjbrewster/wsdlgen/qname"
	"github.com/tjbrewster/wsdlgen/xmltree"
)

// SchemaNamespace is the XML Schema namespace URI (§4.1).
const SchemaNamespace = "http://www.w3.org/2001/XMLSchema"

// parser holds the per-schema state needed for anonymous-type name
// synthesis (§4.1: "Name synthesis for anonymous inline types").
type parser struct {
	schema   *Schema
	log      zerolog.Logger
	warnings []error
	used     map[string]int
}

// Parse consumes a single xs:schema element and produces a Schema,
// per §4.1. Non-fatal diagnostics (unknown facets, unrecognized
// top-level constructs) are returned alongside the Schema rather than
// aborting the parse; fatal structural problems are returned as the
// error.
func Parse(root *xmltree.Element, location string, log zerolog.Logger) (*Schema, []error, error) {
	if root.Name.Local != "schema" {
		return nil, nil, &MalformedSchema{Path: xmltree.Path([]*xmltree.Element{root}), Reason: "expected xs:schema root element"}
	}
	s := &Schema{
		TargetNamespace:    root.AttributeOr("", "targetNamespace", ""),
		ElementFormDefault: root.AttributeOr("", "elementFormDefault", "unqualified"),
		SourceLocation:     location,
	}
	p := &parser{schema: s, log: log, used: make(map[string]int)}

	for _, child := range root.Children {
		switch child.Name.Local {
		case "annotation":
			// discarded, per §4.1 dispatch table.
		case "element":
			el, err := p.parseTopElement(child)
			if err != nil {
				return nil, p.warnings, err
			}
			s.Elements = append(s.Elements, el)
		case "complexType":
			ct, err := p.parseComplexType(child, "")
			if err != nil {
				return nil, p.warnings, err
			}
			s.ComplexTypes = append(s.ComplexTypes, ct)
		case "simpleType":
			st, err := p.parseSimpleType(child, "")
			if err != nil {
				return nil, p.warnings, err
			}
			s.SimpleTypes = append(s.SimpleTypes, st)
		case "attribute":
			a, err := p.parseAttribute(child, true)
			if err != nil {
				return nil, p.warnings, err
			}
			s.Attributes = append(s.Attributes, a)
		case "group":
			g, err := p.parseGroup(child)
			if err != nil {
				return nil, p.warnings, err
			}
			s.Groups = append(s.Groups, g)
		case "attributeGroup":
			ag, err := p.parseAttributeGroup(child)
			if err != nil {
				return nil, p.warnings, err
			}
			s.AttributeGroups = append(s.AttributeGroups, ag)
		case "import":
			s.Imports = append(s.Imports, &Import{
				Namespace:      child.AttributeOr("", "namespace", ""),
				SchemaLocation: child.AttributeOr("", "schemaLocation", ""),
			})
		case "include":
			s.Imports = append(s.Imports, &Import{
				SchemaLocation: child.AttributeOr("", "schemaLocation", ""),
				Include:        true,
			})
		default:
			p.warn(child, "unrecognized top-level schema construct %q ignored", child.Name.Local)
		}
	}
	return s, p.warnings, nil
}

func (p *parser) warn(el *xmltree.Element, format string, args ...interface{}) {
	p.warnings = append(p.warnings, &Warning{Path: el.Name.Local, Reason: fmt.Sprintf(format, args...)})
	p.log.Warn().Str("path", el.Name.Local).Msgf(format, args...)
}

func (p *parser) doc(el *xmltree.Element) string {
	ann := el.ChildByLocal("annotation")
	if ann == nil {
		return ""
	}
	var parts []string
	for _, d := range ann.ChildrenByLocal("documentation") {
		if t := strings.TrimSpace(d.Content); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// synthesize produces a unique anonymous-type name from a base, per
// §4.1: "parent-type-name + '_' + field-name; collisions within one
// schema are resolved by appending a monotonic integer suffix."
func (p *parser) synthesize(base string) string {
	n := p.used[base]
	p.used[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s%d", base, n+1)
}

func qualify(local string, schema *Schema, qualified bool) qname.QName {
	if qualified {
		return qname.QName{Space: schema.TargetNamespace, Local: local}
	}
	return qname.QName{Local: local}
}

func parseOccurs(el *xmltree.Element) (min, max int) {
	min = 1
	max = 1
	if v, ok := el.Attribute("", "minOccurs"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			min = n
		}
	}
	if v, ok := el.Attribute("", "maxOccurs"); ok {
		if v == "unbounded" {
			max = Unbounded
		} else if n, err := strconv.Atoi(v); err == nil {
			max = n
		}
	}
	return min, max
}

func (p *parser) parseTopElement(el *xmltree.Element) (*Element, error) {
	name := el.AttributeOr("", "name", "")
	if name == "" {
		return nil, &MalformedSchema{Path: el.Name.Local, Reason: "top-level element missing name"}
	}
	return p.parseElementBody(el, qname.QName{Space: p.schema.TargetNamespace, Local: name}, name)
}

// parseLocalElement parses an element declaration appearing inside a
// particle. namePath is the owning type's name; "_" plus the element's
// name is appended to it for anonymous type name synthesis (§4.1).
func (p *parser) parseLocalElement(el *xmltree.Element, namePath string) (*Element, error) {
	if _, ok := el.Attribute("", "ref"); ok {
		rq, _ := el.ResolveAttribute("", "ref")
		min, max := parseOccurs(el)
		return &Element{Ref: rq, Min: min, Max: max, Doc: p.doc(el)}, nil
	}
	name := el.AttributeOr("", "name", "")
	if name == "" {
		return nil, &MalformedSchema{Path: el.Name.Local, Reason: "local element missing name and ref"}
	}
	qualified := p.schema.ElementFormDefault == "qualified"
	if v, ok := el.Attribute("", "form"); ok {
		qualified = v == "qualified"
	}
	return p.parseElementBody(el, qualify(name, p.schema, qualified), namePath+"_"+name)
}

func (p *parser) parseElementBody(el *xmltree.Element, name qname.QName, anonBase string) (*Element, error) {
	e := &Element{Name: name, Doc: p.doc(el)}
	e.Min, e.Max = parseOccurs(el)
	e.Nillable, _ = parseBool(el.AttributeOr("", "nillable", "false"))
	e.Abstract, _ = parseBool(el.AttributeOr("", "abstract", "false"))
	if sg, ok := el.ResolveAttribute("", "substitutionGroup"); ok {
		e.SubstitutionGroup = sg
	}

	hasType := false
	if tq, ok := el.ResolveAttribute("", "type"); ok {
		e.TypeRef = tq
		hasType = true
	}
	var inlineCT, inlineST *xmltree.Element
	for _, c := range el.Children {
		switch c.Name.Local {
		case "complexType":
			inlineCT = c
		case "simpleType":
			inlineST = c
		}
	}
	if hasType && (inlineCT != nil || inlineST != nil) {
		return nil, &MalformedSchema{Path: name.String(), Reason: "element carries both a type attribute and inline content"}
	}
	switch {
	case inlineCT != nil:
		ct, err := p.parseComplexType(inlineCT, p.synthesize(anonBase))
		if err != nil {
			return nil, err
		}
		e.Inline = ct
	case inlineST != nil:
		st, err := p.parseSimpleType(inlineST, p.synthesize(anonBase))
		if err != nil {
			return nil, err
		}
		e.Inline = st
	}
	return e, nil
}

func parseBool(v string) (bool, error) {
	switch v {
	case "true", "1":
		return true, nil
	case "false", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}

func (p *parser) parseComplexType(el *xmltree.Element, anonName string) (*ComplexType, error) {
	ct := &ComplexType{Doc: p.doc(el)}
	if name := el.AttributeOr("", "name", ""); name != "" {
		ct.Name = qname.QName{Space: p.schema.TargetNamespace, Local: name}
	} else {
		ct.Name = qname.QName{Space: p.schema.TargetNamespace, Local: anonName}
	}
	ct.Abstract, _ = parseBool(el.AttributeOr("", "abstract", "false"))
	ct.Mixed, _ = parseBool(el.AttributeOr("", "mixed", "false"))

	if sc := el.ChildByLocal("simpleContent"); sc != nil {
		return p.parseSimpleContent(sc, ct)
	}
	if cc := el.ChildByLocal("complexContent"); cc != nil {
		return p.parseComplexContent(cc, ct)
	}
	// bare particle, per §4.1's dispatch order.
	for _, c := range el.Children {
		switch c.Name.Local {
		case "sequence", "choice", "all", "group":
			particle, err := p.parseParticle(c, ct.Name.Local)
			if err != nil {
				return nil, err
			}
			ct.Content = particle
		case "attribute":
			a, err := p.parseAttribute(c, false)
			if err != nil {
				return nil, err
			}
			ct.Attributes = append(ct.Attributes, a)
		case "attributeGroup":
			if ref, ok := c.ResolveAttribute("", "ref"); ok {
				ct.Attributes = append(ct.Attributes, &Attribute{Ref: ref})
			}
		case "anyAttribute", "annotation":
			// discarded: no wire-shape effect we model.
		}
	}
	return ct, nil
}

func (p *parser) parseSimpleContent(sc *xmltree.Element, ct *ComplexType) (*ComplexType, error) {
	ct.IsSimpleContent = true
	ext := sc.ChildByLocal("extension")
	restr := sc.ChildByLocal("restriction")
	src := ext
	ct.HasBase = true
	ct.BaseExtends = ext != nil
	if src == nil {
		src = restr
	}
	if src == nil {
		return nil, &MalformedSchema{Path: ct.Name.String(), Reason: "simpleContent without extension or restriction"}
	}
	base, ok := src.ResolveAttribute("", "base")
	if !ok {
		return nil, &MalformedSchema{Path: ct.Name.String(), Reason: "simpleContent extension/restriction missing base"}
	}
	ct.Base = base
	ct.SimpleContentBase = base
	for _, a := range src.ChildrenByLocal("attribute") {
		attr, err := p.parseAttribute(a, false)
		if err != nil {
			return nil, err
		}
		ct.Attributes = append(ct.Attributes, attr)
	}
	return ct, nil
}

func (p *parser) parseComplexContent(cc *xmltree.Element, ct *ComplexType) (*ComplexType, error) {
	ext := cc.ChildByLocal("extension")
	restr := cc.ChildByLocal("restriction")
	src := ext
	ct.HasBase = true
	ct.BaseExtends = ext != nil
	if src == nil {
		src = restr
	}
	if src == nil {
		return nil, &MalformedSchema{Path: ct.Name.String(), Reason: "complexContent without extension or restriction"}
	}
	base, ok := src.ResolveAttribute("", "base")
	if !ok {
		return nil, &MalformedSchema{Path: ct.Name.String(), Reason: "complexContent extension/restriction missing base"}
	}
	ct.Base = base
	for _, c := range src.Children {
		switch c.Name.Local {
		case "sequence", "choice", "all", "group":
			particle, err := p.parseParticle(c, ct.Name.Local)
			if err != nil {
				return nil, err
			}
			ct.Content = particle
		case "attribute":
			a, err := p.parseAttribute(c, false)
			if err != nil {
				return nil, err
			}
			ct.Attributes = append(ct.Attributes, a)
		case "attributeGroup":
			if ref, ok := c.ResolveAttribute("", "ref"); ok {
				ct.Attributes = append(ct.Attributes, &Attribute{Ref: ref})
			}
		}
	}
	return ct, nil
}

func (p *parser) parseParticle(el *xmltree.Element, namePath string) (Particle, error) {
	min, max := parseOccurs(el)
	switch el.Name.Local {
	case "sequence":
		seq := &Sequence{occurs: occurs{min, max}}
		for _, c := range el.Children {
			child, err := p.parseParticleChild(c, namePath)
			if err != nil {
				return nil, err
			}
			if child != nil {
				seq.Particles = append(seq.Particles, child)
			}
		}
		return seq, nil
	case "choice":
		ch := &Choice{occurs: occurs{min, max}}
		for _, c := range el.Children {
			child, err := p.parseParticleChild(c, namePath)
			if err != nil {
				return nil, err
			}
			if child != nil {
				ch.Particles = append(ch.Particles, child)
			}
		}
		return ch, nil
	case "all":
		all := &All{occurs: occurs{min, max}}
		for _, c := range el.Children {
			child, err := p.parseParticleChild(c, namePath)
			if err != nil {
				return nil, err
			}
			if child != nil {
				all.Particles = append(all.Particles, child)
			}
		}
		return all, nil
	case "group":
		ref, ok := el.ResolveAttribute("", "ref")
		if !ok {
			return nil, &MalformedSchema{Path: namePath, Reason: "group particle missing ref"}
		}
		return &GroupRef{occurs: occurs{min, max}, Ref: ref}, nil
	case "element":
		e, err := p.parseLocalElement(el, namePath)
		if err != nil {
			return nil, err
		}
		emin, emax := parseOccurs(el)
		return &ElementParticle{occurs: occurs{emin, emax}, Element: e}, nil
	case "any":
		return &Any{occurs: occurs{min, max}}, nil
	default:
		p.warn(el, "unsupported particle construct %q skipped", el.Name.Local)
		return nil, nil
	}
}

func (p *parser) parseParticleChild(el *xmltree.Element, namePath string) (Particle, error) {
	switch el.Name.Local {
	case "sequence", "choice", "all", "group", "element", "any":
		return p.parseParticle(el, namePath)
	case "annotation":
		return nil, nil
	default:
		p.warn(el, "unsupported particle child %q skipped", el.Name.Local)
		return nil, nil
	}
}

func (p *parser) parseSimpleType(el *xmltree.Element, anonName string) (*SimpleType, error) {
	st := &SimpleType{Doc: p.doc(el)}
	if name := el.AttributeOr("", "name", ""); name != "" {
		st.Name = qname.QName{Space: p.schema.TargetNamespace, Local: name}
	} else {
		st.Name = qname.QName{Space: p.schema.TargetNamespace, Local: anonName}
	}
	restr := el.ChildByLocal("restriction")
	list := el.ChildByLocal("list")
	union := el.ChildByLocal("union")
	switch {
	case restr != nil:
		base, _ := restr.ResolveAttribute("", "base")
		st.Restriction = &Restriction{Base: base, Facets: p.parseFacets(restr)}
	case list != nil:
		item, _ := list.ResolveAttribute("", "itemType")
		st.List = &ListType{ItemType: item}
	case union != nil:
		var members []qname.QName
		if v, ok := union.Attribute("", "memberTypes"); ok {
			for _, tok := range strings.Fields(v) {
				members = append(members, union.Scope.Resolve(tok))
			}
		}
		st.Union = &UnionType{MemberTypes: members}
	default:
		return nil, &MalformedSchema{Path: st.Name.String(), Reason: "simpleType without restriction, list, or union"}
	}
	return st, nil
}

func (p *parser) parseFacets(restr *xmltree.Element) Facets {
	f := Facets{Other: map[string]string{}}
	for _, c := range restr.Children {
		v, _ := c.Attribute("", "value")
		switch c.Name.Local {
		case "enumeration":
			f.Enumeration = append(f.Enumeration, v)
		case "pattern":
			f.Pattern = v
		case "minInclusive":
			f.MinInclusive = v
		case "maxInclusive":
			f.MaxInclusive = v
		case "minExclusive":
			f.MinExclusive = v
		case "maxExclusive":
			f.MaxExclusive = v
		case "length":
			f.Length = v
		case "minLength":
			f.MinLength = v
		case "maxLength":
			f.MaxLength = v
		case "totalDigits":
			f.TotalDigits = v
		case "fractionDigits":
			f.FractionDig = v
		case "annotation":
			// ignored
		default:
			p.warn(c, "unknown facet %q", c.Name.Local)
			f.Other[c.Name.Local] = v
		}
	}
	return f
}

func (p *parser) parseGroup(el *xmltree.Element) (*Group, error) {
	name := el.AttributeOr("", "name", "")
	if name == "" {
		return nil, &MalformedSchema{Path: "group", Reason: "top-level group missing name"}
	}
	g := &Group{Name: qname.QName{Space: p.schema.TargetNamespace, Local: name}, Doc: p.doc(el)}
	for _, c := range el.Children {
		switch c.Name.Local {
		case "sequence", "choice", "all":
			particle, err := p.parseParticle(c, name)
			if err != nil {
				return nil, err
			}
			g.Content = particle
		}
	}
	return g, nil
}

func (p *parser) parseAttributeGroup(el *xmltree.Element) (*AttributeGroup, error) {
	name := el.AttributeOr("", "name", "")
	if name == "" {
		return nil, &MalformedSchema{Path: "attributeGroup", Reason: "top-level attributeGroup missing name"}
	}
	ag := &AttributeGroup{Name: qname.QName{Space: p.schema.TargetNamespace, Local: name}, Doc: p.doc(el)}
	for _, c := range el.Children {
		switch c.Name.Local {
		case "attribute":
			a, err := p.parseAttribute(c, false)
			if err != nil {
				return nil, err
			}
			ag.Attributes = append(ag.Attributes, a)
		case "attributeGroup":
			if ref, ok := c.ResolveAttribute("", "ref"); ok {
				ag.Attributes = append(ag.Attributes, &Attribute{Ref: ref})
			}
		}
	}
	return ag, nil
}

func (p *parser) parseAttribute(el *xmltree.Element, topLevel bool) (*Attribute, error) {
	if _, ok := el.Attribute("", "ref"); ok {
		rq, _ := el.ResolveAttribute("", "ref")
		return &Attribute{Ref: rq}, nil
	}
	name := el.AttributeOr("", "name", "")
	if name == "" {
		return nil, &MalformedSchema{Path: "attribute", Reason: "attribute missing name and ref"}
	}
	a := &Attribute{Name: qname.QName{Space: p.schema.TargetNamespace, Local: name}, Doc: p.doc(el)}
	if t, ok := el.ResolveAttribute("", "type"); ok {
		a.TypeRef = t
	}
	a.Default = el.AttributeOr("", "default", "")
	switch el.AttributeOr("", "use", "optional") {
	case "required":
		a.Use = UseRequired
	case "prohibited":
		a.Use = UseProhibited
	default:
		a.Use = UseOptional
	}
	return a, nil
}
