package ir

import (
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tjbrewster/wsdlgen/qname"
	"github.com/tjbrewster/wsdlgen/resolve"
	"github.com/tjbrewster/wsdlgen/wsdl"
	"github.com/tjbrewster/wsdlgen/xsd"
)

// goPrimitives maps an XSD built-in local name to the Go primitive (or
// stdlib type) that represents it on the wire. Anything not listed
// falls back to "string", the least lossy universal representation.
var goPrimitives = map[string]string{
	"string": "string", "normalizedString": "string", "token": "string",
	"language": "string", "NMTOKEN": "string", "Name": "string", "NCName": "string",
	"ID": "string", "IDREF": "string", "ENTITY": "string", "anyURI": "string",
	"QName": "string", "NOTATION": "string", "duration": "string", "anySimpleType": "string",
	"NMTOKENS": "[]string", "IDREFS": "[]string", "ENTITIES": "[]string",
	"boolean":            "bool",
	"int":                "int32",
	"integer":            "int64",
	"long":               "int64",
	"short":              "int16",
	"byte":               "int8",
	"nonPositiveInteger": "int64",
	"negativeInteger":    "int64",
	"unsignedLong":       "uint64",
	"unsignedInt":        "uint32",
	"unsignedShort":      "uint16",
	"unsignedByte":       "uint8",
	"nonNegativeInteger": "uint64",
	"positiveInteger":    "uint64",
	"decimal":            "float64",
	"float":              "float32",
	"double":             "float64",
	"dateTime":           "time.Time",
	"date":               "time.Time",
	"time":               "time.Time",
	"gYearMonth":         "string",
	"gYear":              "string",
	"gMonthDay":          "string",
	"gDay":               "string",
	"gMonth":             "string",
	"hexBinary":          "[]byte",
	"base64Binary":       "[]byte",
	"anyType":            "interface{}",
}

type builder struct {
	res     *resolve.Result
	mangler *Mangler
	log     zerolog.Logger
	counter int
}

// Build lowers a resolved WebServiceDescription into a stable-ordered
// list of IR nodes, per §4.4's contract.
func Build(defs *wsdl.Definitions, res *resolve.Result, log zerolog.Logger) ([]Node, error) {
	b := &builder{res: res, mangler: NewMangler(), log: log}

	var nodes []Node
	for _, qn := range computeOrder(res) {
		if decl, ok := res.Types.Lookup(qn.QName, qn.Kind); ok {
			nodes = append(nodes, b.lowerDeclaration(qn.Kind, decl)...)
		}
	}

	clients := b.lowerServices(defs)
	for _, c := range clients {
		nodes = append(nodes, c)
	}

	log.Debug().Int("nodes", len(nodes)).Msg("IR build complete")
	return nodes, nil
}

func (b *builder) lowerDeclaration(kind resolve.Kind, decl interface{}) []Node {
	switch kind {
	case resolve.KindType:
		switch v := decl.(type) {
		case *xsd.SimpleType:
			return b.lowerSimpleType(v)
		case *xsd.ComplexType:
			return b.lowerComplexType(v)
		}
	case resolve.KindElement:
		el := decl.(*xsd.Element)
		if el.Ref.IsZero() && el.TypeRef.IsZero() && el.Inline != nil {
			return b.lowerInline(el.Name, el.Inline, el.Doc)
		}
	}
	return nil
}

func (b *builder) lowerInline(qn qname.QName, t xsd.Type, doc string) []Node {
	switch v := t.(type) {
	case *xsd.ComplexType:
		cp := *v
		cp.Name = qn
		cp.Doc = doc
		return b.lowerComplexType(&cp)
	case *xsd.SimpleType:
		cp := *v
		cp.Name = qn
		cp.Doc = doc
		return b.lowerSimpleType(&cp)
	}
	return nil
}

func (b *builder) lowerSimpleType(st *xsd.SimpleType) []Node {
	name := b.mangler.TypeName(st.Name)
	switch {
	case st.Restriction != nil && len(st.Restriction.Facets.Enumeration) > 0:
		return []Node{&StringEnum{Name: name, QName: st.Name, Cases: st.Restriction.Facets.Enumeration, Doc: st.Doc}}
	case st.Restriction != nil:
		return []Node{&Alias{Name: name, QName: st.Name, Target: b.typeRef(st.Restriction.Base), Doc: st.Doc}}
	case st.List != nil:
		return []Node{&List{Name: name, QName: st.Name, Element: b.typeRef(st.List.ItemType), Doc: st.Doc}}
	case st.Union != nil:
		var variants []EnumVariant
		for _, mt := range st.Union.MemberTypes {
			ref := b.typeRef(mt)
			variants = append(variants, EnumVariant{Name: FieldName(mt.Local), QName: mt, Payload: &ref})
		}
		return []Node{&Enum{Name: name, QName: st.Name, Variants: variants, Doc: st.Doc}}
	}
	return nil
}

func (b *builder) lowerComplexType(ct *xsd.ComplexType) []Node {
	s := &Struct{Name: b.mangler.TypeName(ct.Name), QName: ct.Name, Mixed: ct.Mixed, Doc: ct.Doc}
	var extra []Node

	if ct.HasBase {
		ref := b.typeRef(ct.Base)
		s.Base = &ref
	}
	if ct.IsSimpleContent {
		ref := b.typeRef(ct.SimpleContentBase)
		s.Fields = append(s.Fields, Field{Name: "Value", Type: ref, Cardinality: Required})
	}
	if ct.Content != nil {
		fields, nodes := b.lowerParticle(ct.Content, ct.Name)
		s.Fields = append(s.Fields, fields...)
		extra = append(extra, nodes...)
	}
	s.Fields = append(s.Fields, b.lowerAttributes(ct.Attributes)...)
	return append([]Node{s}, extra...)
}

// lowerAttributes lowers a complex type's or attribute group's
// attribute list into fields. A Ref with no TypeRef is, per the xsd
// parser's representation (see xsd/parser.go's attributeGroup case),
// an attributeGroup reference: its members are inlined here instead of
// carrying their own IR node, since XSD attribute groups exist purely
// for schema-authoring reuse and have no Go-visible identity of their
// own.
func (b *builder) lowerAttributes(attrs []*xsd.Attribute) []Field {
	var fields []Field
	for _, a := range attrs {
		if !a.Ref.IsZero() {
			if decl, ok := b.res.Types.Lookup(a.Ref, resolve.KindAttributeGroup); ok {
				ag := decl.(*xsd.AttributeGroup)
				fields = append(fields, b.lowerAttributes(ag.Attributes)...)
			}
			continue
		}
		if a.TypeRef.IsZero() {
			continue
		}
		card := Optional
		if a.Use == xsd.UseRequired {
			card = Required
		}
		fields = append(fields, Field{
			Name:        FieldName(a.Name.Local),
			XMLName:     a.Name,
			Attribute:   true,
			Type:        b.typeRef(a.TypeRef),
			Cardinality: card,
			Doc:         a.Doc,
		})
	}
	return fields
}

func (b *builder) lowerParticle(p xsd.Particle, owner qname.QName) ([]Field, []Node) {
	switch v := p.(type) {
	case *xsd.Sequence:
		return b.lowerParticleGroup(v.Particles, owner)
	case *xsd.All:
		fields, nodes := b.lowerParticleGroup(v.Particles, owner)
		for i := range fields {
			if fields[i].Cardinality == Required {
				fields[i].Cardinality = Optional
			}
		}
		return fields, nodes
	case *xsd.Choice:
		return b.lowerChoice(v, owner)
	case *xsd.GroupRef:
		if decl, ok := b.res.Types.Lookup(v.Ref, resolve.KindGroup); ok {
			if grp, ok := decl.(*xsd.Group); ok && grp.Content != nil {
				return b.lowerParticle(grp.Content, owner)
			}
		}
		return nil, nil
	case *xsd.ElementParticle:
		return b.lowerElementParticle(v, owner)
	case *xsd.Any:
		return []Field{{Name: "Any", Type: TypeRef{GoName: "[]byte"}, Cardinality: Optional}}, nil
	}
	return nil, nil
}

func (b *builder) lowerParticleGroup(particles []xsd.Particle, owner qname.QName) ([]Field, []Node) {
	var fields []Field
	var nodes []Node
	for _, p := range particles {
		f, n := b.lowerParticle(p, owner)
		fields = append(fields, f...)
		nodes = append(nodes, n...)
	}
	return fields, nodes
}

// lowerChoice synthesizes an IR.Enum node for the choice (§4.4's "from
// choice particles"), named after a counter-suffixed local name
// (<owner>Choice<n>) so the enums of multiple choices inside one complex
// type, or across the whole schema, never collide, and returns a single
// field named "Choice" of that enum type.
func (b *builder) lowerChoice(c *xsd.Choice, owner qname.QName) ([]Field, []Node) {
	b.counter++
	enumQName := qname.QName{Space: owner.Space, Local: owner.Local + "Choice" + strconv.Itoa(b.counter)}
	var variants []EnumVariant
	var extra []Node
	for _, p := range c.Particles {
		if ep, ok := p.(*xsd.ElementParticle); ok {
			ref, nodes := b.elementTypeRef(ep.Element, owner)
			extra = append(extra, nodes...)
			variants = append(variants, EnumVariant{Name: FieldName(ep.Element.Name.Local), QName: ep.Element.Name, Payload: &ref})
		}
	}
	enumName := b.mangler.TypeName(enumQName)
	extra = append(extra, &Enum{Name: enumName, QName: enumQName, Variants: variants})

	min, max := c.Occurs()
	field := Field{
		Name:        "Choice",
		Type:        TypeRef{QName: enumQName, GoName: enumName},
		Cardinality: lowerCardinality(min, max, false),
	}
	return []Field{field}, extra
}

func (b *builder) lowerElementParticle(ep *xsd.ElementParticle, owner qname.QName) ([]Field, []Node) {
	el := ep.Element
	ref, extra := b.elementTypeRef(el, owner)
	f := Field{
		Name:        FieldName(el.Name.Local),
		XMLName:     el.Name,
		Type:        ref,
		Cardinality: lowerCardinality(el.Min, el.Max, el.Nillable),
		Doc:         el.Doc,
	}
	return []Field{f}, extra
}

// elementTypeRef resolves the type an element particle's value takes,
// synthesizing a Struct/Alias/etc. node for an anonymous inline type
// when present.
func (b *builder) elementTypeRef(el *xsd.Element, owner qname.QName) (TypeRef, []Node) {
	switch {
	case !el.Ref.IsZero():
		return b.typeRef(el.Ref), nil
	case !el.TypeRef.IsZero():
		return b.typeRef(el.TypeRef), nil
	case el.Inline != nil:
		b.counter++
		synthetic := qname.QName{Space: owner.Space, Local: owner.Local + FieldName(el.Name.Local) + strconv.Itoa(b.counter)}
		nodes := b.lowerInline(synthetic, el.Inline, el.Doc)
		if len(nodes) == 0 {
			return TypeRef{GoName: "string", Primitive: true}, nil
		}
		return TypeRef{QName: synthetic, GoName: nodes[0].Ident()}, nodes
	default:
		return TypeRef{GoName: "string", Primitive: true}, nil
	}
}

func (b *builder) typeRef(qn qname.QName) TypeRef {
	if resolve.IsBuiltin(qn) {
		goName, ok := goPrimitives[qn.Local]
		if !ok {
			goName = "string"
		}
		return TypeRef{GoName: goName, Primitive: true}
	}
	return TypeRef{QName: qn, GoName: b.mangler.TypeName(qn), Indirect: b.res.Cyclic(qn)}
}

func lowerCardinality(min, max int, nillable bool) Cardinality {
	if max == xsd.Unbounded || max > 1 {
		return Repeated
	}
	if nillable {
		return OptionalWrapper
	}
	if min == 0 {
		return Optional
	}
	return Required
}

// orderedKey pairs a QualifiedName with the declaration Kind it was
// registered under, for computeOrder's combined node list.
type orderedKey struct {
	QName qname.QName
	Kind  resolve.Kind
}

// computeOrder produces the emission order of §4.4: a topological
// ordering of the dependency graph (dependencies before dependents),
// with every strongly connected component collapsed into one
// contiguous block (members sorted by QualifiedName) at the position
// of its earliest member.
func computeOrder(res *resolve.Result) []orderedKey {
	var all []resolve.Key
	for _, qn := range res.Types.Declarations(resolve.KindType) {
		all = append(all, resolve.Key{QName: qn, Kind: resolve.KindType})
	}
	for _, qn := range res.Types.Declarations(resolve.KindElement) {
		all = append(all, resolve.Key{QName: qn, Kind: resolve.KindElement})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].QName.String() < all[j].QName.String() })

	edges := res.Graph.Edges()
	visited := make(map[resolve.Key]bool, len(all))
	var post []resolve.Key
	var visit func(k resolve.Key)
	visit = func(k resolve.Key) {
		if visited[k] {
			return
		}
		visited[k] = true
		for _, to := range edges[k] {
			visit(to)
		}
		post = append(post, k)
	}
	for _, k := range all {
		visit(k)
	}

	pos := make(map[resolve.Key]int, len(post))
	for i, k := range post {
		pos[k] = i
	}

	sccBlock := make(map[resolve.Key][]qname.QName)
	sccMinPos := make(map[resolve.Key]int)
	inSCC := make(map[resolve.Key]bool)
	for _, scc := range res.SCCs {
		if len(scc) < 1 {
			continue
		}
		min := -1
		var keys []resolve.Key
		for _, qn := range scc {
			k := resolve.Key{QName: qn, Kind: resolve.KindType}
			if _, ok := pos[k]; !ok {
				k.Kind = resolve.KindElement
			}
			keys = append(keys, k)
			if p, ok := pos[k]; ok && (min < 0 || p < min) {
				min = p
			}
			inSCC[k] = true
		}
		for _, k := range keys {
			sccBlock[k] = scc
			sccMinPos[k] = min
		}
	}

	var ordered []orderedKey
	emittedSCC := make(map[string]bool)
	for _, k := range post {
		if inSCC[k] {
			block := sccBlock[k]
			id := block[0].String()
			if emittedSCC[id] {
				continue
			}
			emittedSCC[id] = true
			for _, qn := range block {
				kind := resolve.KindType
				if _, ok := pos[resolve.Key{QName: qn, Kind: resolve.KindType}]; !ok {
					kind = resolve.KindElement
				}
				ordered = append(ordered, orderedKey{QName: qn, Kind: kind})
			}
			continue
		}
		ordered = append(ordered, orderedKey{QName: k.QName, Kind: k.Kind})
	}
	return ordered
}
