// Package resolve implements the Type Resolver (§4.3): it seeds a
// TypeMap with XSD built-ins, walks every schema's top-level
// declarations into it, builds the dependency graph those declarations
// imply, and partitions that graph into strongly connected components
// so the IR builder knows which types need a pointer indirection to
// break a cycle.
package resolve

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/tjbrewster/wsdlgen/qname"
	"github.com/tjbrewster/wsdlgen/wsdl"
	"github.com/tjbrewster/wsdlgen/xsd"
)

// Kind distinguishes the four namespaces a QualifiedName can live in:
// element vs type vs group vs attributeGroup declarations with the same
// name do not collide (§4.3 step 2).
type Kind int

const (
	KindType Kind = iota
	KindElement
	KindGroup
	KindAttributeGroup
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindElement:
		return "element"
	case KindGroup:
		return "group"
	case KindAttributeGroup:
		return "attributeGroup"
	default:
		return "unknown"
	}
}

type Key struct {
	QName qname.QName
	Kind  Kind
}

// TypeMap is the QualifiedName → Declaration map of §4.3's contract.
// Declaration is one of *Builtin, *xsd.SimpleType, *xsd.ComplexType,
// *xsd.Element, *xsd.Group, or *xsd.AttributeGroup.
type TypeMap struct {
	declarations map[Key]interface{}
}

func newTypeMap() *TypeMap {
	m := &TypeMap{declarations: make(map[Key]interface{})}
	seedBuiltins(m)
	return m
}

// Lookup returns the declaration registered for qn under kind, if any.
func (m *TypeMap) Lookup(qn qname.QName, kind Kind) (interface{}, bool) {
	d, ok := m.declarations[Key{qn, kind}]
	return d, ok
}

// Declarations returns every non-builtin QualifiedName registered under
// kind, sorted for determinism. Used by the ir package to enumerate the
// full node set, including leaf declarations with no outgoing
// dependency edges (and so invisible to Graph.Edges alone).
func (m *TypeMap) Declarations(kind Kind) []qname.QName {
	var out []qname.QName
	for k := range m.declarations {
		if k.Kind == kind && !IsBuiltin(k.QName) {
			out = append(out, k.QName)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (m *TypeMap) insert(qn qname.QName, kind Kind, decl interface{}) *DuplicateName {
	k := Key{qn, kind}
	if _, exists := m.declarations[k]; exists {
		return &DuplicateName{QName: qn, Kind: kind}
	}
	m.declarations[k] = decl
	return nil
}

// Graph is the DependencyGraph of §4.3: an edge A→B iff declaration A's
// definition textually references declaration B.
type Graph struct {
	edges map[Key][]Key
}

func newGraph() *Graph { return &Graph{edges: make(map[Key][]Key)} }

func (g *Graph) addEdge(from, to Key) {
	g.edges[from] = append(g.edges[from], to)
}

// Edges exposes the raw adjacency map for downstream consumers (the ir
// package's topological emission-order sort).
func (g *Graph) Edges() map[Key][]Key { return g.edges }

// Result is everything downstream stages (ir) need from resolution.
type Result struct {
	Types *TypeMap
	Graph *Graph

	// SCCs is every strongly connected component of size > 1, plus every
	// singleton that self-refers, in the order Tarjan's algorithm
	// produces them (reverse topological order of the condensation).
	SCCs [][]qname.QName

	// Substitutes maps an abstract element's QName to the QNames of its
	// non-abstract substitution-group members, in document order across
	// schemas (§4.3 tie-break rule).
	Substitutes map[qname.QName][]qname.QName
}

// Cyclic reports whether qn (a type or element) belongs to a
// multi-member SCC, or is a singleton SCC that refers to itself.
func (r *Result) Cyclic(qn qname.QName) bool {
	for _, scc := range r.SCCs {
		for _, m := range scc {
			if m == qn {
				return true
			}
		}
	}
	return false
}

// Resolve runs the full Type Resolver algorithm of §4.3 over defs,
// logging stage progress through log. Errors are batched: every
// DuplicateName and UnresolvedReference found is returned together
// rather than stopping at the first one, per §7's "resolver errors are
// batched" propagation policy.
func Resolve(defs *wsdl.Definitions, log zerolog.Logger) (*Result, []error) {
	m := newTypeMap()
	g := newGraph()
	var errs []error

	for _, schema := range defs.Schemas {
		insertDeclarations(m, schema, &errs)
	}

	subs := make(map[qname.QName][]qname.QName)
	for _, schema := range defs.Schemas {
		buildEdges(m, g, schema, &errs)
		for _, el := range schema.Elements {
			if !el.SubstitutionGroup.IsZero() && !el.Abstract {
				subs[el.SubstitutionGroup] = append(subs[el.SubstitutionGroup], el.Name)
			}
		}
	}

	sccs := tarjanSCC(g)
	log.Debug().
		Int("declarations", len(m.declarations)).
		Int("sccs", len(sccs)).
		Msg("type resolution complete")

	if len(errs) > 0 {
		return nil, errs
	}
	return &Result{Types: m, Graph: g, SCCs: sccsToQNames(sccs), Substitutes: subs}, nil
}

func insertDeclarations(m *TypeMap, schema *xsd.Schema, errs *[]error) {
	for _, st := range schema.SimpleTypes {
		if st.Name.IsZero() {
			continue // anonymous, not a top-level declaration
		}
		if err := m.insert(st.Name, KindType, st); err != nil {
			*errs = append(*errs, err)
		}
	}
	for _, ct := range schema.ComplexTypes {
		if ct.Name.IsZero() {
			continue
		}
		if err := m.insert(ct.Name, KindType, ct); err != nil {
			*errs = append(*errs, err)
		}
	}
	for _, el := range schema.Elements {
		if err := m.insert(el.Name, KindElement, el); err != nil {
			*errs = append(*errs, err)
		}
	}
	for _, grp := range schema.Groups {
		if err := m.insert(grp.Name, KindGroup, grp); err != nil {
			*errs = append(*errs, err)
		}
	}
	for _, ag := range schema.AttributeGroups {
		if err := m.insert(ag.Name, KindAttributeGroup, ag); err != nil {
			*errs = append(*errs, err)
		}
	}
}

func buildEdges(m *TypeMap, g *Graph, schema *xsd.Schema, errs *[]error) {
	for _, st := range schema.SimpleTypes {
		if st.Name.IsZero() {
			continue
		}
		from := Key{st.Name, KindType}
		walkSimpleTypeRefs(m, g, from, st, errs)
	}
	for _, ct := range schema.ComplexTypes {
		if ct.Name.IsZero() {
			continue
		}
		from := Key{ct.Name, KindType}
		walkComplexTypeRefs(m, g, from, ct, errs)
	}
	for _, el := range schema.Elements {
		from := Key{el.Name, KindElement}
		walkElementRefs(m, g, from, el, errs)
	}
	for _, grp := range schema.Groups {
		from := Key{grp.Name, KindGroup}
		walkParticleRefs(m, g, from, grp.Content, errs)
	}
	for _, ag := range schema.AttributeGroups {
		from := Key{ag.Name, KindAttributeGroup}
		for _, a := range ag.Attributes {
			walkAttributeRef(m, g, from, a, errs)
		}
	}
}

func walkSimpleTypeRefs(m *TypeMap, g *Graph, from Key, st *xsd.SimpleType, errs *[]error) {
	switch {
	case st.Restriction != nil:
		refEdge(m, g, from, KindType, st.Restriction.Base, errs)
	case st.List != nil:
		refEdge(m, g, from, KindType, st.List.ItemType, errs)
	case st.Union != nil:
		for _, mt := range st.Union.MemberTypes {
			refEdge(m, g, from, KindType, mt, errs)
		}
	}
}

func walkComplexTypeRefs(m *TypeMap, g *Graph, from Key, ct *xsd.ComplexType, errs *[]error) {
	if ct.HasBase {
		refEdge(m, g, from, KindType, ct.Base, errs)
	}
	if ct.IsSimpleContent {
		refEdge(m, g, from, KindType, ct.SimpleContentBase, errs)
	}
	if ct.Content != nil {
		walkParticleRefs(m, g, from, ct.Content, errs)
	}
	for _, a := range ct.Attributes {
		walkAttributeRef(m, g, from, a, errs)
	}
}

func walkParticleRefs(m *TypeMap, g *Graph, from Key, p xsd.Particle, errs *[]error) {
	switch v := p.(type) {
	case *xsd.Sequence:
		for _, c := range v.Particles {
			walkParticleRefs(m, g, from, c, errs)
		}
	case *xsd.Choice:
		for _, c := range v.Particles {
			walkParticleRefs(m, g, from, c, errs)
		}
	case *xsd.All:
		for _, c := range v.Particles {
			walkParticleRefs(m, g, from, c, errs)
		}
	case *xsd.GroupRef:
		refEdge(m, g, from, KindGroup, v.Ref, errs)
	case *xsd.ElementParticle:
		walkElementRefs(m, g, from, v.Element, errs)
	case *xsd.Any:
		// no declared reference to follow.
	}
}

func walkElementRefs(m *TypeMap, g *Graph, from Key, el *xsd.Element, errs *[]error) {
	if !el.Ref.IsZero() {
		refEdge(m, g, from, KindElement, el.Ref, errs)
		return
	}
	if !el.TypeRef.IsZero() {
		refEdge(m, g, from, KindType, el.TypeRef, errs)
		return
	}
	switch inline := el.Inline.(type) {
	case *xsd.ComplexType:
		walkComplexTypeRefs(m, g, from, inline, errs)
	case *xsd.SimpleType:
		walkSimpleTypeRefs(m, g, from, inline, errs)
	}
}

// walkAttributeRef handles both genuine attribute refs and the
// attributeGroup refs the parser represents as an Attribute carrying
// only a Ref (see xsd/parser.go's attributeGroup case): a bare Ref with
// no resolved type is always an attributeGroup reference in this
// representation.
func walkAttributeRef(m *TypeMap, g *Graph, from Key, a *xsd.Attribute, errs *[]error) {
	if !a.Ref.IsZero() {
		refEdge(m, g, from, KindAttributeGroup, a.Ref, errs)
		return
	}
	if !a.TypeRef.IsZero() {
		refEdge(m, g, from, KindType, a.TypeRef, errs)
	}
}

func refEdge(m *TypeMap, g *Graph, from Key, kind Kind, qn qname.QName, errs *[]error) {
	if qn.IsZero() {
		return
	}
	if IsBuiltin(qn) {
		return // built-ins are leaves; no edge needed for SCC purposes
	}
	to := Key{qn, kind}
	if _, ok := m.declarations[to]; !ok {
		*errs = append(*errs, &UnresolvedReference{QName: qn, Referrer: from.QName})
		return
	}
	g.addEdge(from, to)
}

func sccsToQNames(sccs [][]Key) [][]qname.QName {
	out := make([][]qname.QName, 0, len(sccs))
	for _, scc := range sccs {
		qs := make([]qname.QName, len(scc))
		for i, k := range scc {
			qs[i] = k.QName
		}
		out = append(out, qs)
	}
	return out
}
