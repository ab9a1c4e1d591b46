package ir_test

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tjbrewster/wsdlgen/ir"
	"github.com/tjbrewster/wsdlgen/resolve"
	"github.com/tjbrewster/wsdlgen/wsdl"
	"github.com/tjbrewster/wsdlgen/xmltree"
	"github.com/tjbrewster/wsdlgen/xsd"
)

func parseSchema(t *testing.T, doc string) *xsd.Schema {
	t.Helper()
	root, err := xmltree.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	s, warnings, err := xsd.Parse(root, "test", zerolog.Nop())
	require.NoError(t, err)
	require.Empty(t, warnings)
	return s
}

func nodeNames(nodes []ir.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Ident())
	}
	return out
}

func TestBuildCyclicStructGetsIndirectReference(t *testing.T) {
	s := parseSchema(t, `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:tns="urn:test" targetNamespace="urn:test">
  <xs:complexType name="Node">
    <xs:sequence>
      <xs:element name="Value" type="xs:string" minOccurs="0"/>
      <xs:element name="Next" type="tns:Node" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`)
	defs := &wsdl.Definitions{TargetNamespace: "urn:test", Schemas: []*xsd.Schema{s}}
	result, errs := resolve.Resolve(defs, zerolog.Nop())
	require.Empty(t, errs)

	nodes, err := ir.Build(defs, result, zerolog.Nop())
	require.NoError(t, err)
	require.Contains(t, nodeNames(nodes), "Node")

	var node *ir.Struct
	for _, n := range nodes {
		if st, ok := n.(*ir.Struct); ok && st.Name == "Node" {
			node = st
		}
	}
	require.NotNil(t, node)
	var next *ir.Field
	for i := range node.Fields {
		if node.Fields[i].Name == "Next" {
			next = &node.Fields[i]
		}
	}
	require.NotNil(t, next)
	require.True(t, next.Type.Indirect)
	require.Equal(t, ir.Optional, next.Cardinality)
}

func TestBuildStringEnumFromEnumerationFacet(t *testing.T) {
	s := parseSchema(t, `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
  <xs:simpleType name="Color">
    <xs:restriction base="xs:string">
      <xs:enumeration value="red"/>
      <xs:enumeration value="green"/>
    </xs:restriction>
  </xs:simpleType>
</xs:schema>`)
	defs := &wsdl.Definitions{TargetNamespace: "urn:test", Schemas: []*xsd.Schema{s}}
	result, errs := resolve.Resolve(defs, zerolog.Nop())
	require.Empty(t, errs)

	nodes, err := ir.Build(defs, result, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	se, ok := nodes[0].(*ir.StringEnum)
	require.True(t, ok)
	require.Equal(t, []string{"red", "green"}, se.Cases)
}

func TestBuildChoiceLowersToEnumField(t *testing.T) {
	s := parseSchema(t, `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
  <xs:complexType name="Shape">
    <xs:choice>
      <xs:element name="Circle" type="xs:string"/>
      <xs:element name="Square" type="xs:string"/>
    </xs:choice>
  </xs:complexType>
</xs:schema>`)
	defs := &wsdl.Definitions{TargetNamespace: "urn:test", Schemas: []*xsd.Schema{s}}
	result, errs := resolve.Resolve(defs, zerolog.Nop())
	require.Empty(t, errs)

	nodes, err := ir.Build(defs, result, zerolog.Nop())
	require.NoError(t, err)

	var shape *ir.Struct
	var enum *ir.Enum
	for _, n := range nodes {
		switch v := n.(type) {
		case *ir.Struct:
			if v.Name == "Shape" {
				shape = v
			}
		case *ir.Enum:
			enum = v
		}
	}
	require.NotNil(t, shape)
	require.NotNil(t, enum)
	require.Len(t, shape.Fields, 1)
	require.Equal(t, "Choice", shape.Fields[0].Name)
	require.Len(t, enum.Variants, 2)
}
