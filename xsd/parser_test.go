package xsd_test

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tjbrewster/wsdlgen/xmltree"
	"github.com/tjbrewster/wsdlgen/xsd"
)

const colorSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
  <xs:simpleType name="Color">
    <xs:restriction base="xs:string">
      <xs:enumeration value="red"/>
      <xs:enumeration value="green"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:complexType name="Node">
    <xs:sequence>
      <xs:element name="Value" type="xs:string" minOccurs="0"/>
      <xs:element name="Next" type="tns:Node" minOccurs="0" xmlns:tns="urn:test"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`

func parseString(t *testing.T, doc string) *xsd.Schema {
	t.Helper()
	root, err := xmltree.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	s, warnings, err := xsd.Parse(root, "test", zerolog.Nop())
	require.NoError(t, err)
	require.Empty(t, warnings)
	return s
}

func TestParseEnumeration(t *testing.T) {
	s := parseString(t, colorSchema)
	require.Len(t, s.SimpleTypes, 1)
	st := s.SimpleTypes[0]
	require.NotNil(t, st.Restriction)
	require.Equal(t, []string{"red", "green"}, st.Restriction.Facets.Enumeration)
}

func TestParseComplexTypeSequence(t *testing.T) {
	s := parseString(t, colorSchema)
	require.Len(t, s.ComplexTypes, 1)
	ct := s.ComplexTypes[0]
	require.Equal(t, "Node", ct.Name.Local)
	seq, ok := ct.Content.(*xsd.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Particles, 2)
	ep, ok := seq.Particles[1].(*xsd.ElementParticle)
	require.True(t, ok)
	require.Equal(t, "Next", ep.Element.Name.Local)
	require.Equal(t, "Node", ep.Element.TypeRef.Local)
	require.Equal(t, 0, ep.Element.Min)
}

func TestParseUnknownFacetIsWarningNotError(t *testing.T) {
	doc := `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
  <xs:simpleType name="Weird">
    <xs:restriction base="xs:string">
      <xs:whiteSpace value="collapse"/>
    </xs:restriction>
  </xs:simpleType>
</xs:schema>`
	root, err := xmltree.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	s, warnings, err := xsd.Parse(root, "test", zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Len(t, s.SimpleTypes, 1)
}
