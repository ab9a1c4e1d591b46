package resolve_test

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tjbrewster/wsdlgen/qname"
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

const cyclicSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:tns="urn:test" targetNamespace="urn:test">
  <xs:complexType name="Node">
    <xs:sequence>
      <xs:element name="Value" type="xs:string" minOccurs="0"/>
      <xs:element name="Next" type="tns:Node" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`

const acyclicSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:tns="urn:test" targetNamespace="urn:test">
  <xs:complexType name="Address">
    <xs:sequence>
      <xs:element name="City" type="xs:string"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="Person">
    <xs:sequence>
      <xs:element name="Name" type="xs:string"/>
      <xs:element name="Home" type="tns:Address"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`

func TestResolveDetectsSelfReferentialCycle(t *testing.T) {
	s := parseSchema(t, cyclicSchema)
	defs := &wsdl.Definitions{TargetNamespace: "urn:test", Schemas: []*xsd.Schema{s}}

	result, errs := resolve.Resolve(defs, zerolog.Nop())
	require.Empty(t, errs)
	require.Len(t, result.SCCs, 1)
	require.True(t, result.Cyclic(qname.QName{Space: "urn:test", Local: "Node"}))
}

func TestResolveAcyclicGraphHasNoSCCs(t *testing.T) {
	s := parseSchema(t, acyclicSchema)
	defs := &wsdl.Definitions{TargetNamespace: "urn:test", Schemas: []*xsd.Schema{s}}

	result, errs := resolve.Resolve(defs, zerolog.Nop())
	require.Empty(t, errs)
	require.Empty(t, result.SCCs)
	require.False(t, result.Cyclic(qname.QName{Space: "urn:test", Local: "Person"}))
}

func TestResolveUnresolvedReference(t *testing.T) {
	doc := `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:tns="urn:test" targetNamespace="urn:test">
  <xs:complexType name="Widget">
    <xs:sequence>
      <xs:element name="Gadget" type="tns:Missing"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`
	s := parseSchema(t, doc)
	defs := &wsdl.Definitions{TargetNamespace: "urn:test", Schemas: []*xsd.Schema{s}}

	_, errs := resolve.Resolve(defs, zerolog.Nop())
	require.Len(t, errs, 1)
	_, ok := errs[0].(*resolve.UnresolvedReference)
	require.True(t, ok)
}

func TestResolveDuplicateNameAcrossSchemas(t *testing.T) {
	doc := `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
  <xs:complexType name="Widget">
    <xs:sequence/>
  </xs:complexType>
</xs:schema>`
	s1 := parseSchema(t, doc)
	s2 := parseSchema(t, doc)
	defs := &wsdl.Definitions{TargetNamespace: "urn:test", Schemas: []*xsd.Schema{s1, s2}}

	_, errs := resolve.Resolve(defs, zerolog.Nop())
	require.Len(t, errs, 1)
	_, ok := errs[0].(*resolve.DuplicateName)
	require.True(t, ok)
}
