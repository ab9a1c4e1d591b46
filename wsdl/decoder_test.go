package wsdl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tjbrewster/wsdlgen/xmltree"
)

const simpleWSDL = `<?xml version="1.0"?>
<definitions name="Calc" targetNamespace="urn:calc"
    xmlns="http://schemas.xmlsoap.org/wsdl/"
    xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
    xmlns:tns="urn:calc"
    xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <types>
    <xs:schema targetNamespace="urn:calc">
      <xs:element name="AddRequest" type="xs:int"/>
      <xs:element name="AddResponse" type="xs:int"/>
    </xs:schema>
  </types>
  <message name="AddRequest"><part name="body" element="tns:AddRequest"/></message>
  <message name="AddResponse"><part name="body" element="tns:AddResponse"/></message>
  <portType name="CalcPort">
    <operation name="Add">
      <input message="tns:AddRequest"/>
      <output message="tns:AddResponse"/>
    </operation>
  </portType>
  <binding name="CalcBinding" type="tns:CalcPort">
    <soap:binding style="document" transport="http://schemas.xmlsoap.org/soap/http"/>
    <operation name="Add">
      <soap:operation soapAction="urn:calc/Add"/>
    </operation>
  </binding>
  <service name="CalcService">
    <port name="CalcPort" binding="tns:CalcBinding">
      <soap:address location="http://example.com/calc"/>
    </port>
  </service>
</definitions>`

const rpcWSDL = `<?xml version="1.0"?>
<definitions name="Calc" targetNamespace="urn:calc"
    xmlns="http://schemas.xmlsoap.org/wsdl/"
    xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
    xmlns:tns="urn:calc">
  <portType name="CalcPort">
    <operation name="Add">
      <input message="tns:AddRequest"/>
    </operation>
  </portType>
  <binding name="CalcBinding" type="tns:CalcPort">
    <soap:binding style="rpc" transport="http://schemas.xmlsoap.org/soap/http"/>
    <operation name="Add"><soap:operation soapAction="urn:calc/Add"/></operation>
  </binding>
</definitions>`

func TestUnmarshalParsesAllTopLevelSections(t *testing.T) {
	d, err := Unmarshal(strings.NewReader(simpleWSDL))
	require.NoError(t, err)
	require.Equal(t, "urn:calc", d.TargetNamespace)
	require.Len(t, d.Schemas, 1)
	require.Len(t, d.Messages, 2)
	require.Len(t, d.PortTypes, 1)
	require.Len(t, d.Bindings, 1)
	require.Len(t, d.Services, 1)
	require.Equal(t, "http://example.com/calc", d.Services[0].Ports[0].Address)
}

func TestUnmarshalSkipsRPCBindingButKeepsDocumentUsable(t *testing.T) {
	d, err := Unmarshal(strings.NewReader(rpcWSDL))
	require.NoError(t, err)
	require.Len(t, d.PortTypes, 1)
	require.Empty(t, d.Bindings)
}

func TestUnmarshalRejectsNonDefinitionsRoot(t *testing.T) {
	_, err := Unmarshal(strings.NewReader(`<?xml version="1.0"?><foo/>`))
	require.Error(t, err)
	var missing *MissingRequiredChild
	require.ErrorAs(t, err, &missing)
}

func TestParseFollowsWSDLImport(t *testing.T) {
	dir := t.TempDir()
	child := `<?xml version="1.0"?>
<definitions name="Shared" targetNamespace="urn:shared"
    xmlns="http://schemas.xmlsoap.org/wsdl/" xmlns:tns="urn:shared">
  <message name="Ping"><part name="body" type="xs:string"/></message>
</definitions>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "child.wsdl"), []byte(child), 0o644))

	parent := `<?xml version="1.0"?>
<definitions name="Main" targetNamespace="urn:main"
    xmlns="http://schemas.xmlsoap.org/wsdl/" xmlns:tns="urn:main">
  <import namespace="urn:shared" location="child.wsdl"/>
  <message name="Pong"><part name="body" type="xs:string"/></message>
</definitions>`
	mainPath := filepath.Join(dir, "main.wsdl")
	require.NoError(t, os.WriteFile(mainPath, []byte(parent), 0o644))

	fetcher := xmltree.NewFetcher(zerolog.Nop())
	d, err := Parse(mainPath, fetcher, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, d.Messages, 2)
}

func TestParseMissingFileReturnsIOError(t *testing.T) {
	fetcher := xmltree.NewFetcher(zerolog.Nop())
	_, err := Parse(filepath.Join(t.TempDir(), "missing.wsdl"), fetcher, zerolog.Nop())
	require.Error(t, err)
	var ioErr *xmltree.IOError
	require.ErrorAs(t, err, &ioErr)
}

func TestParseBrokenImportReturnsIOError(t *testing.T) {
	dir := t.TempDir()
	parent := `<?xml version="1.0"?>
<definitions name="Main" targetNamespace="urn:main"
    xmlns="http://schemas.xmlsoap.org/wsdl/" xmlns:tns="urn:main">
  <import namespace="urn:shared" location="does-not-exist.wsdl"/>
</definitions>`
	mainPath := filepath.Join(dir, "main.wsdl")
	require.NoError(t, os.WriteFile(mainPath, []byte(parent), 0o644))

	fetcher := xmltree.NewFetcher(zerolog.Nop())
	_, err := Parse(mainPath, fetcher, zerolog.Nop())
	require.Error(t, err)
	var ioErr *xmltree.IOError
	require.ErrorAs(t, err, &ioErr)
}
