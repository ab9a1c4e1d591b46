package wsdlgo

import (
	"bytes"
	"go/parser"
	"go/token"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"

	"github.com/tjbrewster/wsdlgen/ir"
	"github.com/tjbrewster/wsdlgen/qname"
)

// requireEqualSource fails with a readable diff (rather than testify's
// raw string dump) when generated source drifts from the golden text.
func requireEqualSource(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Fatalf("generated source mismatch:\n%s", dmp.DiffPrettyText(diffs))
}

func TestGoFieldTypeCardinality(t *testing.T) {
	tests := []struct {
		name string
		f    ir.Field
		want string
	}{
		{"required scalar", ir.Field{Type: ir.TypeRef{GoName: "string"}, Cardinality: ir.Required}, "string"},
		{"optional scalar", ir.Field{Type: ir.TypeRef{GoName: "string"}, Cardinality: ir.Optional}, "*string"},
		{"nillable wrapper", ir.Field{Type: ir.TypeRef{GoName: "string"}, Cardinality: ir.OptionalWrapper}, "*string"},
		{"list", ir.Field{Type: ir.TypeRef{GoName: "string"}, Cardinality: ir.Repeated}, "[]string"},
		{"indirect list", ir.Field{Type: ir.TypeRef{GoName: "Node", Indirect: true}, Cardinality: ir.Repeated}, "[]*Node"},
		{"indirect required", ir.Field{Type: ir.TypeRef{GoName: "Node", Indirect: true}, Cardinality: ir.Required}, "*Node"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, goFieldType(tc.f))
		})
	}
}

func TestFieldTagFlags(t *testing.T) {
	tests := []struct {
		name string
		f    ir.Field
		want string
	}{
		{"required element", ir.Field{XMLName: qname.QName{Local: "Name"}, Cardinality: ir.Required}, `xml:"Name"`},
		{"optional element", ir.Field{XMLName: qname.QName{Local: "Name"}, Cardinality: ir.Optional}, `xml:"Name,omitempty"`},
		{"attribute", ir.Field{XMLName: qname.QName{Local: "id"}, Attribute: true, Cardinality: ir.Required}, `xml:"id,attr"`},
		{"optional attribute", ir.Field{XMLName: qname.QName{Local: "id"}, Attribute: true, Cardinality: ir.Optional}, `xml:"id,attr,omitempty"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, fieldTag(tc.f))
		})
	}
}

func TestWriteStructEmitsXMLNameAndFields(t *testing.T) {
	var buf bytes.Buffer
	writeStruct(&buf, &ir.Struct{
		Name:  "Order",
		QName: qname.QName{Space: "urn:test", Local: "Order"},
		Fields: []ir.Field{
			{Name: "ID", XMLName: qname.QName{Local: "ID"}, Type: ir.TypeRef{GoName: "string"}, Cardinality: ir.Required},
			{Name: "Total", XMLName: qname.QName{Local: "Total"}, Type: ir.TypeRef{GoName: "float64"}, Cardinality: ir.Optional},
		},
	})
	out := buf.String()
	require.Contains(t, out, "type Order struct {")
	require.Contains(t, out, `XMLName xml.Name `+"`"+`xml:"urn:test Order"`+"`")
	require.Contains(t, out, "ID string")
	require.Contains(t, out, "Total *float64")
}

func TestWriteEnumEmitsOnePointerFieldPerVariant(t *testing.T) {
	var buf bytes.Buffer
	writeEnum(&buf, &ir.Enum{
		Name: "ShapeChoice1",
		Variants: []ir.EnumVariant{
			{Name: "Circle", QName: qname.QName{Local: "Circle"}, Payload: &ir.TypeRef{GoName: "string"}},
			{Name: "Square", QName: qname.QName{Local: "Square"}, Payload: &ir.TypeRef{GoName: "string"}},
		},
	})
	out := buf.String()
	require.Contains(t, out, "Circle *string")
	require.Contains(t, out, "Square *string")
}

func TestWriteStringEnumEmitsConstBlock(t *testing.T) {
	var buf bytes.Buffer
	writeStringEnum(&buf, &ir.StringEnum{Name: "Color", Cases: []string{"red", "green"}})
	out := buf.String()
	require.Contains(t, out, "type Color string")
	require.Contains(t, out, `ColorRed Color = "red"`)
	require.Contains(t, out, `ColorGreen Color = "green"`)
}

func TestWriteAliasAndList(t *testing.T) {
	var alias bytes.Buffer
	writeAlias(&alias, &ir.Alias{Name: "OrderID", Target: ir.TypeRef{GoName: "string"}})
	require.Contains(t, alias.String(), "type OrderID string")

	var list bytes.Buffer
	writeList(&list, &ir.List{Name: "Tags", Element: ir.TypeRef{GoName: "string"}})
	require.Contains(t, list.String(), "type Tags []string")
}

func TestWriteAliasAndListGoldenOutput(t *testing.T) {
	var alias bytes.Buffer
	writeAlias(&alias, &ir.Alias{Name: "OrderID", Target: ir.TypeRef{GoName: "string"}})
	requireEqualSource(t, "// OrderID was generated from a WSDL/XSD document.\ntype OrderID string\n\n", alias.String())

	var list bytes.Buffer
	writeList(&list, &ir.List{Name: "Tags", Element: ir.TypeRef{GoName: "string"}})
	requireEqualSource(t, "// Tags was generated from a WSDL/XSD document.\ntype Tags []string\n\n", list.String())
}

func TestWriteServiceClientEmitsInterfaceAndMethod(t *testing.T) {
	var buf bytes.Buffer
	writeServiceClient(&buf, &ir.ServiceClient{
		Name:    "OrdersBinding",
		Address: "https://example.com/orders",
		Operations: []ir.Op{
			{
				Name:       "PlaceOrder",
				SOAPAction: "urn:test/PlaceOrder",
				Input:      ir.TypeRef{GoName: "PlaceOrderRequest"},
				Output:     &ir.TypeRef{GoName: "PlaceOrderResponse"},
			},
			{
				Name:       "Ping",
				SOAPAction: "urn:test/Ping",
				Input:      ir.TypeRef{GoName: "PingRequest"},
				OneWay:     true,
			},
		},
	})
	out := buf.String()
	require.Contains(t, out, "type OrdersBindingService interface")
	require.Contains(t, out, "type OrdersBindingClient struct")
	require.Contains(t, out, "func NewOrdersBindingClient(url string) *OrdersBindingClient")
	require.Contains(t, out, "func (c *OrdersBindingClient) PlaceOrder(ctx context.Context, request *PlaceOrderRequest) (*PlaceOrderResponse, error)")
	require.Contains(t, out, `c.client.RoundTripWithContext(ctx, "urn:test/PlaceOrder", request, &response)`)
	require.Contains(t, out, "func (c *OrdersBindingClient) Ping(ctx context.Context, request *PingRequest) error")
	require.Contains(t, out, `c.client.RoundTripWithContext(ctx, "urn:test/Ping", request, nil)`)
}

func TestEncodeProducesParseableGoSource(t *testing.T) {
	nodes := []ir.Node{
		&ir.StringEnum{Name: "Color", Cases: []string{"red", "green"}},
		&ir.Struct{
			Name:  "Order",
			QName: qname.QName{Space: "urn:test", Local: "Order"},
			Fields: []ir.Field{
				{Name: "ID", XMLName: qname.QName{Local: "ID"}, Type: ir.TypeRef{GoName: "string"}, Cardinality: ir.Required},
			},
		},
	}
	var buf bytes.Buffer
	err := NewEncoder(&buf).(*goEncoder).encode(&buf, PackageName("orders"), "urn:test", nodes)
	require.NoError(t, err)
	out := buf.String()
	_, err = parser.ParseFile(token.NewFileSet(), "", out, 0)
	require.NoError(t, err)
	require.Contains(t, out, "package orders")
	require.Contains(t, out, `"encoding/xml"`)
	require.Contains(t, out, `var Namespace = "urn:test"`)
	require.Contains(t, out, "type Color string")
	require.Contains(t, out, "type Order struct")
}
