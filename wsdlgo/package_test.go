package wsdlgo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tjbrewster/wsdlgen/qname"
	"github.com/tjbrewster/wsdlgen/wsdl"
)

func TestBindingPackageNameString(t *testing.T) {
	tests := []struct {
		expected string
		binding  wsdl.Binding
	}{
		{"foo", wsdl.Binding{Name: qname.QName{Local: "foo"}}},
		{"dataendpointsoap11binding", wsdl.Binding{Name: qname.QName{Local: "DataEndpointSoap11Binding"}}},
		{"somedottedbindingname", wsdl.Binding{Name: qname.QName{Local: "Some.Dotted.Binding.Name"}}},
		{fallbackPackageName, wsdl.Binding{Name: qname.QName{Local: "!!!"}}},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			namer := BindingPackageName(test.binding)
			require.Equal(t, test.expected, namer.String())
		})
	}
}

func TestPackageNameString(t *testing.T) {
	require.Equal(t, "orders", PackageName("orders").String())
}
