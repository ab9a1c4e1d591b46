package qname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeResolve(t *testing.T) {
	s := Scope{"": "urn:default", "tns": "urn:target", "xs": "http://www.w3.org/2001/XMLSchema"}

	cases := []struct {
		token string
		want  QName
	}{
		{"Foo", QName{Space: "urn:default", Local: "Foo"}},
		{"tns:Foo", QName{Space: "urn:target", Local: "Foo"}},
		{"xs:string", QName{Space: "http://www.w3.org/2001/XMLSchema", Local: "string"}},
	}
	for _, tc := range cases {
		got := s.Resolve(tc.token)
		assert.Equal(t, tc.want, got, tc.token)
	}
}

func TestScopeResolveUnknownPrefix(t *testing.T) {
	s := Scope{"tns": "urn:target"}
	got := s.Resolve("bogus:Foo")
	require.Equal(t, "", got.Space)
	require.Equal(t, "bogus:Foo", got.Local)
}

func TestScopeDeriveDoesNotMutate(t *testing.T) {
	base := Scope{"tns": "urn:target"}
	derived := base.Derive(map[string]string{"xs": "urn:xs"})
	_, baseHasXS := base["xs"]
	assert.False(t, baseHasXS)
	assert.Equal(t, "urn:xs", derived["xs"])
	assert.Equal(t, "urn:target", derived["tns"])
}

func TestQNameString(t *testing.T) {
	assert.Equal(t, "Foo", QName{Local: "Foo"}.String())
	assert.Equal(t, "{urn:x}Foo", QName{Space: "urn:x", Local: "Foo"}.String())
}
