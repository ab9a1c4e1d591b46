package wsdlgo

import (
	"github.com/gosimple/slug"

	"github.com/tjbrewster/wsdlgen/wsdl"
)

const fallbackPackageName = "internal"

// BindingPackageName formats a Go package name from a WSDL binding's
// QualifiedName, using gosimple/slug so non-ASCII and punctuation-heavy
// binding names (seen in real-world WSDLs more often than the spec's own
// fixtures suggest) still produce a valid package identifier.
type BindingPackageName wsdl.Binding

func (p BindingPackageName) String() string {
	name := slug.Make(p.Name.Local)
	name = stripHyphens(name)
	if name == "" {
		name = fallbackPackageName
	}
	return name
}

// stripHyphens removes slug's word-separating hyphens: Go package names
// don't allow them.
func stripHyphens(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// PackageName is just a string with a String method, so both it and
// BindingPackageName satisfy the same fmt.Stringer call sites in the
// encoder.
type PackageName string

func (p PackageName) String() string {
	return string(p)
}
