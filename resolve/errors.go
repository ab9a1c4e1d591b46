package resolve

import (
	"fmt"

	"github.com/tjbrewster/wsdlgen/qname"
)

// UnresolvedReference is raised when a typeRef/ElementRef/GroupRef names
// a QualifiedName absent from the TypeMap after every schema has been
// walked (§4.3, §7).
type UnresolvedReference struct {
	QName    qname.QName
	Referrer qname.QName
}

func (e *UnresolvedReference) Error() string {
	return fmt.Sprintf("unresolved reference %s (referenced from %s)", e.QName, e.Referrer)
}

// DuplicateName is raised when two top-level declarations of the same
// kind share a QualifiedName (§4.3 step 2, §7). Element vs type
// collisions are not duplicates: a WSDL may legitimately declare both
// an element and a type with the same name.
type DuplicateName struct {
	QName qname.QName
	Kind  Kind
}

func (e *DuplicateName) Error() string {
	return fmt.Sprintf("duplicate %s %s", e.Kind, e.QName)
}
