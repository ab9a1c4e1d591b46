package resolve

import "github.com/tjbrewster/wsdlgen/qname"

// XSDNamespace is the XML Schema namespace whose built-in simple types
// seed the TypeMap (§4.3 step 1).
const XSDNamespace = "http://www.w3.org/2001/XMLSchema"

// Builtin is a primitive sentinel declaration for one XSD built-in
// simple type. It carries no fields beyond its QName: the IR builder
// maps it straight to a Go primitive by name (see ir.goPrimitives).
type Builtin struct {
	QName qname.QName
}

// builtinLocals is the set of built-in simple types §4.3 names
// explicitly, plus the handful of others a real-world WSDL commonly
// references. Anything in the XSD namespace not listed here still
// resolves (IsBuiltin reports true for the namespace), it just isn't
// pre-seeded with a friendlier comment trail; the effect is identical.
var builtinLocals = []string{
	"string", "boolean", "decimal", "float", "double",
	"duration", "dateTime", "time", "date",
	"gYearMonth", "gYear", "gMonthDay", "gDay", "gMonth",
	"hexBinary", "base64Binary", "anyURI", "QName", "NOTATION",
	"normalizedString", "token", "language",
	"NMTOKEN", "NMTOKENS", "Name", "NCName", "ID", "IDREF", "IDREFS",
	"ENTITY", "ENTITIES",
	"integer", "nonPositiveInteger", "negativeInteger", "long", "int",
	"short", "byte", "nonNegativeInteger", "unsignedLong",
	"unsignedInt", "unsignedShort", "unsignedByte", "positiveInteger",
	"anyType", "anySimpleType",
}

// seedBuiltins inserts every XSD built-in simple type into m, per §4.3
// step 1.
func seedBuiltins(m *TypeMap) {
	for _, local := range builtinLocals {
		qn := qname.QName{Space: XSDNamespace, Local: local}
		m.declarations[Key{qn, KindType}] = &Builtin{QName: qn}
	}
}

// IsBuiltin reports whether qn names an XSD built-in simple type
// (whether or not it was in builtinLocals explicitly: any type in the
// XSD namespace is a built-in as far as this resolver is concerned,
// since a schema never declares its own types there).
func IsBuiltin(qn qname.QName) bool {
	return qn.Space == XSDNamespace
}
