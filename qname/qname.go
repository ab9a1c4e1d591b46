// Package qname implements XML qualified names: a namespace-URI paired
// with a local name, plus resolution of "prefix:local" tokens against an
// in-scope namespace map.
package qname

import "encoding/xml"

// QName is a qualified name: a namespace URI and a local name. Equality
// is structural; the zero value has an empty namespace.
type QName struct {
	Space string
	Local string
}

// String renders the QName as "{namespace}local", or just "local" when
// the namespace is empty. Mainly useful for error messages and map keys
// in debug output.
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}
	return "{" + q.Space + "}" + q.Local
}

// IsZero reports whether q is the zero value.
func (q QName) IsZero() bool {
	return q.Space == "" && q.Local == ""
}

// XMLName converts q to the stdlib encoding/xml representation.
func (q QName) XMLName() xml.Name {
	return xml.Name{Space: q.Space, Local: q.Local}
}

// FromXMLName converts from the stdlib encoding/xml representation.
func FromXMLName(n xml.Name) QName {
	return QName{Space: n.Space, Local: n.Local}
}

// Scope maps namespace prefixes to URIs, as declared by one or more
// ancestor elements' xmlns/xmlns:prefix attributes. A nil Scope resolves
// only the empty prefix to the empty namespace.
type Scope map[string]string

// Resolve parses a (possibly prefixed) QName token such as "tns:Foo" or
// "Foo" against the scope, returning the resolved QName. An unknown
// prefix resolves to a QName whose Space is empty and whose Local is the
// whole original token, so callers can detect the failure by comparing
// against what they expected.
func (s Scope) Resolve(token string) QName {
	prefix, local := splitPrefix(token)
	if prefix == "" {
		return QName{Space: s[""], Local: local}
	}
	ns, ok := s[prefix]
	if !ok {
		return QName{Local: token}
	}
	return QName{Space: ns, Local: local}
}

// Derive returns a new Scope that extends s with the given prefix->URI
// declarations, without mutating s. An empty-string key declares the
// default namespace.
func (s Scope) Derive(decls map[string]string) Scope {
	out := make(Scope, len(s)+len(decls))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range decls {
		out[k] = v
	}
	return out
}

func splitPrefix(token string) (prefix, local string) {
	for i := 0; i < len(token); i++ {
		if token[i] == ':' {
			return token[:i], token[i+1:]
		}
	}
	return "", token
}
