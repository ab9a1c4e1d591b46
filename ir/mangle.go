package ir

import (
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"

	"github.com/tjbrewster/wsdlgen/qname"
)

// goKeywords is the set of reserved words that can never be used as a Go
// identifier, per §4.4's "prefix with `_` if a language keyword" rule.
var goKeywords = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true, "select": true,
	"case": true, "defer": true, "go": true, "map": true, "struct": true,
	"chan": true, "else": true, "goto": true, "package": true, "switch": true,
	"const": true, "fallthrough": true, "if": true, "range": true, "type": true,
	"continue": true, "for": true, "import": true, "return": true, "var": true,
}

// Mangler turns QualifiedNames into exported Go identifiers, appending a
// namespace-hash suffix the first time two distinct QualifiedNames would
// otherwise mangle to the same identifier (§4.4's "Collisions after
// mangling append a namespace-hash suffix").
//
// A Mangler is scoped to one emission run; names are assigned the first
// time a QualifiedName is seen and remembered for subsequent calls with
// the same QualifiedName, so every reference to a given declaration
// mangles to the same Go name.
type Mangler struct {
	byQName map[qname.QName]string
	used    map[string]qname.QName
}

// NewMangler returns an empty Mangler.
func NewMangler() *Mangler {
	return &Mangler{
		byQName: make(map[qname.QName]string),
		used:    make(map[string]qname.QName),
	}
}

// TypeName returns the exported Go identifier for qn, stable across
// calls.
func (m *Mangler) TypeName(qn qname.QName) string {
	if name, ok := m.byQName[qn]; ok {
		return name
	}
	base := mangleIdent(qn.Local)
	name := m.claim(base, qn)
	m.byQName[qn] = name
	return name
}

// FieldName mangles a bare local name (an element or attribute name
// local to its enclosing struct) into an exported Go field name. Field
// names are not deduplicated against the global Mangler state, since Go
// allows the same field name in different structs. The ir builder does
// not deduplicate a struct's own field list either: two members whose
// local names mangle alike yield two fields with the same name.
func FieldName(local string) string {
	return mangleIdent(local)
}

func (m *Mangler) claim(base string, qn qname.QName) string {
	owner, taken := m.used[base]
	if !taken || owner == qn {
		m.used[base] = qn
		return base
	}
	suffixed := base + "_" + namespaceHash(qn.Space)
	m.used[suffixed] = qn
	return suffixed
}

func namespaceHash(ns string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ns))
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}

// mangleIdent implements the camel-casing half of §4.4's mangling rule:
// split on runs of non-identifier characters, capitalize the leading
// letter of each run, and join. The result always starts with an
// uppercase letter or underscore so it's a valid exported Go identifier.
func mangleIdent(local string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range local {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upperNext {
				b.WriteRune(unicode.ToUpper(r))
				upperNext = false
			} else {
				b.WriteRune(r)
			}
		default:
			upperNext = true
		}
	}
	out := b.String()
	if out == "" {
		out = "X"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	if goKeywords[out] {
		out = "_" + out
	}
	return out
}
