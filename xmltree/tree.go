// Package xmltree provides a minimal DOM-like tree over XML documents,
// preserving namespace scope at every node so callers can resolve
// prefixed attribute values (type="tns:Foo", ref="xs:string", ...)
// without re-walking ancestors by hand.
//
// This is the "XML Reader" stage of the toolchain: it is the only part
// of the pipeline that touches encoding/xml's token stream directly.
// Every later stage (xsd, wsdl) works against Element.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/tjbrewster/wsdlgen/qname"
)

// Element is one node of the parsed tree.
type Element struct {
	Name     qname.QName
	Attr     []xml.Attr
	Children []*Element
	Content  string // concatenated character data, trimmed of surrounding whitespace only at call sites that need it

	// Scope is the namespace prefix map in effect at this element,
	// including prefixes declared by this element itself.
	Scope qname.Scope

	Line int // best-effort source line, for error messages
}

// Attribute returns the value of the attribute named by space/local, and
// whether it was present.
func (e *Element) Attribute(space, local string) (string, bool) {
	for _, a := range e.Attr {
		if a.Name.Local == local && (space == "" || a.Name.Space == space) {
			return a.Value, true
		}
	}
	return "", false
}

// AttributeOr returns the attribute value, or def if absent.
func (e *Element) AttributeOr(space, local, def string) string {
	if v, ok := e.Attribute(space, local); ok {
		return v
	}
	return def
}

// ResolveAttribute resolves a QName-valued attribute (such as type="tns:Foo")
// against the element's in-scope namespace prefixes.
func (e *Element) ResolveAttribute(space, local string) (qname.QName, bool) {
	v, ok := e.Attribute(space, local)
	if !ok {
		return qname.QName{}, false
	}
	return e.Scope.Resolve(v), true
}

// ChildrenByLocal returns the direct children whose local name matches,
// regardless of namespace. Used for the dispatch tables in §4.1/§4.2 of
// the toolchain's parsers, which key off local-name alone.
func (e *Element) ChildrenByLocal(local string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// ChildByLocal returns the first direct child with the given local name.
func (e *Element) ChildByLocal(local string) *Element {
	for _, c := range e.Children {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

// Path renders a slash-separated path of local names, root-first, purely
// for error messages (§4.1 "element-path" in MalformedSchema/
// UnsupportedConstruct).
func Path(stack []*Element) string {
	var buf bytes.Buffer
	for _, e := range stack {
		buf.WriteByte('/')
		buf.WriteString(e.Name.Local)
	}
	if buf.Len() == 0 {
		return "/"
	}
	return buf.String()
}

// Parse reads a complete XML document from r and returns its root
// Element. The decoder is charset-aware: a document whose XML prolog
// declares a non-UTF-8 encoding is transcoded via golang.org/x/net/html/charset
// before being tokenized.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return parseDecoder(dec)
}

// charsetReader wraps x/net/html/charset's label-based lookup. When the
// label isn't one charset recognizes (it knows HTML/web charset aliases,
// not every IANA name a WSDL's XML prolog might use) we fall back to
// x/text's IANA registry directly before giving up, so documents
// declaring e.g. "ISO-8859-1" or "Windows-1252" in the XML prolog still
// decode instead of failing UTF-8 validation partway through.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	r, err := charset.NewReaderLabel(label, input)
	if err == nil {
		return r, nil
	}
	enc, ianaErr := ianaindex.IANA.Encoding(label)
	if ianaErr != nil || enc == nil {
		return nil, fmt.Errorf("xmltree: unknown charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func parseDecoder(dec *xml.Decoder) (*Element, error) {
	var (
		root  *Element
		stack []*Element
		scope = qname.Scope{}
	)
	scopes := []qname.Scope{scope}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmltree: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			decls := map[string]string{}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					decls[a.Name.Local] = a.Value
				} else if a.Name.Local == "xmlns" && a.Name.Space == "" {
					decls[""] = a.Value
				}
			}
			cur := scopes[len(scopes)-1]
			next := cur.Derive(decls)
			scopes = append(scopes, next)

			line, _ := dec.InputPos()
			el := &Element{
				Name:  qname.FromXMLName(t.Name),
				Attr:  append([]xml.Attr(nil), t.Attr...),
				Scope: next,
				Line:  line,
			}
			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
			scopes = scopes[:len(scopes)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Content += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("xmltree: parse: empty document")
	}
	return root, nil
}
