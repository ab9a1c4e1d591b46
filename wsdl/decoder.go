// Package wsdl parses Web Services Description Language (WSDL 1.1)
// documents into a Definitions (WebServiceDescription), per §4.2.
package wsdl

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tjbrewster/wsdlgen/qname"
	"github.com/tjbrewster/wsdlgen/xmltree"
	"github.com/tjbrewster/wsdlgen/xsd"
)

// WSDLNamespace is the WSDL 1.1 namespace.
const WSDLNamespace = "http://schemas.xmlsoap.org/wsdl/"

// SOAPBindingNamespace is the only binding extension namespace §4.2
// recognizes.
const SOAPBindingNamespace = "http://schemas.xmlsoap.org/wsdl/soap/"

// Unmarshal parses a single WSDL document from r, starting at its
// <definitions> root, without following wsdl:import (§4.2's single-
// document contract). Schemas found under wsdl:types are parsed
// immediately via package xsd.
func Unmarshal(r io.Reader) (*Definitions, error) {
	root, err := xmltree.Parse(r)
	if err != nil {
		return nil, err
	}
	return parseDefinitions(root, "", zerolog.Nop())
}

func parseDefinitions(root *xmltree.Element, location string, log zerolog.Logger) (*Definitions, error) {
	if root.Name.Local != "definitions" {
		return nil, &MissingRequiredChild{Parent: "document", Name: "wsdl:definitions"}
	}
	d := &Definitions{
		TargetNamespace: root.AttributeOr("", "targetNamespace", ""),
		SourceLocation:  location,
	}
	for _, child := range root.Children {
		switch child.Name.Local {
		case "types":
			for _, s := range child.ChildrenByLocal("schema") {
				schema, _, err := xsd.Parse(s, location, log)
				if err != nil {
					return nil, fmt.Errorf("wsdl types: %w", err)
				}
				if schema.TargetNamespace == "" {
					schema.TargetNamespace = d.TargetNamespace
				}
				d.Schemas = append(d.Schemas, schema)
			}
		case "message":
			m, err := parseMessage(child, d.TargetNamespace)
			if err != nil {
				return nil, err
			}
			d.Messages = append(d.Messages, m)
		case "portType", "interface":
			pt, err := parsePortType(child, d.TargetNamespace)
			if err != nil {
				return nil, err
			}
			d.PortTypes = append(d.PortTypes, pt)
		case "binding":
			b, err := parseBinding(child, d.TargetNamespace, log)
			if err != nil {
				if _, ok := err.(*UnsupportedBinding); ok {
					continue // description remains usable per §4.2
				}
				return nil, err
			}
			d.Bindings = append(d.Bindings, b)
		case "service":
			svc, err := parseService(child, d.TargetNamespace)
			if err != nil {
				return nil, err
			}
			d.Services = append(d.Services, svc)
		case "import":
			// collected separately by Parse; Unmarshal alone does not
			// follow imports.
		case "documentation":
			// ignored.
		}
	}
	return d, nil
}

func resolveQName(el *xmltree.Element, attr, defaultNS string) qname.QName {
	q, ok := el.ResolveAttribute("", attr)
	if !ok {
		return qname.QName{}
	}
	if q.Space == "" {
		q.Space = defaultNS
	}
	return q
}

func parseMessage(el *xmltree.Element, tns string) (*Message, error) {
	name, ok := el.Attribute("", "name")
	if !ok {
		return nil, &MissingRequiredChild{Parent: "message", Name: "name"}
	}
	m := &Message{Name: qname.QName{Space: tns, Local: name}}
	for _, p := range el.ChildrenByLocal("part") {
		part := &Part{Name: p.AttributeOr("", "name", "")}
		if e, ok := p.ResolveAttribute("", "element"); ok {
			part.Element = e
		}
		if t, ok := p.ResolveAttribute("", "type"); ok {
			part.Type = t
		}
		m.Parts = append(m.Parts, part)
	}
	return m, nil
}

func parsePortType(el *xmltree.Element, tns string) (*PortType, error) {
	name, ok := el.Attribute("", "name")
	if !ok {
		return nil, &MissingRequiredChild{Parent: "portType", Name: "name"}
	}
	pt := &PortType{Name: qname.QName{Space: tns, Local: name}}
	for _, op := range el.ChildrenByLocal("operation") {
		o := &Operation{Name: op.AttributeOr("", "name", ""), Doc: documentationOf(op)}
		if in := op.ChildByLocal("input"); in != nil {
			o.Input = &MessageRef{Name: in.AttributeOr("", "name", ""), Message: resolveQName(in, "message", tns)}
		}
		if out := op.ChildByLocal("output"); out != nil {
			o.Output = &MessageRef{Name: out.AttributeOr("", "name", ""), Message: resolveQName(out, "message", tns)}
		}
		for _, f := range op.ChildrenByLocal("fault") {
			o.Faults = append(o.Faults, &MessageRef{Name: f.AttributeOr("", "name", ""), Message: resolveQName(f, "message", tns)})
		}
		if o.Output == nil {
			o.Style = OneWay
		}
		pt.Operations = append(pt.Operations, o)
	}
	return pt, nil
}

func documentationOf(el *xmltree.Element) string {
	if d := el.ChildByLocal("documentation"); d != nil {
		return strings.TrimSpace(d.Content)
	}
	return ""
}

func parseBinding(el *xmltree.Element, tns string, log zerolog.Logger) (*Binding, error) {
	name, ok := el.Attribute("", "name")
	if !ok {
		return nil, &MissingRequiredChild{Parent: "binding", Name: "name"}
	}
	b := &Binding{Name: qname.QName{Space: tns, Local: name}}
	b.PortType = resolveQName(el, "type", tns)

	soapBinding := firstInNamespace(el, SOAPBindingNamespace, "binding")
	if soapBinding == nil {
		log.Warn().Str("binding", name).Msg("no SOAP 1.1 binding extension found; skipping")
		return nil, &UnsupportedBinding{Name: b.Name, Reason: "no soap:binding extension"}
	}
	switch soapBinding.AttributeOr("", "style", "document") {
	case "rpc":
		b.Style = StyleRPC
	default:
		b.Style = StyleDocument
	}
	b.Transport = soapBinding.AttributeOr("", "transport", "")

	for _, op := range el.ChildrenByLocal("operation") {
		bo := &BindingOperation{Name: op.AttributeOr("", "name", "")}
		if soapOp := firstInNamespace(op, SOAPBindingNamespace, "operation"); soapOp != nil {
			bo.SOAPAction = soapOp.AttributeOr("", "soapAction", "")
		}
		if in := op.ChildByLocal("input"); in != nil {
			bo.InputUse = parseUse(firstInNamespace(in, SOAPBindingNamespace, "body"))
		}
		if out := op.ChildByLocal("output"); out != nil {
			bo.OutputUse = parseUse(firstInNamespace(out, SOAPBindingNamespace, "body"))
		}
		b.Operations = append(b.Operations, bo)
	}
	if b.Style == StyleRPC {
		return nil, &UnsupportedBinding{Name: b.Name, Reason: "rpc style is not supported (§1 non-goal: RPC/encoded style)"}
	}
	return b, nil
}

func parseUse(body *xmltree.Element) Use {
	if body == nil {
		return UseLiteral
	}
	if body.AttributeOr("", "use", "literal") == "encoded" {
		return UseEncoded
	}
	return UseLiteral
}

func firstInNamespace(el *xmltree.Element, ns, local string) *xmltree.Element {
	for _, c := range el.Children {
		if c.Name.Local == local && c.Name.Space == ns {
			return c
		}
	}
	return nil
}

func parseService(el *xmltree.Element, tns string) (*Service, error) {
	name, ok := el.Attribute("", "name")
	if !ok {
		return nil, &MissingRequiredChild{Parent: "service", Name: "name"}
	}
	svc := &Service{Name: qname.QName{Space: tns, Local: name}}
	for _, p := range el.ChildrenByLocal("port") {
		port := &Port{
			Name:    p.AttributeOr("", "name", ""),
			Binding: resolveQName(p, "binding", tns),
		}
		if addr := firstInNamespace(p, SOAPBindingNamespace, "address"); addr != nil {
			port.Address = addr.AttributeOr("", "location", "")
		}
		svc.Ports = append(svc.Ports, port)
	}
	return svc, nil
}
