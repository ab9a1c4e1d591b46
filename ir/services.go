package ir

import (
	"github.com/tjbrewster/wsdlgen/qname"
	"github.com/tjbrewster/wsdlgen/wsdl"
)

// lowerServices implements §4.4's "Service lowering": one IR.Op per
// (binding, operation), grouped into one IR.ServiceClient per binding.
// rpc-style bindings are rejected by the wsdl parser (UnsupportedBinding)
// before they are ever appended to Definitions.Bindings, so defs.Bindings
// here only ever holds document-style SOAP bindings.
func (b *builder) lowerServices(defs *wsdl.Definitions) []*ServiceClient {
	var clients []*ServiceClient
	for _, binding := range defs.Bindings {
		portType := findPortType(defs, binding.PortType)
		if portType == nil {
			continue
		}
		client := &ServiceClient{
			Name:    b.mangler.TypeName(binding.Name),
			QName:   binding.Name,
			Address: findAddress(defs, binding.Name),
		}
		for _, bop := range binding.Operations {
			op, ok := findOperation(portType, bop.Name)
			if !ok {
				continue
			}
			client.Operations = append(client.Operations, b.lowerOperation(defs, op, bop))
		}
		clients = append(clients, client)
	}
	return clients
}

func (b *builder) lowerOperation(defs *wsdl.Definitions, op *wsdl.Operation, bop *wsdl.BindingOperation) Op {
	out := Op{
		Name:       FieldName(op.Name),
		SOAPAction: bop.SOAPAction,
		OneWay:     op.Style == wsdl.OneWay,
		Doc:        op.Doc,
	}
	if op.Input != nil {
		out.Input = b.messageTypeRef(defs, op.Input.Message)
	}
	if op.Output != nil {
		ref := b.messageTypeRef(defs, op.Output.Message)
		out.Output = &ref
	}
	for _, f := range op.Faults {
		out.Faults = append(out.Faults, b.messageTypeRef(defs, f.Message))
	}
	return out
}

// messageTypeRef resolves a message reference to the Go type of its
// (sole, document/literal-style) body part: the part's element when
// given, falling back to its type.
func (b *builder) messageTypeRef(defs *wsdl.Definitions, msgName qname.QName) TypeRef {
	for _, m := range defs.Messages {
		if m.Name != msgName {
			continue
		}
		for _, part := range m.Parts {
			if !part.Element.IsZero() {
				return b.typeRef(part.Element)
			}
			if !part.Type.IsZero() {
				return b.typeRef(part.Type)
			}
		}
	}
	return TypeRef{GoName: "interface{}"}
}

func findPortType(defs *wsdl.Definitions, qn qname.QName) *wsdl.PortType {
	for _, pt := range defs.PortTypes {
		if pt.Name == qn {
			return pt
		}
	}
	return nil
}

func findOperation(pt *wsdl.PortType, name string) (*wsdl.Operation, bool) {
	for _, op := range pt.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return nil, false
}

func findAddress(defs *wsdl.Definitions, bindingName qname.QName) string {
	for _, svc := range defs.Services {
		for _, port := range svc.Ports {
			if port.Binding == bindingName {
				return port.Address
			}
		}
	}
	return ""
}
