// Package wsdlgo renders a resolved IR node list to Go source: the Code
// Emitter stage of the toolchain. It validates what it produces with
// go/parser before handing it to gofmt, the same belt-and-braces trick
// the original encoder used, so a bug here fails loudly instead of
// shipping malformed source.
package wsdlgo

import (
	"bufio"
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/tjbrewster/wsdlgen/ir"
)

// Encoder renders a package's IR nodes to w.
type Encoder interface {
	Encode(pkg fmt.Stringer, namespace string, nodes []ir.Node) error
}

type goEncoder struct {
	w io.Writer
}

// NewEncoder creates and initializes an Encoder that generates code to w.
func NewEncoder(w io.Writer) Encoder {
	return &goEncoder{w: w}
}

func gofmtPath() (string, error) {
	goroot := os.Getenv("GOROOT")
	if goroot != "" {
		return filepath.Join(goroot, "bin", "gofmt"), nil
	}
	return exec.LookPath("gofmt")
}

// Encode renders nodes as package pkg, validates the result parses as
// Go, and pipes it through gofmt.
func (ge *goEncoder) Encode(pkg fmt.Stringer, namespace string, nodes []ir.Node) error {
	if len(nodes) == 0 {
		return nil
	}
	var b bytes.Buffer
	if err := ge.encode(&b, pkg, namespace, nodes); err != nil {
		return err
	}
	if b.Len() == 0 {
		return nil
	}
	input := b.String()

	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "", &b, parser.ParseComments); err != nil {
		var src bytes.Buffer
		s := bufio.NewScanner(strings.NewReader(input))
		for line := 1; s.Scan(); line++ {
			fmt.Fprintf(&src, "%5d\t%s\n", line, s.Bytes())
		}
		return fmt.Errorf("generated bad code: %v\n%s", err, src.String())
	}

	path, err := gofmtPath()
	if err != nil {
		return fmt.Errorf("cannot find gofmt: %v", err)
	}
	var errb bytes.Buffer
	cmd := exec.Cmd{
		Path:   path,
		Stdin:  strings.NewReader(input),
		Stdout: ge.w,
		Stderr: &errb,
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gofmt: %v\n%s\ngenerated code:\n%s", err, errb.String(), input)
	}
	return nil
}

func (ge *goEncoder) encode(w io.Writer, pkg fmt.Stringer, namespace string, nodes []ir.Node) error {
	var body bytes.Buffer
	stdPkgs := map[string]bool{}
	extPkgs := map[string]bool{}

	for _, n := range nodes {
		switch v := n.(type) {
		case *ir.StringEnum:
			writeStringEnum(&body, v)
		case *ir.Alias:
			writeAlias(&body, v)
		case *ir.List:
			writeList(&body, v)
		case *ir.Enum:
			writeEnum(&body, v)
		case *ir.Struct:
			writeStruct(&body, v)
			stdPkgs["encoding/xml"] = true
		case *ir.ServiceClient:
			writeServiceClient(&body, v)
			stdPkgs["context"] = true
			extPkgs["github.com/tjbrewster/wsdlgen/soap"] = true
		}
	}

	name := pkg.String()
	if name == "" {
		name = fallbackPackageName
	}
	fmt.Fprintf(w, "package %s\n\n", name)
	writeImports(w, stdPkgs, extPkgs)
	if namespace != "" {
		fmt.Fprintf(w, "// Namespace is the WSDL document's target namespace.\nvar Namespace = %q\n\n", namespace)
	}
	_, err := io.Copy(w, &body)
	return err
}

func writeImports(w io.Writer, stdPkgs, extPkgs map[string]bool) {
	if len(stdPkgs) == 0 && len(extPkgs) == 0 {
		return
	}
	fmt.Fprintf(w, "import (\n")
	for _, p := range sortedKeys(stdPkgs) {
		fmt.Fprintf(w, "%q\n", p)
	}
	if len(stdPkgs) > 0 && len(extPkgs) > 0 {
		fmt.Fprintf(w, "\n")
	}
	for _, p := range sortedKeys(extPkgs) {
		fmt.Fprintf(w, "%q\n", p)
	}
	fmt.Fprintf(w, ")\n\n")
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// goFieldType renders a field's Go type, applying pointer and slice
// wrapping from its lowered Cardinality (§4.4's cardinality table) and
// Indirect marker (cycle-breaking pointer).
func goFieldType(f ir.Field) string {
	t := f.Type.GoName
	ptr := f.Type.Indirect || f.Cardinality == ir.Optional || f.Cardinality == ir.OptionalWrapper
	switch f.Cardinality {
	case ir.Repeated:
		if ptr {
			return "[]*" + t
		}
		return "[]" + t
	default:
		if ptr {
			return "*" + t
		}
		return t
	}
}

func fieldTag(f ir.Field) string {
	local := f.XMLName.Local
	if local == "" {
		local = f.Name
	}
	var flags []string
	if f.Attribute {
		flags = append(flags, "attr")
	}
	if f.Cardinality != ir.Required {
		flags = append(flags, "omitempty")
	}
	tag := local
	if len(flags) > 0 {
		tag += "," + strings.Join(flags, ",")
	}
	return fmt.Sprintf(`xml:"%s"`, tag)
}

func writeComments(w io.Writer, typeName, comment string) {
	comment = strings.TrimSpace(strings.ReplaceAll(comment, "\n", " "))
	if comment == "" {
		comment = typeName + " was generated from a WSDL/XSD document."
	}
	count, line := 0, ""
	for _, word := range strings.Split(comment, " ") {
		if line == "" {
			count, line = 2, "//"
		}
		count += len(word)
		if count > 60 {
			fmt.Fprintf(w, "%s %s\n", line, word)
			count, line = 0, ""
			continue
		}
		line = line + " " + word
		count++
	}
	if line != "" {
		fmt.Fprintf(w, "%s\n", line)
	}
}

func writeStruct(w io.Writer, s *ir.Struct) {
	writeComments(w, s.Name, s.Doc)
	fmt.Fprintf(w, "type %s struct {\n", s.Name)
	if s.QName.Local != "" {
		fmt.Fprintf(w, "XMLName xml.Name `xml:\"%s %s\"`\n\n", s.QName.Space, s.QName.Local)
	}
	if s.Base != nil {
		fmt.Fprintf(w, "%s\n", s.Base.GoName)
	}
	for _, f := range s.Fields {
		fmt.Fprintf(w, "%s %s `%s`\n", f.Name, goFieldType(f), fieldTag(f))
	}
	fmt.Fprintf(w, "}\n\n")
}

// writeEnum renders an IR.Enum as a struct carrying one optional
// pointer field per variant: the most direct Go representation of an
// XSD choice (or union) without resorting to code generation per call
// site to pick a variant.
func writeEnum(w io.Writer, e *ir.Enum) {
	writeComments(w, e.Name, e.Doc)
	fmt.Fprintf(w, "type %s struct {\n", e.Name)
	for _, v := range e.Variants {
		goType := "string"
		if v.Payload != nil {
			goType = v.Payload.GoName
		}
		fmt.Fprintf(w, "%s *%s `xml:\"%s,omitempty\"`\n", v.Name, goType, v.QName.Local)
	}
	fmt.Fprintf(w, "}\n\n")
}

func writeAlias(w io.Writer, a *ir.Alias) {
	writeComments(w, a.Name, a.Doc)
	fmt.Fprintf(w, "type %s %s\n\n", a.Name, a.Target.GoName)
}

func writeList(w io.Writer, l *ir.List) {
	writeComments(w, l.Name, l.Doc)
	fmt.Fprintf(w, "type %s []%s\n\n", l.Name, l.Element.GoName)
}

func writeStringEnum(w io.Writer, se *ir.StringEnum) {
	writeComments(w, se.Name, se.Doc)
	fmt.Fprintf(w, "type %s string\n\n", se.Name)
	if len(se.Cases) == 0 {
		return
	}
	fmt.Fprintf(w, "const (\n")
	for _, c := range se.Cases {
		fmt.Fprintf(w, "%s%s %s = %q\n", se.Name, ir.FieldName(c), se.Name, c)
	}
	fmt.Fprintf(w, ")\n\n")
}

var serviceClientT = template.Must(template.New("serviceClient").Parse(`
// {{.Name}}Service describes the {{.Name}} binding's operations.
type {{.Name}}Service interface {
{{- range .Methods}}
{{.Signature}}
{{- end}}
}

// {{.Name}}Client implements {{.Name}}Service over SOAP.
type {{.Name}}Client struct {
	client *soap.Client
}

// New{{.Name}}Client returns a {{.Name}}Client bound to url, with its
// Namespace set to the package-level Namespace.
func New{{.Name}}Client(url string) *{{.Name}}Client {
	return &{{.Name}}Client{client: &soap.Client{URL: url, Namespace: Namespace}}
}
`))

type serviceMethod struct {
	Signature string
}

func writeServiceClient(w io.Writer, s *ir.ServiceClient) {
	var methods []serviceMethod
	for _, op := range s.Operations {
		methods = append(methods, serviceMethod{Signature: opSignature(s.Name, op, true)})
	}
	_ = serviceClientT.Execute(w, &struct {
		Name    string
		Methods []serviceMethod
	}{s.Name, methods})

	for _, op := range s.Operations {
		writeOp(w, s.Name, op)
	}
}

func opSignature(clientName string, op ir.Op, interfaceStyle bool) string {
	recv := ""
	if !interfaceStyle {
		recv = fmt.Sprintf("(c *%sClient) ", clientName)
	}
	if op.OneWay {
		return fmt.Sprintf("%s%s(ctx context.Context, request *%s) error", recv, op.Name, op.Input.GoName)
	}
	out := "interface{}"
	if op.Output != nil {
		out = op.Output.GoName
	}
	return fmt.Sprintf("%s%s(ctx context.Context, request *%s) (*%s, error)", recv, op.Name, op.Input.GoName, out)
}

func writeOp(w io.Writer, clientName string, op ir.Op) {
	writeComments(w, op.Name, op.Doc)
	sig := opSignature(clientName, op, false)
	fmt.Fprintf(w, "func %s {\n", sig)
	if op.OneWay {
		fmt.Fprintf(w, "return c.client.RoundTripWithContext(ctx, %q, request, nil)\n}\n\n", op.SOAPAction)
		return
	}
	out := "interface{}"
	if op.Output != nil {
		out = op.Output.GoName
	}
	fmt.Fprintf(w, "var response %s\n", out)
	fmt.Fprintf(w, "if err := c.client.RoundTripWithContext(ctx, %q, request, &response); err != nil {\n", op.SOAPAction)
	fmt.Fprintf(w, "return nil, err\n}\n")
	fmt.Fprintf(w, "return &response, nil\n}\n\n")
}
