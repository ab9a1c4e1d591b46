package xsd

import "fmt"

// MalformedSchema is raised when a schema fragment violates a structural
// rule the parser enforces (§4.1, §7).
type MalformedSchema struct {
	Path   string
	Reason string
}

func (e *MalformedSchema) Error() string {
	return fmt.Sprintf("malformed schema at %s: %s", e.Path, e.Reason)
}

// UnsupportedConstruct describes a recognized-but-unimplemented XSD
// construct (§4.1, §7). Parse never returns it: unsupported particle
// children and unrecognized top-level constructs are reported as
// Warnings and skipped instead.
type UnsupportedConstruct struct {
	Path      string
	Construct string
}

func (e *UnsupportedConstruct) Error() string {
	return fmt.Sprintf("unsupported construct at %s: %s", e.Path, e.Construct)
}

// Warning is a non-fatal parse diagnostic — e.g. an unrecognized facet
// (§4.1: "unknown facets become a warning, not an error").
type Warning struct {
	Path   string
	Reason string
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Reason)
}
