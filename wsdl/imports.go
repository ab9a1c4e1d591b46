package wsdl

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tjbrewster/wsdlgen/xmltree"
)

// Parse parses the WSDL document at location, following wsdl:import
// transitively and merging each imported document's Messages, PortTypes,
// Bindings, Services, and Schemas into the result (§4.2).
//
// Cycles are broken with a set of visited locations: a location already
// seen short-circuits to an empty Definitions rather than recursing
// forever. Only wsdl:import is followed: the xs:import and xs:include
// entries of the parsed schemas stay in each xsd.Schema's Imports and
// are not fetched.
func Parse(location string, fetcher *xmltree.Fetcher, log zerolog.Logger) (*Definitions, error) {
	seen := make(map[string]bool)
	return parseImport(location, fetcher, log, seen)
}

func parseImport(location string, fetcher *xmltree.Fetcher, log zerolog.Logger, seen map[string]bool) (*Definitions, error) {
	if seen[location] {
		return &Definitions{SourceLocation: location}, nil
	}
	seen[location] = true

	root, err := fetcher.Get(location)
	if err != nil {
		return nil, err
	}
	d, err := parseDefinitions(root, location, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}

	for _, child := range root.ChildrenByLocal("import") {
		loc, ok := child.Attribute("", "location")
		if !ok || loc == "" {
			continue // namespace-only import with no location: nothing to fetch
		}
		abs := xmltree.Resolve(location, loc)
		imported, err := parseImport(abs, fetcher, log, seen)
		if err != nil {
			return nil, err
		}
		merge(d, imported)
	}
	return d, nil
}

func merge(into, from *Definitions) {
	into.Schemas = append(into.Schemas, from.Schemas...)
	into.Messages = append(into.Messages, from.Messages...)
	into.PortTypes = append(into.PortTypes, from.PortTypes...)
	into.Bindings = append(into.Bindings, from.Bindings...)
	into.Services = append(into.Services, from.Services...)
}
