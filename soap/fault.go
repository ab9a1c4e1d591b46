package soap

import "fmt"

// Fault is a parsed soap:Fault (§6 "Fault mapping"). It implements
// error so callers that only check `err != nil` still work; callers
// that need the structured detail type-assert with errors.As.
type Fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
	Actor  string `xml:"faultactor,omitempty"`
	Detail string `xml:"detail,omitempty"`
}

func (f *Fault) Error() string {
	if f.Actor != "" {
		return fmt.Sprintf("soap fault %s: %s (actor %s)", f.Code, f.String, f.Actor)
	}
	return fmt.Sprintf("soap fault %s: %s", f.Code, f.String)
}
