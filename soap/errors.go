package soap

import "fmt"

// HTTPNotOk is raised when the transport returns any status code other
// than 200 or 500 (§6 "Response validation").
type HTTPNotOk struct {
	Code int
	Body string
}

func (e *HTTPNotOk) Error() string {
	return fmt.Sprintf("soap: unexpected HTTP status %d: %s", e.Code, e.Body)
}

// InvalidMimeType is raised when the response Content-Type doesn't
// start with "text/xml" (§6).
type InvalidMimeType struct {
	ContentType string
}

func (e *InvalidMimeType) Error() string {
	return fmt.Sprintf("soap: unexpected content type %q, want text/xml", e.ContentType)
}

// XMLParseError is raised when a response body is not well-formed XML
// (§7).
type XMLParseError struct {
	Location string
	Cause    error
}

func (e *XMLParseError) Error() string {
	return fmt.Sprintf("soap: malformed xml in %s: %v", e.Location, e.Cause)
}

func (e *XMLParseError) Unwrap() error { return e.Cause }

// DeserializationFailure is raised when a response body is well-formed
// XML but does not match the expected output type (§7).
type DeserializationFailure struct {
	Path   string
	Reason string
}

func (e *DeserializationFailure) Error() string {
	return fmt.Sprintf("soap: failed to deserialize %s: %s", e.Path, e.Reason)
}
