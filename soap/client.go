// Package soap provides the SOAP 1.1 HTTP client the code generator's
// output depends on at runtime (§6 of the toolchain design): envelope
// construction, a synchronous and an asynchronous round trip, response
// validation, and SOAP Fault parsing.
package soap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// XSINamespace is the XML Schema instance namespace (the namespace of
// xsi:nil and xsi:type). Neither this package nor the emitted code
// refers to it.
const XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"

// EnvelopeNamespace is the SOAP 1.1 envelope namespace (§6).
const EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

// Message is an opaque type used to carry a request or response body
// inside a SOAP envelope.
type Message interface{}

// Header is an opaque type for one SOAP Header child element.
type Header interface{}

// AuthHeader is a Header carrying basic username/password credentials,
// the shape most WSDL-described services expect when they need one.
type AuthHeader struct {
	Namespace string `xml:"xmlns:ns,attr"`
	Username  string `xml:"ns:username"`
	Password  string `xml:"ns:password"`
}

// Client is a SOAP 1.1 client bound to one service endpoint (§6).
type Client struct {
	URL         string // endpoint address, usually from a wsdl:port
	Namespace   string // the service's target namespace; the SOAPAction header is the soapAction argument as given
	ContentType string // defaults to "text/xml; charset=utf-8"

	// Headers are emitted inside soap:Header, in order, on every call.
	// Ordering matters to some services (e.g. a security header that
	// must precede a routing header), so this is a slice rather than a
	// single opaque Header the way the emitted client's single-header
	// predecessor modeled it.
	Headers []Header

	HTTP *http.Client        // defaults to http.DefaultClient
	Pre  func(*http.Request) // optional hook to modify outbound requests
	Log  zerolog.Logger
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) contentType() string {
	if c.ContentType != "" {
		return c.ContentType
	}
	return "text/xml; charset=utf-8"
}

func (c *Client) buildRequest(ctx context.Context, soapAction string, in Message) (*http.Request, error) {
	env := &Envelope{
		EnvelopeAttr: EnvelopeNamespace,
		Header:       headerBody(c.Headers),
		Body:         Body{Message: in},
	}
	var buf bytes.Buffer
	if err := xml.NewEncoder(&buf).Encode(env); err != nil {
		return nil, fmt.Errorf("soap: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", c.contentType())
	req.Header.Set("SOAPAction", fmt.Sprintf("%q", soapAction))
	if c.Pre != nil {
		c.Pre(req)
	}
	return req, nil
}

// RoundTrip sends in as the SOAP body, invoking soapAction, and
// deserializes the response body into out. Faults are detected
// regardless of HTTP status code and returned as *SOAPFault (§6 "Fault
// mapping" decided in favor of content over status, see DESIGN.md).
func (c *Client) RoundTrip(soapAction string, in, out Message) error {
	return c.RoundTripWithContext(context.Background(), soapAction, in, out)
}

// RoundTripWithContext is RoundTrip with a caller-supplied context for
// cancellation/deadlines.
func (c *Client) RoundTripWithContext(ctx context.Context, soapAction string, in, out Message) error {
	id := uuid.New()
	req, err := c.buildRequest(ctx, soapAction, in)
	if err != nil {
		return err
	}
	log := c.Log.With().Str("correlation_id", id.String()).Str("soap_action", soapAction).Logger()
	log.Debug().Msg("soap round trip: sending request")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("soap: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := validateResponse(resp)
	if err != nil {
		log.Debug().Err(err).Msg("soap round trip: invalid response")
		return err
	}
	log.Debug().Int("status", resp.StatusCode).Msg("soap round trip: response received")
	return decodeBody(body, out)
}

// Completion is invoked by RoundTripAsync once the response has been
// deserialized (or an error determined). Per §5's concurrency model,
// Completion fires after the request is sent but may fire in any order
// relative to completions of other concurrent calls.
type Completion func(out Message, err error)

// RoundTripAsync performs RoundTrip on its own goroutine and invokes
// done with the result, implementing §5's "asynchronous API path"
// without blocking the caller.
func (c *Client) RoundTripAsync(soapAction string, in, out Message, done Completion) {
	go func() {
		err := c.RoundTrip(soapAction, in, out)
		done(out, err)
	}()
}

// responseEnvelope peels the soap:Body open far enough to decide
// whether it carries a Fault, without assuming anything about the
// success-case payload's shape.
type responseEnvelope struct {
	Body struct {
		Fault *Fault `xml:"Fault"`
		Inner []byte `xml:",innerxml"`
	} `xml:"Body"`
}

func decodeBody(body []byte, out Message) error {
	body = RemoveNonUTF8Bytes(body)
	var env responseEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return &XMLParseError{Location: "response body", Cause: err}
	}
	if env.Body.Fault != nil {
		// Some services emit fault text that isn't valid UTF-8; scrub it
		// before it propagates into logs or error messages.
		env.Body.Fault.String = RemoveNonUTF8Strings(env.Body.Fault.String)
		env.Body.Fault.Detail = RemoveNonUTF8Strings(env.Body.Fault.Detail)
		return env.Body.Fault
	}
	if out == nil {
		return nil
	}
	if err := xml.Unmarshal(env.Body.Inner, out); err != nil {
		return &DeserializationFailure{Path: "Body", Reason: err.Error()}
	}
	return nil
}

func validateResponse(resp *http.Response) ([]byte, error) {
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusInternalServerError {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, &HTTPNotOk{Code: resp.StatusCode, Body: string(body)}
	}
	ct := resp.Header.Get("Content-Type")
	if !hasXMLMimeType(ct) {
		return nil, &InvalidMimeType{ContentType: ct}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("soap: read response: %w", err)
	}
	return body, nil
}

func hasXMLMimeType(contentType string) bool {
	for i := 0; i < len(contentType); i++ {
		if contentType[i] == ';' {
			contentType = contentType[:i]
			break
		}
	}
	return contentType == "text/xml" || len(contentType) >= 8 && contentType[:8] == "text/xml"
}

// Envelope is a SOAP 1.1 envelope.
type Envelope struct {
	XMLName      xml.Name `xml:"soap:Envelope"`
	EnvelopeAttr string   `xml:"xmlns:soap,attr"`
	Header       *headerWrapper
	Body         Body
}

type headerWrapper struct {
	XMLName xml.Name  `xml:"soap:Header"`
	Items   []Message `xml:",any"`
}

func headerBody(headers []Header) *headerWrapper {
	if len(headers) == 0 {
		return nil
	}
	items := make([]Message, len(headers))
	for i, h := range headers {
		items[i] = h
	}
	return &headerWrapper{Items: items}
}

// Body is the body of a SOAP envelope.
type Body struct {
	XMLName xml.Name `xml:"soap:Body"`
	Message Message
}
