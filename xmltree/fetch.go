package xmltree

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// IOError wraps a failure to fetch or read a document, per §7's
// IOError(url, cause).
type IOError struct {
	URL   string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }

// Fetcher loads and parses XML documents by URL (absolute or relative to
// a base), synchronously, caching parsed trees by absolute URL so that
// diamond and cyclic imports (§4.2, §5) only fetch once. It is not safe
// for concurrent use by itself beyond read-only lookups; callers that
// parse independent WSDLs in parallel should use one Fetcher per WSDL
// per §5's "parallelism permitted across independent inputs" rule, or
// guard it externally.
type Fetcher struct {
	HTTP *http.Client
	Log  zerolog.Logger

	mu    sync.Mutex
	cache map[string]*Element
}

// NewFetcher returns a Fetcher using http.DefaultClient.
func NewFetcher(log zerolog.Logger) *Fetcher {
	return &Fetcher{HTTP: http.DefaultClient, Log: log, cache: make(map[string]*Element)}
}

// Resolve turns a possibly-relative location into an absolute URL or
// filesystem path, relative to base (itself absolute). Per §6, imports
// are resolved relative to the importing document's URL.
func Resolve(base, location string) string {
	if base == "" || location == "" {
		return location
	}
	bu, err := url.Parse(base)
	if err != nil || bu.Scheme == "" {
		// base is a filesystem path; resolve location the same way.
		if filepath.IsAbs(location) {
			return location
		}
		lu, err := url.Parse(location)
		if err == nil && lu.Scheme != "" {
			return location
		}
		return filepath.Join(filepath.Dir(base), location)
	}
	lu, err := url.Parse(location)
	if err != nil {
		return location
	}
	return bu.ResolveReference(lu).String()
}

// Get fetches and parses the document at the given absolute location
// (URL or filesystem path), returning a cached tree if this exact
// location was already fetched. A location already in flight (detected
// via the cache holding a nil placeholder) is treated as an already-loaded
// URL and short-circuited per §4.2's cycle policy, returning a nil
// Element and a nil error rather than recursing.
func (f *Fetcher) Get(location string) (*Element, error) {
	f.mu.Lock()
	if el, ok := f.cache[location]; ok {
		f.mu.Unlock()
		return el, nil
	}
	f.cache[location] = nil // placeholder: breaks cycles
	f.mu.Unlock()

	f.Log.Debug().Str("location", location).Msg("fetching document")
	rc, err := f.open(location)
	if err != nil {
		return nil, &IOError{URL: location, Cause: err}
	}
	defer rc.Close()
	el, err := Parse(rc)
	if err != nil {
		return nil, &IOError{URL: location, Cause: err}
	}

	f.mu.Lock()
	f.cache[location] = el
	f.mu.Unlock()
	return el, nil
}

func (f *Fetcher) open(location string) (io.ReadCloser, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" {
		return os.Open(location)
	}
	cli := f.HTTP
	if cli == nil {
		cli = http.DefaultClient
	}
	resp, err := cli.Get(location)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("http status %s", resp.Status)
	}
	return resp.Body, nil
}
