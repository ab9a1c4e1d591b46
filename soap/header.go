package soap

// WithHeader returns a shallow copy of c with h appended to its Headers,
// letting a caller attach a per-call header (e.g. a fresh AuthHeader)
// without mutating the shared Client other call sites use.
func (c *Client) WithHeader(h Header) *Client {
	cp := *c
	cp.Headers = append(append([]Header{}, c.Headers...), h)
	return &cp
}

// NewAuthHeader builds an AuthHeader for the given namespace prefix
// binding, username, and password.
func NewAuthHeader(namespace, username, password string) *AuthHeader {
	return &AuthHeader{Namespace: namespace, Username: username, Password: password}
}
