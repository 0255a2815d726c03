// Package arcgis is a client gateway for the ArcGIS Server REST API.
// It builds request URLs, obtains and caches authentication tokens,
// dispatches GET and POST requests with automatic GET-to-POST switching
// for over-long URLs, and walks the folder/service hierarchy to
// enumerate published resources.
package arcgis

import (
	"net/url"
	"strings"
)

// PublicPortalRootURL is the well-known root of the publicly hosted
// platform. Token issuance on the public host is not nested under the
// tokens/ prefix used by self-hosted deployments.
const PublicPortalRootURL = "https://www.arcgis.com/sharing/rest"

// Endpoint identifies a resource or operation by its path relative to a
// deployment's root URL. Endpoints are immutable values and may be
// freely shared.
type Endpoint struct {
	relativeURL string
}

// NewEndpoint creates an endpoint from a relative URL. A leading slash
// is accepted and ignored.
func NewEndpoint(relativeURL string) Endpoint {
	return Endpoint{relativeURL: strings.TrimLeft(relativeURL, "/")}
}

// RelativeURL returns the endpoint's path relative to the root URL.
func (e Endpoint) RelativeURL() string {
	return e.relativeURL
}

func (e Endpoint) String() string {
	return e.relativeURL
}

// AbsoluteURL joins the endpoint's relative URL onto a root URL. The
// root is normalized to exactly one trailing slash, so the join is
// idempotent with respect to separators.
func (e Endpoint) AbsoluteURL(rootURL string) string {
	return NormalizeRootURL(rootURL) + e.relativeURL
}

// NormalizeRootURL returns the root URL with exactly one trailing
// slash. Normalizing an already-normalized URL is a no-op.
func NormalizeRootURL(rootURL string) string {
	return strings.TrimRight(rootURL, "/") + "/"
}

// tokenEndpoint returns the credential-exchange endpoint for a root
// URL. The public portal serves generateToken at its root; self-hosted
// deployments nest it under tokens/.
func tokenEndpoint(rootURL string) Endpoint {
	if isPublicPortal(rootURL) {
		return NewEndpoint("generateToken")
	}
	return NewEndpoint("tokens/generateToken")
}

func isPublicPortal(rootURL string) bool {
	u, err := url.Parse(rootURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, "www.arcgis.com") &&
		strings.EqualFold(strings.TrimRight(u.Path, "/"), "/sharing/rest")
}

// tokenExchangeURL builds the absolute credential-exchange URL for a
// root URL, forcing the https scheme unless insecure is set.
func tokenExchangeURL(rootURL string, insecure bool) string {
	target := tokenEndpoint(rootURL).AbsoluteURL(rootURL)
	if !insecure {
		target = secureURL(target)
	}
	return target
}

// secureURL rewrites a URL onto the https scheme. Malformed input is
// returned unchanged and caught by request URL validation later.
func secureURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.Scheme != "https" {
		u.Scheme = "https"
	}
	return u.String()
}
