package arcgis

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/geoplatform/arcrest/pkg/types"
)

// DefaultGetURLLimit is the URL length beyond which a GET is sent as a
// POST instead. The value is a historical browser URL-length
// convention still enforced by some server deployments; override it
// with WithGetURLLimit.
const DefaultGetURLLimit = 2082

// DefaultMaxDiscoveryDepth bounds the folder hierarchy walk. The
// platform enforces a finite tree, but the guard protects against a
// misbehaving server reporting self-referential folders.
const DefaultMaxDiscoveryDepth = 16

// Gateway dispatches requests against one deployment of the platform.
// A gateway owns its HTTP transport and allows at most one outstanding
// request at a time: issuing a new request cancels any request still in
// flight on the same instance. Callers that need overlapping calls must
// use separate gateway instances or serialize through a queue.
type Gateway struct {
	rootURL      string
	httpClient   *http.Client
	serializer   Serializer
	tokens       *TokenProvider
	logger       zerolog.Logger
	getURLLimit  int
	maxDepth     int
	insecureAuth bool

	mu       sync.Mutex
	inflight *inflightRequest
}

type inflightRequest struct {
	cancel context.CancelFunc
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient replaces the gateway's HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		if c != nil {
			g.httpClient = c
		}
	}
}

// WithSerializer replaces the default JSON serializer.
func WithSerializer(s Serializer) Option {
	return func(g *Gateway) { g.serializer = s }
}

// WithCredential enables token authentication. The gateway exchanges
// the credential for a token on first use and refreshes it on expiry.
func WithCredential(cred types.Credential) Option {
	return func(g *Gateway) {
		if g.tokens == nil {
			g.tokens = &TokenProvider{}
		}
		g.tokens.cred = cred
	}
}

// WithToken seeds the gateway with an already-issued token, typically
// one persisted from an earlier session. The token is used as long as
// it is valid; refresh on expiry still requires a credential.
func WithToken(tok types.Token) Option {
	return func(g *Gateway) {
		if g.tokens == nil {
			g.tokens = &TokenProvider{}
		}
		g.tokens.token = tok
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithGetURLLimit overrides the GET URL length threshold that triggers
// the switch to POST.
func WithGetURLLimit(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.getURLLimit = n
		}
	}
}

// WithMaxDiscoveryDepth overrides the folder walk depth guard.
func WithMaxDiscoveryDepth(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxDepth = n
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate validation on the
// gateway's transport, keeping the rest of the transport configuration
// intact. Intended for self-hosted deployments with self-signed
// certificates. Apply it after WithHTTPClient.
func WithInsecureSkipVerify() Option {
	return func(g *Gateway) {
		tr, ok := g.httpClient.Transport.(*http.Transport)
		if ok && tr != nil {
			tr = tr.Clone()
		} else {
			tr = http.DefaultTransport.(*http.Transport).Clone()
		}
		if tr.TLSClientConfig == nil {
			tr.TLSClientConfig = &tls.Config{}
		}
		tr.TLSClientConfig.InsecureSkipVerify = true
		g.httpClient.Transport = tr
	}
}

// WithInsecureTokenExchange allows the credential exchange to go over
// the root URL's own scheme instead of forcing https. Only for test
// and air-gapped http-only deployments.
func WithInsecureTokenExchange() Option {
	return func(g *Gateway) { g.insecureAuth = true }
}

// New creates a gateway for the deployment at rootURL, which must be an
// absolute http(s) URL such as "https://host/arcgis/rest/services".
func New(rootURL string, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(rootURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, ErrConfiguration.Msg("root URL must be an absolute URL: " + rootURL)
	}

	g := &Gateway{
		rootURL:     NormalizeRootURL(rootURL),
		httpClient:  &http.Client{},
		serializer:  JSONSerializer{},
		logger:      log.Logger,
		getURLLimit: DefaultGetURLLimit,
		maxDepth:    DefaultMaxDiscoveryDepth,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.tokens != nil {
		g.tokens.gw = g
	}
	return g, nil
}

// RootURL returns the normalized root URL of the deployment.
func (g *Gateway) RootURL() string {
	return g.rootURL
}

// CurrentToken returns the gateway's current token, exchanging the
// configured credential if no valid token is cached.
func (g *Gateway) CurrentToken(ctx context.Context) (types.Token, error) {
	if g.tokens == nil {
		return types.Token{}, ErrConfiguration.Msg("no credential configured")
	}
	return g.tokens.CurrentToken(ctx)
}

// Close cancels any in-flight request and releases the transport's idle
// connections. The gateway must not be used after Close.
func (g *Gateway) Close() {
	g.mu.Lock()
	if g.inflight != nil {
		g.inflight.cancel()
		g.inflight = nil
	}
	g.mu.Unlock()
	g.httpClient.CloseIdleConnections()
}

// claimRequestSlot enforces the at-most-one-outstanding-request
// contract. Claiming the slot cancels whatever request currently holds
// it; the returned release must be called when the request completes.
func (g *Gateway) claimRequestSlot(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	slot := &inflightRequest{cancel: cancel}

	g.mu.Lock()
	if g.inflight != nil {
		g.inflight.cancel()
	}
	g.inflight = slot
	g.mu.Unlock()

	release := func() {
		g.mu.Lock()
		if g.inflight == slot {
			g.inflight = nil
		}
		g.mu.Unlock()
		cancel()
	}
	return ctx, release
}
