package arcgis

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/geoplatform/arcrest/pkg/types"
)

var validate = validator.New()

// TokenProvider exchanges a credential for a token and caches it.
// Access is single-flight: the mutex is held across the exchange, so
// concurrent callers observe one credential-exchange call and share its
// result. The cached token is replaced wholesale on refresh.
type TokenProvider struct {
	gw   *Gateway
	cred types.Credential

	mu    sync.Mutex
	token types.Token
}

// tokenResponse is the credential-exchange response payload.
type tokenResponse struct {
	types.Envelope
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
	SSL     bool   `json:"ssl"`
}

// CurrentToken returns the cached token, exchanging the credential when
// no token is cached yet or the cached one has expired.
func (p *TokenProvider) CurrentToken(ctx context.Context) (types.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token.Value != "" && !p.token.IsExpired() {
		return p.token, nil
	}

	tok, err := p.exchange(ctx)
	if err != nil {
		return types.Token{}, err
	}
	p.token = tok
	return p.token, nil
}

// exchange issues the credential-exchange POST. The call goes over
// https regardless of the root URL's scheme unless the gateway was
// built with WithInsecureTokenExchange.
func (p *TokenProvider) exchange(ctx context.Context) (types.Token, error) {
	if err := validate.Struct(p.cred); err != nil {
		return types.Token{}, ErrConfiguration.MsgErr("invalid credential", err)
	}

	target := tokenExchangeURL(p.gw.rootURL, p.gw.insecureAuth)

	expiration := p.cred.ExpirationMinutes
	if expiration <= 0 {
		expiration = types.DefaultTokenExpirationMinutes
	}

	form := url.Values{}
	form.Set("username", p.cred.Username)
	form.Set("password", p.cred.Password)
	if client := p.cred.Client(); client != "" {
		form.Set("client", client)
	}
	if referer := p.cred.Referer(); referer != "" {
		form.Set("referer", referer)
	}
	form.Set("expiration", strconv.Itoa(expiration))
	form.Set("f", "json")

	p.gw.logger.Debug().Str("url", target).Msg("exchanging credential for token")

	var resp tokenResponse
	err := p.gw.send(ctx, http.MethodPost, target,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", "", &resp)
	if err != nil {
		var serr *types.ServerError
		if errors.As(err, &serr) {
			return types.Token{}, ErrAuthentication.MsgErr(serr.Message, serr)
		}
		return types.Token{}, ErrAuthentication.Err(err)
	}

	return types.Token{
		Value:        resp.Token,
		Expires:      resp.Expires,
		Referer:      p.cred.Referer(),
		AlwaysUseSSL: resp.SSL,
	}, nil
}
