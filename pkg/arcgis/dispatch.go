package arcgis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/geoplatform/arcrest/pkg/types"
)

// maxFormValueLen bounds values that can go into a URL-encoded form
// body. Longer values (large geometry or JSON blobs) and values that
// are not valid UTF-8 are delivered through the multipart fallback.
const maxFormValueLen = 65000

// Get issues a GET against the endpoint and decodes the response into
// out. The f=json and token parameters are appended when absent; a GET
// whose assembled URL exceeds the gateway's URL length limit is sent as
// a POST carrying the URL's query parameters in the body.
func (g *Gateway) Get(ctx context.Context, ep Endpoint, out types.Result) error {
	if g.serializer == nil {
		return ErrConfiguration.Msg("no serializer configured")
	}

	u, err := url.Parse(ep.AbsoluteURL(g.rootURL))
	if err != nil {
		return ErrInvalidRequest.MsgErr("malformed request URL", err)
	}

	q := u.Query()
	if !q.Has("f") {
		q.Set("f", "json")
	}

	var bearer string
	if g.tokens != nil {
		tok, err := g.tokens.CurrentToken(ctx)
		if err != nil {
			return err
		}
		if err := validateReferer(tok); err != nil {
			return err
		}
		if tok.Value != "" && !q.Has("token") {
			q.Set("token", tok.Value)
			bearer = tok.Value
			if tok.AlwaysUseSSL {
				u.Scheme = "https"
			}
		}
	}
	u.RawQuery = q.Encode()

	target := u.String()
	if len(target) > g.getURLLimit {
		g.logger.Debug().
			Int("url_length", len(target)).
			Int("limit", g.getURLLimit).
			Msg("GET URL over length limit, sending as POST")
		// The URL carries the token attachment already (scheme rewrite
		// included); move the query into the body and keep the bearer.
		params := make(map[string]string, len(q))
		for k := range q {
			params[k] = q.Get(k)
		}
		return g.sendForm(ctx, u, params, bearer, out)
	}

	if err := validateRequestURL(u); err != nil {
		return err
	}
	return g.send(ctx, http.MethodGet, target, nil, "", bearer, out)
}

// Post issues a POST against the endpoint with the flattened parameter
// object as the request body, decoding the response into out.
func (g *Gateway) Post(ctx context.Context, ep Endpoint, params any, out types.Result) error {
	if g.serializer == nil {
		return ErrConfiguration.Msg("no serializer configured")
	}
	flat, err := g.serializer.Flatten(params)
	if err != nil {
		return ErrInvalidRequest.MsgErr("cannot flatten parameters", err)
	}
	return g.post(ctx, ep, flat, out)
}

// Ping issues a GET against the endpoint and returns the bare response
// envelope. Used to validate connectivity and credentials.
func (g *Gateway) Ping(ctx context.Context, ep Endpoint) (*types.Envelope, error) {
	var env types.Envelope
	if err := g.Get(ctx, ep, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (g *Gateway) post(ctx context.Context, ep Endpoint, params map[string]string, out types.Result) error {
	u, err := url.Parse(ep.AbsoluteURL(g.rootURL))
	if err != nil {
		return ErrInvalidRequest.MsgErr("malformed request URL", err)
	}

	if params == nil {
		params = map[string]string{}
	}

	var bearer string
	if g.tokens != nil {
		tok, err := g.tokens.CurrentToken(ctx)
		if err != nil {
			return err
		}
		if err := validateReferer(tok); err != nil {
			return err
		}
		if _, ok := params["token"]; tok.Value != "" && !ok {
			params["token"] = tok.Value
			bearer = tok.Value
			if tok.AlwaysUseSSL {
				u.Scheme = "https"
			}
		}
	}
	return g.sendForm(ctx, u, params, bearer, out)
}

// sendForm dispatches params as a POST body against u. The URL's token
// attachment (scheme rewrite, bearer) must already be settled by the
// caller; the query string never survives into a POST.
func (g *Gateway) sendForm(ctx context.Context, u *url.URL, params map[string]string, bearer string, out types.Result) error {
	u.RawQuery = ""
	u.Fragment = ""

	if _, ok := params["f"]; !ok {
		params["f"] = "json"
	}

	if err := validateRequestURL(u); err != nil {
		return err
	}

	body, contentType, err := encodeFormBody(params)
	if err != nil {
		return ErrInvalidRequest.MsgErr("cannot encode request body", err)
	}
	return g.send(ctx, http.MethodPost, u.String(), body, contentType, bearer, out)
}

func (g *Gateway) send(ctx context.Context, method, target string, body io.Reader, contentType, bearer string, out types.Result) error {
	logger := g.logger.With().
		Str("request_id", uuid.NewString()).
		Str("method", method).
		Logger()

	ctx, release := g.claimRequestSlot(ctx)
	defer release()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return ErrInvalidRequest.MsgErr("cannot build request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	logger.Debug().Int("url_length", len(target)).Msg("dispatching request")
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return ErrTransport.MsgErr("request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrTransport.MsgErr("cannot read response body", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ErrTransport.Msg(fmt.Sprintf("server returned status %d", resp.StatusCode))
	}

	if err := g.serializer.Parse(data, out); err != nil {
		return ErrGateway.MsgErr("cannot decode response", err)
	}
	if serr := out.ServerError(); serr != nil {
		logger.Debug().Int("code", serr.Code).Str("message", serr.Message).Msg("server reported an error")
		return ErrOperation.MsgErr(serr.Message, serr)
	}
	return nil
}

// encodeFormBody encodes params as a URL-encoded form when every value
// is form-safe, falling back to multipart/form-data with each value as
// a plain text part otherwise.
func encodeFormBody(params map[string]string) (io.Reader, string, error) {
	if formEncodable(params) {
		form := url.Values{}
		for k, v := range params {
			form.Set(k, v)
		}
		return strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, k := range keys {
		if err := w.WriteField(k, params[k]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func formEncodable(params map[string]string) bool {
	for _, v := range params {
		if len(v) > maxFormValueLen || !utf8.ValidString(v) {
			return false
		}
	}
	return true
}

func validateReferer(tok types.Token) error {
	if tok.Referer == "" {
		return nil
	}
	u, err := url.Parse(tok.Referer)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrConfiguration.Msg("token referer is not an absolute URL: " + tok.Referer)
	}
	return nil
}

func validateRequestURL(u *url.URL) error {
	if !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidRequest.Msg("not an absolute http(s) URL: " + u.String())
	}
	return nil
}
