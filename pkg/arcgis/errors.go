package arcgis

import (
	"net/http"

	"github.com/geoplatform/arcrest/internal/common/apperrors"
)

// Base gateway error. Every error returned by this package matches it
// through errors.Is.
var (
	ErrGateway apperrors.Error = apperrors.New("arcgis gateway request failed").SetStatusCode(http.StatusInternalServerError)
)

var (
	// ErrConfiguration reports a problem detected before any network
	// call: a missing serializer, an unusable root URL, or a token
	// referer that is not a well-formed absolute URL.
	ErrConfiguration apperrors.Error = ErrGateway.New("invalid gateway configuration").SetStatusCode(http.StatusBadRequest)

	// ErrInvalidRequest reports a malformed request URL or parameter
	// set, detected before the request is sent.
	ErrInvalidRequest apperrors.Error = ErrGateway.New("invalid request").SetStatusCode(http.StatusBadRequest)

	// ErrTransport reports a connection failure or a non-success HTTP
	// status. During site discovery this kind is treated as
	// "inaccessible, skip"; everywhere else it propagates.
	ErrTransport apperrors.Error = ErrGateway.New("transport failure").SetStatusCode(http.StatusBadGateway)

	// ErrAuthentication reports a failed token exchange.
	ErrAuthentication apperrors.Error = ErrGateway.New("token exchange failed").SetStatusCode(http.StatusUnauthorized)

	// ErrOperation reports an error payload returned by the platform.
	// The verbatim *types.ServerError is attached and can be recovered
	// with errors.As.
	ErrOperation apperrors.Error = ErrGateway.New("operation returned an error").SetStatusCode(http.StatusBadRequest)
)
