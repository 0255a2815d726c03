// Package types defines the wire types exchanged with an ArcGIS Server
// REST endpoint: the response envelope with its error payload, tokens,
// credentials, and the site catalog shapes returned by folder listings.
package types

import (
	"fmt"
	"strings"
)

// ServerError is the error payload the platform embeds in a response
// body. The platform reports operation failures with HTTP 200 and a
// populated error object, so a non-nil ServerError is authoritative
// regardless of status code. Code, Message and Details are preserved
// verbatim for diagnostics.
type ServerError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Error implements the error interface so a ServerError can be recovered
// from a failure chain with errors.As.
func (e *ServerError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("arcgis error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("arcgis error %d: %s (%s)", e.Code, e.Message, strings.Join(e.Details, "; "))
}

// Result is implemented by every response type the gateway can decode.
// Responses embed Envelope to satisfy it.
type Result interface {
	ServerError() *ServerError
}

// Envelope is the common part of every platform response. Embed it in a
// response struct to expose the optional error slot.
type Envelope struct {
	Error *ServerError `json:"error,omitempty"`
}

// ServerError returns the error payload, or nil when the response is
// a success.
func (e *Envelope) ServerError() *ServerError {
	return e.Error
}
