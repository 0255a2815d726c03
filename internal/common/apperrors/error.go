// Package apperrors provides the application's error system. Errors form
// chains: derived errors wrap their parents, so errors.Is matches an error
// against any ancestor and errors.As can recover attached causes. Every
// error carries an HTTP-ish status code used by callers to classify
// failures without string matching.
package apperrors

// Error is the interface implemented by all application errors. Methods
// that derive new errors never mutate the receiver; each returns a fresh
// value chained to the original.
type Error interface {
	error

	// Unwrap returns the errors this error wraps, supporting
	// errors.Is and errors.As traversal over the whole chain.
	Unwrap() []error

	New(msg string) Error                   // derive a child error with a new message
	Msg(msg string) Error                   // rephrase, wrapping the original
	MsgErr(msg string, errs ...error) Error // rephrase and attach causes
	Err(errs ...error) Error                // attach causes, keeping the message
	ErrorAll() string                       // message including attached causes
	SetStatusCode(code int) Error           // derive with a status code
	StatusCode() int
}
