package apperrors

import "strings"

// appError is the concrete Error implementation. The wrapped slice holds
// the parent chain plus any attached causes; Unwrap exposes it so the
// standard errors package walks the whole graph.
type appError struct {
	msg        string
	wrapped    []error
	statuscode int
}

// New creates a root-level error with the given message.
func New(msg string) Error {
	return &appError{msg: msg}
}

func (e *appError) Error() string {
	return e.msg
}

// ErrorAll returns the message followed by every attached cause,
// separated by "; ". Useful for single-line diagnostics.
func (e *appError) ErrorAll() string {
	if len(e.wrapped) == 0 {
		return e.msg
	}
	var b strings.Builder
	b.WriteString(e.msg)
	for _, err := range e.wrapped {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *appError) Unwrap() []error {
	return e.wrapped
}

// New derives a child error. The child matches the parent through
// errors.Is but carries its own message and inherits the status code.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		wrapped:    []error{e},
		statuscode: e.statuscode,
	}
}

// Msg rephrases the error, wrapping the original so identity is kept.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:        msg,
		wrapped:    []error{e},
		statuscode: e.statuscode,
	}
}

// MsgErr rephrases the error and attaches additional causes.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	wrapped := make([]error, 0, len(errs)+1)
	wrapped = append(wrapped, e)
	wrapped = append(wrapped, errs...)
	return &appError{
		msg:        msg,
		wrapped:    wrapped,
		statuscode: e.statuscode,
	}
}

// Err attaches causes while keeping the current message.
func (e *appError) Err(errs ...error) Error {
	return e.MsgErr(e.msg, errs...)
}

// SetStatusCode derives a copy with the given status code.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statuscode
}
