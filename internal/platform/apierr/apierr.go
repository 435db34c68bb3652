package apierr

import "fmt"

// Error is an error already resolved to its HTTP shape. Field names the
// offending input when the failure is a validation one.
type Error struct {
	Status int
	Code   string
	Field  string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// WithField returns a copy of e that names field.
func (e *Error) WithField(field string) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Field = field
	return &cp
}
