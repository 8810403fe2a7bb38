package weberr

import "errors"

type responder interface {
	Response() (body interface{}, status int)
}

// Response extracts the client-facing body and status from anywhere
// in err's chain.
func Response(err error) (body interface{}, status int, ok bool) {
	var re responder
	if errors.As(err, &re) {
		body, status := re.Response()
		return body, status, true
	}
	return nil, 0, false
}

type responseError struct {
	error
	body   interface{}
	status int
}

func (e *responseError) Response() (interface{}, int) { return e.body, e.status }

func (e *responseError) Unwrap() error { return e.error }
