package service

import "errors"

// ErrValidation is returned for malformed request payloads detected by
// the services themselves, such as an unparseable reservation date or
// time, or a product without a festival reference. Handlers should
// translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation error")

// ErrInvalidCredentials is returned by login when the email is unknown
// or the password does not match. The two cases are indistinguishable
// on purpose. Handlers should translate this into an HTTP 401 response.
var ErrInvalidCredentials = errors.New("invalid email or password")
