package oauth

import "errors"

// ErrorCode is an RFC 6749 error code returned on the redirect.
type ErrorCode string

const (
	ErrorCodeAccessDenied   ErrorCode = "access_denied"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
	ErrorCodeInvalidScope   ErrorCode = "invalid_scope"
)

const (
	ParamCode             = "code"
	ParamState            = "state"
	ParamScope            = "scope"
	ParamError            = "error"
	ParamErrorDescription = "error_description"
)

var (
	ErrNoToken       = errors.New("no token found - please authorize first")
	ErrTokenExpired  = errors.New("token expired and no refresh token available")
	ErrConsentDenied = errors.New("consent denied")
	ErrInvalidState  = errors.New("invalid state parameter")
	ErrMissingCode   = errors.New("missing authorization code")
)
