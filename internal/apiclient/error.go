package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/schema"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindTransport
	KindClient
	KindServer
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

const (
	MsgUnreachable     = "cannot reach server, check your connection"
	MsgServerError     = "temporary server error, please retry shortly"
	MsgInvalidResponse = "invalid data received from server"
	MsgSessionExpired  = "session expired, please log in again"
	MsgBadCredentials  = "incorrect email or password"
	MsgAdminRequired   = "admin rights required"
	MsgEmailTaken      = "an account with this email already exists"
)

// Error is the only error type Client returns. Message is safe to show to
// users; the underlying cause is kept for logs and errors.Is.
type Error struct {
	Kind     Kind
	Status   int
	Endpoint string
	Message  string
	cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Fields returns the field errors of a KindValidation error.
func (e *Error) Fields() []schema.FieldError {
	if ve, ok := schema.AsValidationError(e.cause); ok {
		return ve.Fields
	}
	return nil
}

func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == k
}

func validationError(endpoint string, err error) *Error {
	return &Error{Kind: KindValidation, Endpoint: endpoint, Message: err.Error(), cause: err}
}

func transportError(endpoint string, err error) *Error {
	return &Error{Kind: KindTransport, Endpoint: endpoint, Message: MsgUnreachable, cause: err}
}

func invalidResponseError(endpoint string, err error) *Error {
	return &Error{Kind: KindInvalidResponse, Endpoint: endpoint, Message: MsgInvalidResponse, cause: err}
}

// statusError classifies a non-2xx response by status and endpoint. body is
// the response body, whose "message" field is used where nothing more
// specific applies.
func statusError(method, endpoint string, status int, body []byte) *Error {
	path := endpointPath(endpoint)
	serverMsg := schema.MessageOf(body)
	cause := fmt.Errorf("%s %s: status %d", method, path, status)

	if status >= http.StatusInternalServerError {
		return &Error{Kind: KindServer, Status: status, Endpoint: endpoint, Message: MsgServerError, cause: cause}
	}

	var msg string
	switch status {
	case http.StatusBadRequest:
		switch {
		case path == "/user/signup":
			msg = "missing or invalid signup fields"
		case path == "/user/login":
			msg = "email and password are required"
		case path == "/orders" && method == http.MethodPost:
			msg = "invalid order data"
		default:
			msg = fallback(serverMsg, "invalid request")
		}
	case http.StatusUnauthorized:
		if path == "/user/login" {
			msg = MsgBadCredentials
		} else {
			msg = MsgSessionExpired
		}
	case http.StatusForbidden:
		msg = MsgAdminRequired
	case http.StatusNotFound:
		switch {
		case strings.HasPrefix(path, "/products"):
			msg = "product not found"
		case strings.HasPrefix(path, "/orders"):
			msg = "order not found"
		default:
			msg = "resource not found"
		}
	case http.StatusConflict:
		msg = MsgEmailTaken
	default:
		msg = fallback(serverMsg, fmt.Sprintf("request failed (%d)", status))
	}

	return &Error{Kind: KindClient, Status: status, Endpoint: endpoint, Message: msg, cause: cause}
}

func endpointPath(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
