package prc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Client-side validation errors. These are raised before any request is made.
var (
	// ErrNoServerKey means no server-key was passed and no default is
	// configured on the client.
	ErrNoServerKey = errors.New("prc: no server-key provided and no default configured")

	// ErrKeyFormat means a server-key does not look like a PRC server-key.
	ErrKeyFormat = errors.New("prc: server-key does not match the expected format")
)

// APIError is an error reported by the remote API, identified by its error
// code. Two APIErrors compare equal under errors.Is when their codes match,
// so callers can test against the package sentinels regardless of the
// message the server attached.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("prc: api error %d: %s", e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// The API error taxonomy, dispatched by the "code" field of failed
// responses.
var (
	ErrUnknown            = &APIError{Code: 0, Message: "unknown error"}
	ErrCommunication      = &APIError{Code: 1001, Message: "error communicating with the game server"}
	ErrInternal           = &APIError{Code: 1002, Message: "internal system error"}
	ErrMissingServerKey   = &APIError{Code: 2000, Message: "server-key header missing"}
	ErrInvalidKeyFormat   = &APIError{Code: 2001, Message: "server-key format is invalid"}
	ErrInvalidServerKey   = &APIError{Code: 2002, Message: "server-key is invalid"}
	ErrInvalidGlobalKey   = &APIError{Code: 2003, Message: "global api key is invalid"}
	ErrBannedServerKey    = &APIError{Code: 2004, Message: "server-key is banned"}
	ErrInvalidCommand     = &APIError{Code: 3001, Message: "command is invalid"}
	ErrServerOffline      = &APIError{Code: 3002, Message: "server is offline"}
	ErrRateLimited        = &APIError{Code: 4001, Message: "rate limited"}
	ErrRestrictedCommand  = &APIError{Code: 4002, Message: "command is restricted"}
	ErrProhibitedMessage  = &APIError{Code: 4003, Message: "message is prohibited"}
	ErrRestrictedResource = &APIError{Code: 9998, Message: "resource is restricted"}
	ErrOutOfDateModule    = &APIError{Code: 9999, Message: "module is out of date"}
)

var apiErrors = []*APIError{
	ErrUnknown,
	ErrCommunication,
	ErrInternal,
	ErrMissingServerKey,
	ErrInvalidKeyFormat,
	ErrInvalidServerKey,
	ErrInvalidGlobalKey,
	ErrBannedServerKey,
	ErrInvalidCommand,
	ErrServerOffline,
	ErrRateLimited,
	ErrRestrictedCommand,
	ErrProhibitedMessage,
	ErrRestrictedResource,
	ErrOutOfDateModule,
}

type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// errorForBody maps a failed response body to its taxonomy entry. Bodies
// without a recognizable code map to ErrUnknown; recognized but unlisted
// codes produce a fresh APIError carrying the server's message.
func errorForBody(body []byte) *APIError {
	var p errorPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return ErrUnknown
	}
	for _, e := range apiErrors {
		if e.Code == p.Code {
			return e
		}
	}
	return &APIError{Code: p.Code, Message: coalesce(p.Message, "unrecognized api error")}
}
