package sdp

import (
	"encoding/json"

	"github.com/Reventlow/glass/internal/domain"
)

// SDP envelope status codes.
const (
	codeSuccess    = 2000
	codeAuthFailed = 4001
	codeNotFound   = 4005
)

// ResponseStatus is the envelope block every SDP response carries.
type ResponseStatus struct {
	StatusCode FlexInt           `json:"status_code"`
	Status     string            `json:"status"`
	Messages   []ResponseMessage `json:"messages"`
}

// ResponseMessage is a single entry in the envelope's message list.
type ResponseMessage struct {
	Message    string  `json:"message"`
	StatusCode FlexInt `json:"status_code,omitempty"`
	Type       string  `json:"type,omitempty"`
}

// IsSuccess reports whether the envelope indicates success.
func (s *ResponseStatus) IsSuccess() bool {
	return int(s.StatusCode) == codeSuccess
}

// AsError converts a failed envelope into a domain error. 4001 maps to
// authentication failure and 4005 to not-found; the not-found id is
// generic, callers re-stamp it with the concrete identifier. Every
// other code becomes a remote error carrying the code and first
// message.
func (s *ResponseStatus) AsError() *domain.Error {
	switch int(s.StatusCode) {
	case codeAuthFailed:
		return domain.ErrAuthentication()
	case codeNotFound:
		return domain.ErrNotFound("unknown")
	default:
		message := "Unknown error"
		if len(s.Messages) > 0 {
			message = s.Messages[0].Message
		}
		return domain.ErrRemote(int(s.StatusCode), message)
	}
}

// envelope extracts only the status block; the payload is decoded from
// the same body in a second pass, which is how the flattened SDP
// response shape maps onto Go structs.
type envelope struct {
	ResponseStatus ResponseStatus `json:"response_status"`
}

// decodeEnvelope checks the response_status of body and, on success,
// decodes the payload fields into T.
func decodeEnvelope[T any](body []byte) (T, error) {
	var zero T

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, domain.ErrSerialization(err)
	}
	if !env.ResponseStatus.IsSuccess() {
		return zero, env.ResponseStatus.AsError()
	}

	var payload T
	if err := json.Unmarshal(body, &payload); err != nil {
		return zero, domain.ErrSerialization(err)
	}
	return payload, nil
}
