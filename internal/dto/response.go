package dto

import "time"

// BasicResponse is the body of every failed request and of bare
// acknowledgements. RequestID repeats the X-Request-ID header so a client log
// line can be matched to the backend one.
type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	RequestID string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func (r BasicResponse) WithRequestID(requestID string) BasicResponse {
	r.RequestID = requestID
	return r
}
