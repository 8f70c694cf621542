// Package api holds the wire envelopes of the v1 HTTP API.
package api

// StatusSuccess marks a successful response envelope
const StatusSuccess = "success"

// Response is the envelope of every successful JSON response. Failures are
// RFC 7807 problem documents instead.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Count  *int        `json:"count,omitempty"`
}

// Success wraps a single resource
func Success(data interface{}) Response {
	return Response{Status: StatusSuccess, Data: data}
}

// SuccessList wraps a collection and reports its length
func SuccessList(data interface{}, count int) Response {
	return Response{Status: StatusSuccess, Data: data, Count: &count}
}
