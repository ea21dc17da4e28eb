// Package plantapi is the client side of the plant-care assistant's chat
// endpoint: a multipart POST answered with JSON.
package plantapi

import "context"

// Transport sends one assembled chat request and returns the assistant's reply.
// A non-2xx answer is reported as *APIError; any other error means no usable
// response was received.
type Transport interface {
	Send(ctx context.Context, parts []Part) (*Reply, error)
}
