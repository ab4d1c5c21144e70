package port

import (
	"context"
	"io"
	"net/url"
)

// Body is an encoded request payload. Open is called once per attempt, so a body can be
// sent again when a request is retried.
type Body interface {
	// Open returns a reader over the payload together with its content type.
	Open() (io.Reader, string, error)
}

// Request describes a single call to the remote API.
type Request struct {
	// Operation names the call in logs and metrics.
	Operation string
	Method    string
	// Path is resolved against the configured base URL.
	Path  string
	Query url.Values
	Body  Body
}

type Requester interface {
	// Do sends the request and decodes a successful response body into out. A nil out
	// discards the body.
	Do(ctx context.Context, req Request, out any) error
}
