package events

import "time"

// HTTPStart is emitted when a request reaches the GraphQL handler.
// Context carries the request context.
type HTTPStart struct {
	Method string
	Path   string
}

// HTTPFinish is emitted after the handler writes its response.
type HTTPFinish struct {
	Method   string
	Path     string
	Status   int
	Duration time.Duration
}
