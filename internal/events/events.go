// Package events defines the payloads published on the eventbus. Packages
// that serve requests publish them; logging and tracing subscribe.
package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when an HTTP request is received. The publishing
// context is the request context.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is emitted after the handler has written its response.
type HTTPFinish struct {
	Request  *http.Request
	Status   int
	Duration time.Duration
}

// GraphQLStart is emitted before a mocked operation runs.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is emitted after a mocked operation has run. Errors holds
// the field and request errors of the response.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}

// GeneratorStart is emitted before a user-supplied mock generator runs.
type GeneratorStart struct {
	Selector   string
	ParentType string
	Field      string
}

// GeneratorFinish is emitted after a user-supplied mock generator returns.
// Err is set when the generator failed or panicked.
type GeneratorFinish struct {
	Selector   string
	ParentType string
	Field      string
	Err        error
	Duration   time.Duration
}
