package mock

import (
	"context"

	executor "github.com/hanpama/mockgraph/internal/executor"
	language "github.com/hanpama/mockgraph/internal/language"
	schema "github.com/hanpama/mockgraph/internal/schema"
)

// Request is a GraphQL request as a network client would send it.
type Request struct {
	Query         *language.QueryDocument
	Variables     map[string]any
	OperationName string
}

// NetworkInterface lets GraphQL clients talk to a mock Server in process.
type NetworkInterface struct {
	server *Server
}

// NewNetworkInterface builds a Server for sch and wraps it.
func NewNetworkInterface(sch *schema.Schema, rules *Rules, opts ...Option) (*NetworkInterface, error) {
	s, err := NewServer(sch, rules, opts...)
	if err != nil {
		return nil, err
	}
	return &NetworkInterface{server: s}, nil
}

// Server returns the wrapped server.
func (n *NetworkInterface) Server() *Server { return n.server }

// Execute prints req.Query back to text and runs it on the server.
func (n *NetworkInterface) Execute(ctx context.Context, req Request) (*executor.ExecutionResult, error) {
	if req.Query == nil {
		return nil, ErrMissingQuery
	}
	return n.server.QueryOperation(ctx, language.Print(req.Query), req.OperationName, req.Variables)
}

// ExecuteAsync runs Execute in its own goroutine.
func (n *NetworkInterface) ExecuteAsync(ctx context.Context, req Request) *Future {
	return goFuture(func() (*executor.ExecutionResult, error) {
		return n.Execute(ctx, req)
	})
}
