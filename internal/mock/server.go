package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/hanpama/mockgraph/internal/eventbus"
	"github.com/hanpama/mockgraph/internal/events"
	executor "github.com/hanpama/mockgraph/internal/executor"
	"github.com/hanpama/mockgraph/internal/introspection"
	language "github.com/hanpama/mockgraph/internal/language"
	schema "github.com/hanpama/mockgraph/internal/schema"
)

// Server answers GraphQL queries with mocked data.
type Server struct {
	schema   *schema.Schema
	registry *Registry
	exec     *executor.Executor
}

// NewServer returns a Server for sch. rules may be nil.
func NewServer(sch *schema.Schema, rules *Rules, opts ...Option) (*Server, error) {
	if sch == nil {
		return nil, ErrMissingSchema
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	reg := NewRegistry(sch, rules, opts...)

	var rt executor.Runtime = newRuntime(reg)
	execSchema := sch
	if cfg.introspection {
		w := introspection.Wrap(rt, sch)
		rt, execSchema = w.Runtime, w.Schema
	}
	return &Server{
		schema:   sch,
		registry: reg,
		exec:     executor.NewExecutor(rt, execSchema),
	}, nil
}

// Schema returns the schema the server mocks.
func (s *Server) Schema() *schema.Schema { return s.schema }

// Registry returns the registry used to pick generators.
func (s *Server) Registry() *Registry { return s.registry }

// Query executes the single operation in query.
func (s *Server) Query(ctx context.Context, query string, variables map[string]any) (*executor.ExecutionResult, error) {
	return s.QueryOperation(ctx, query, "", variables)
}

// QueryOperation executes the named operation of query. A document that does
// not parse is returned as an error; everything else is reported in the
// result.
func (s *Server) QueryOperation(ctx context.Context, query, operationName string, variables map[string]any) (*executor.ExecutionResult, error) {
	doc, err := language.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return s.execute(ctx, doc, query, operationName, variables), nil
}

// Execute runs an already parsed document.
func (s *Server) Execute(ctx context.Context, doc *language.QueryDocument, operationName string, variables map[string]any) *executor.ExecutionResult {
	return s.execute(ctx, doc, language.Print(doc), operationName, variables)
}

func (s *Server) execute(ctx context.Context, doc *language.QueryDocument, query, operationName string, variables map[string]any) *executor.ExecutionResult {
	opType := operationType(doc, operationName)
	eventbus.Publish(ctx, events.GraphQLStart{Query: query, OperationName: operationName, OperationType: opType})
	start := time.Now()

	res := s.exec.ExecuteRequest(ctx, doc, operationName, variables, nil)

	var errs []error
	for _, e := range res.Errors {
		errs = append(errs, e)
	}
	eventbus.Publish(ctx, events.GraphQLFinish{
		Query:         query,
		OperationName: operationName,
		OperationType: opType,
		Errors:        errs,
		Duration:      time.Since(start),
	})
	return res
}

// QueryAsync runs Query in its own goroutine.
func (s *Server) QueryAsync(ctx context.Context, query string, variables map[string]any) *Future {
	return goFuture(func() (*executor.ExecutionResult, error) {
		return s.Query(ctx, query, variables)
	})
}

func operationType(doc *language.QueryDocument, name string) string {
	for _, op := range doc.Operations {
		if name == "" || op.Name == name {
			return string(op.Operation)
		}
	}
	return ""
}
