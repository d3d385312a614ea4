package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/grpc/metadata"

	eventbus "github.com/hanpama/mockgraph/internal/eventbus"
	events "github.com/hanpama/mockgraph/internal/events"
	executor "github.com/hanpama/mockgraph/internal/executor"
	language "github.com/hanpama/mockgraph/internal/language"
	reqid "github.com/hanpama/mockgraph/internal/reqid"
)

// Executor runs a parsed GraphQL document. *mock.Server implements it.
type Executor interface {
	Execute(ctx context.Context, doc *language.QueryDocument, operationName string, variables map[string]any) *executor.ExecutionResult
}

// RequestIDHeader carries a client supplied request id; it is echoed back.
const RequestIDHeader = "X-Request-Id"

// Handler is an http.Handler serving a GraphQL endpoint over GET and POST,
// with JSON batches.
type Handler struct {
	exec    Executor
	opt     Options
	headers map[string]struct{}
}

// New creates a handler serving exec.
func New(exec Executor, opts ...Option) (*Handler, error) {
	if exec == nil {
		return nil, errors.New("server: nil executor")
	}
	h := &Handler{exec: exec, opt: defaultOptions(), headers: map[string]struct{}{}}
	for _, f := range opts {
		f(&h.opt)
	}
	for _, name := range h.opt.MetadataHeaders {
		h.headers[strings.ToLower(name)] = struct{}{}
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}

	rid := r.Header.Get(RequestIDHeader)
	if rid != "" {
		ctx = reqid.WithID(ctx, rid)
	} else {
		ctx, rid = reqid.NewContext(ctx)
	}
	w.Header().Set(RequestIDHeader, rid)

	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r})
	defer func() {
		eventbus.Publish(ctx, events.HTTPFinish{Request: r, Status: sw.status, Duration: time.Since(start)})
	}()

	if h.opt.CORS.enabled() {
		h.opt.CORS.apply(sw, r)
	}
	switch r.Method {
	case http.MethodOptions:
		sw.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
		if h.opt.GraphiQL && r.URL.Query().Get("query") == "" && acceptsHTML(r.Header.Get("Accept")) {
			sw.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = sw.Write(graphiqlPage)
			return
		}
	case http.MethodPost:
	default:
		writeJSON(sw, http.StatusMethodNotAllowed, messageResponse("method not allowed"), h.opt.Pretty)
		return
	}

	reqs, batch, err := readRequests(r, h.opt.MaxBodyBytes)
	if err != nil {
		status := http.StatusBadRequest
		var re *requestError
		if errors.As(err, &re) {
			status = re.status
		}
		writeJSON(sw, status, messageResponse(err.Error()), h.opt.Pretty)
		return
	}
	ctx = metadata.NewIncomingContext(ctx, h.metadata(r, rid))

	if batch {
		out := make([]response, len(reqs))
		for i, req := range reqs {
			out[i], _ = h.execute(ctx, req)
		}
		writeJSON(sw, http.StatusOK, out, h.opt.Pretty)
		return
	}
	res, ok := h.execute(ctx, reqs[0])
	status := http.StatusOK
	if !ok {
		status = http.StatusBadRequest
	}
	writeJSON(sw, status, res, h.opt.Pretty)
}

// execute runs one request. ok is false when the document does not parse.
func (h *Handler) execute(ctx context.Context, req Request) (res response, ok bool) {
	doc, err := language.ParseQuery(req.Query)
	if err != nil {
		var le *language.Error
		if !errors.As(err, &le) {
			le = &language.Error{Message: err.Error()}
		}
		return parseErrorResponse(le), false
	}
	return resultResponse(h.exec.Execute(ctx, doc, req.OperationName, req.Variables)), true
}

// metadata copies the configured headers of r, plus the request id.
func (h *Handler) metadata(r *http.Request, rid string) metadata.MD {
	md := metadata.MD{}
	for k, v := range r.Header {
		if _, ok := h.headers[strings.ToLower(k)]; ok {
			md[strings.ToLower(k)] = v
		}
	}
	md["graphql-request-id"] = []string{rid}
	return md
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func acceptsHTML(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if mediaType == "text/html" || mediaType == "*/*" {
			return true
		}
	}
	return false
}
