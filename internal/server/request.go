package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// Request is one GraphQL-over-HTTP request.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
	Extensions    map[string]any `json:"extensions,omitempty"`
}

// requestError is a malformed HTTP request, answered before execution.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(msg string) *requestError {
	return &requestError{status: http.StatusBadRequest, message: msg}
}

// readRequests decodes the GraphQL requests carried by r. batch reports
// whether the body was a JSON array.
func readRequests(r *http.Request, maxBody int64) (reqs []Request, batch bool, err error) {
	if r.Method == http.MethodGet {
		req, err := queryRequest(r)
		if err != nil {
			return nil, false, err
		}
		return []Request{req}, false, nil
	}

	body := io.Reader(r.Body)
	if maxBody > 0 {
		body = http.MaxBytesReader(nil, r.Body, maxBody)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, false, &requestError{status: http.StatusRequestEntityTooLarge, message: "body too large"}
		}
		return nil, false, badRequest("failed to read body")
	}

	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err = mime.ParseMediaType(ct); err != nil {
			return nil, false, badRequest("invalid Content-Type")
		}
	}
	switch mediaType {
	case "application/graphql":
		return []Request{{Query: string(data)}}, false, nil
	case "application/json":
	default:
		return nil, false, &requestError{status: http.StatusUnsupportedMediaType, message: "unsupported Content-Type " + mediaType}
	}

	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &reqs); err != nil {
			return nil, false, badRequest("invalid JSON")
		}
		if len(reqs) == 0 {
			return nil, false, badRequest("empty batch")
		}
		return reqs, true, nil
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, false, badRequest("invalid JSON")
	}
	if req.Query == "" {
		return nil, false, badRequest("missing 'query'")
	}
	return []Request{req}, false, nil
}

func queryRequest(r *http.Request) (Request, error) {
	q := r.URL.Query()
	req := Request{Query: q.Get("query"), OperationName: q.Get("operationName")}
	if req.Query == "" {
		return Request{}, badRequest("missing 'query'")
	}
	if v := q.Get("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
			return Request{}, badRequest("invalid 'variables' JSON")
		}
	}
	return req, nil
}
