package server

import (
	"encoding/json"
	"net/http"

	executor "github.com/hanpama/mockgraph/internal/executor"
	language "github.com/hanpama/mockgraph/internal/language"
)

type location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type responseError struct {
	Message    string         `json:"message"`
	Locations  []location     `json:"locations,omitempty"`
	Path       executor.Path  `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// response is the JSON body of one GraphQL result. Data is kept when errors
// are present.
type response struct {
	Data   any             `json:"data"`
	Errors []responseError `json:"errors,omitempty"`
}

func resultResponse(res *executor.ExecutionResult) response {
	out := response{Data: res.Data}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, responseError{Message: e.Message, Path: e.Path, Extensions: e.Extensions})
	}
	return out
}

// parseErrorResponse reports a document that failed to parse, with the
// location of the syntax error.
func parseErrorResponse(err *language.Error) response {
	re := responseError{Message: err.Message, Extensions: err.Extensions}
	for _, loc := range err.Locations {
		re.Locations = append(re.Locations, location{Line: loc.Line, Column: loc.Column})
	}
	return response{Errors: []responseError{re}}
}

func messageResponse(msg string) response {
	return response{Errors: []responseError{{Message: msg}}}
}

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}
