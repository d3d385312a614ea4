package server

import "time"

// Options configures a Handler.
type Options struct {
	// Timeout bounds a request whose context has no deadline. 0 disables it.
	Timeout time.Duration

	// Pretty indents JSON responses.
	Pretty bool

	// MaxBodyBytes limits POST bodies. 0 means unlimited.
	MaxBodyBytes int64

	// CORS is disabled when AllowedOrigins is empty.
	CORS CORSOptions

	// MetadataHeaders lists HTTP headers exposed to mock generators as
	// incoming gRPC metadata. Names are case-insensitive. Default is none.
	MetadataHeaders []string

	// GraphiQL serves the in-browser IDE to GET requests that accept HTML.
	GraphiQL bool
}

// CORSOptions holds simple CORS settings. "*" allows any origin.
type CORSOptions struct {
	AllowedOrigins []string
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{Timeout: 10 * time.Second, GraphiQL: true}
}

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithGraphiQL(enable bool) Option    { return func(o *Options) { o.GraphiQL = enable } }

func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}

func WithMetadataHeaders(headers ...string) Option {
	return func(o *Options) { o.MetadataHeaders = headers }
}
